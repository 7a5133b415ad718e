package interfaces

import (
	"context"
	"time"

	"github.com/secmon-lab/riskledger/pkg/domain/model"
)

type SweepRepository interface {
	// Get returns the watermark of a sweep. A sweep that never ran yields a
	// watermark with zero LastSweptAt.
	Get(ctx context.Context, name string) (*model.SweepWatermark, error)

	// Claim atomically moves the watermark to now if the previous sweep is at
	// least minInterval old. It reports whether the caller may run the sweep.
	Claim(ctx context.Context, name string, now time.Time, minInterval time.Duration) (bool, error)

	// Release drops a claim taken at claimedAt so that the next sweep may run
	// immediately. A watermark moved past claimedAt by a later claim is kept.
	Release(ctx context.Context, name string, claimedAt time.Time) error
}
