package memory

import (
	"context"
	"sync"
	"time"

	"github.com/secmon-lab/riskledger/pkg/domain/model"
)

type sweepRepository struct {
	mu         sync.Mutex
	watermarks map[string]time.Time
}

func newSweepRepository() *sweepRepository {
	return &sweepRepository{
		watermarks: make(map[string]time.Time),
	}
}

func (r *sweepRepository) Get(ctx context.Context, name string) (*model.SweepWatermark, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return &model.SweepWatermark{Name: name, LastSweptAt: r.watermarks[name]}, nil
}

func (r *sweepRepository) Claim(ctx context.Context, name string, now time.Time, minInterval time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	last, exists := r.watermarks[name]
	if exists && now.Sub(last) < minInterval {
		return false, nil
	}
	r.watermarks[name] = now.UTC()
	return true, nil
}

func (r *sweepRepository) Release(ctx context.Context, name string, claimedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if last, exists := r.watermarks[name]; exists && !last.After(claimedAt) {
		delete(r.watermarks, name)
	}
	return nil
}
