package rdb

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskledger/pkg/domain/model"
)

var errSweepTaken = errors.New("sweep claimed concurrently")

type sweepRepository struct {
	c *conn
}

func (r *sweepRepository) Get(ctx context.Context, name string) (*model.SweepWatermark, error) {
	var last int64
	err := r.c.queryRow(ctx, r.c.db, `SELECT last_swept_at FROM sweeps WHERE name = ?`, name).Scan(&last)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &model.SweepWatermark{Name: name}, nil
		}
		return nil, storeError(err, "failed to get sweep watermark", goerr.V("name", name))
	}
	return &model.SweepWatermark{Name: name, LastSweptAt: fromNanos(last)}, nil
}

func (r *sweepRepository) Claim(ctx context.Context, name string, now time.Time, minInterval time.Duration) (bool, error) {
	var claimed bool
	err := r.c.inTx(ctx, func(tx *sql.Tx) error {
		var last int64
		err := r.c.queryRow(ctx, tx, `SELECT last_swept_at FROM sweeps WHERE name = ?`, name).Scan(&last)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			if _, err := r.c.exec(ctx, tx, `INSERT INTO sweeps (name, last_swept_at) VALUES (?, ?)`,
				name, toNanos(now)); err != nil {
				if isUniqueViolation(err) {
					return errSweepTaken
				}
				return err
			}
			claimed = true
			return nil

		case err != nil:
			return err
		}

		if now.Sub(fromNanos(last)) < minInterval {
			return nil
		}

		// Conditional on the value read so that a concurrent claim wins only once
		res, err := r.c.exec(ctx, tx, `UPDATE sweeps SET last_swept_at = ? WHERE name = ? AND last_swept_at = ?`,
			toNanos(now), name, last)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		claimed = n == 1
		return nil
	})
	if errors.Is(err, errSweepTaken) {
		return false, nil
	}
	if err != nil {
		return false, storeError(err, "failed to claim sweep", goerr.V("name", name))
	}
	return claimed, nil
}

func (r *sweepRepository) Release(ctx context.Context, name string, claimedAt time.Time) error {
	if _, err := r.c.exec(ctx, r.c.db, `DELETE FROM sweeps WHERE name = ? AND last_swept_at <= ?`,
		name, toNanos(claimedAt)); err != nil {
		return storeError(err, "failed to release sweep", goerr.V("name", name))
	}
	return nil
}
