package usecase

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskledger/pkg/domain/model"
	"github.com/secmon-lab/riskledger/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

// sweepConcurrency bounds concurrent store writes of a sweep or migration
const sweepConcurrency = 8

// RunAgingSweep moves every unresolved risk older than the aging threshold to
// Existing and returns how many risks were transitioned. The sweep first
// claims the persisted watermark, so instances sharing a store run it at
// most once per SweepMinInterval; an unclaimed sweep returns 0. A failed
// sweep releases its claim so the next run retries.
func (uc *RiskUseCase) RunAgingSweep(ctx context.Context) (int, error) {
	logger := logging.From(ctx)
	now := uc.now()

	claimed, err := uc.repo.Sweep().Claim(ctx, model.AgingSweepName, now, uc.policy.SweepMinInterval)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to claim aging sweep")
	}
	if !claimed {
		logger.Info("aging sweep skipped, already run recently",
			"min_interval", uc.policy.SweepMinInterval.String())
		return 0, nil
	}

	count, err := uc.agePending(ctx, now)
	if err != nil {
		// Released even when ctx is already canceled
		if relErr := uc.repo.Sweep().Release(context.WithoutCancel(ctx), model.AgingSweepName, now); relErr != nil {
			logger.Error("failed to release aging sweep claim", "error", relErr)
		}
		return count, err
	}
	return count, nil
}

func (uc *RiskUseCase) agePending(ctx context.Context, now time.Time) (int, error) {
	logger := logging.From(ctx)

	candidates, err := uc.repo.Risk().Query(ctx, model.RiskQuery{
		CreatedBefore: now.Add(-uc.policy.AgingThreshold),
	})
	if err != nil {
		return 0, goerr.Wrap(err, "failed to query aging candidates")
	}

	// Aging inspects status, which normalization may have just filled in
	normalized, _ := model.NormalizeRisks(candidates)

	var transitioned atomic.Int64
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(sweepConcurrency)

	for _, risk := range normalized {
		if !model.ShouldAge(risk, now, uc.policy.AgingThreshold) {
			continue
		}

		eg.Go(func() error {
			aged := model.Age(risk, now)
			updated, err := uc.repo.Risk().Update(ctx, aged)
			if err != nil {
				return goerr.Wrap(err, "failed to age risk", goerr.V(model.RiskIDKey, risk.ID))
			}
			if _, err := uc.recordChanges(ctx, risk, updated, ""); err != nil {
				return err
			}

			transitioned.Add(1)
			uc.metrics.agingTransitions.Inc()
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return int(transitioned.Load()), err
	}

	count := int(transitioned.Load())
	logger.Info("aging sweep completed",
		"candidates", len(candidates),
		"transitioned", count)
	return count, nil
}
