package usecase

import (
	"context"
	"sync/atomic"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskledger/pkg/domain/model"
	"github.com/secmon-lab/riskledger/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

// MigrateLegacyRisks persists the normalized form of every legacy risk and
// returns how many were rewritten. Normalization is not a user change, so no
// history is recorded. Running it again rewrites nothing.
func (uc *RiskUseCase) MigrateLegacyRisks(ctx context.Context) (int, error) {
	risks, err := uc.repo.Risk().Query(ctx, model.RiskQuery{})
	if err != nil {
		return 0, goerr.Wrap(err, "failed to query risks")
	}

	var migrated atomic.Int64
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(sweepConcurrency)

	for _, risk := range risks {
		normalized, changed := model.NormalizeRisk(risk)
		if !changed {
			continue
		}

		eg.Go(func() error {
			normalized.UpdatedAt = model.Touch(risk.UpdatedAt, uc.now())
			if _, err := uc.repo.Risk().Update(ctx, normalized); err != nil {
				return goerr.Wrap(err, "failed to persist normalized risk", goerr.V(model.RiskIDKey, risk.ID))
			}
			migrated.Add(1)
			uc.metrics.normalizedRisks.Inc()
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return int(migrated.Load()), err
	}

	count := int(migrated.Load())
	logging.From(ctx).Info("legacy risks migrated",
		"total", len(risks),
		"migrated", count)
	return count, nil
}
