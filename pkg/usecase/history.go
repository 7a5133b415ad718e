package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskledger/pkg/domain/model"
)

// recordChanges appends one history entry per watched field that differs
// between prev and next
func (uc *RiskUseCase) recordChanges(ctx context.Context, prev, next *model.Risk, changedBy model.UserID) ([]*model.RiskHistory, error) {
	entries := model.DiffRisk(prev, next, changedBy, next.UpdatedAt)
	if len(entries) == 0 {
		return nil, nil
	}

	if err := uc.repo.History().Append(ctx, entries...); err != nil {
		return nil, goerr.Wrap(err, "failed to append risk history",
			goerr.V(model.RiskIDKey, next.ID),
			goerr.V("count", len(entries)))
	}

	for _, e := range entries {
		uc.metrics.historyEntries.WithLabelValues(e.FieldName).Inc()
	}
	return entries, nil
}
