package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskledger/pkg/domain/model"
	"github.com/secmon-lab/riskledger/pkg/utils/logging"
)

// createNumbered assigns the next risk number of the risk's department and
// inserts it. The store rejects a number taken by a concurrent writer, in
// which case the number is recomputed, up to NumberingMaxRetries times.
func (uc *RiskUseCase) createNumbered(ctx context.Context, risk *model.Risk) (*model.Risk, error) {
	logger := logging.From(ctx)

	maxRetries := uc.policy.NumberingMaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	for attempt := 0; ; attempt++ {
		existing, err := uc.repo.Risk().ListRiskNos(ctx, risk.Department)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list risk numbers", goerr.V(model.DepartmentKey, risk.Department))
		}

		candidate := risk.Clone()
		candidate.RiskNo = model.NextRiskNo(existing)

		created, err := uc.repo.Risk().Create(ctx, candidate)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, model.ErrConflict) {
			return nil, goerr.Wrap(err, "failed to create risk", goerr.V(model.RiskIDKey, risk.ID))
		}

		uc.metrics.numberingConflicts.Inc()
		if attempt >= maxRetries {
			return nil, goerr.Wrap(err, "risk number allocation kept conflicting",
				goerr.V(model.DepartmentKey, risk.Department),
				goerr.V(AttemptKey, attempt+1))
		}

		logger.Warn("risk number taken, retrying",
			"department", risk.Department,
			"risk_no", candidate.RiskNo,
			"attempt", attempt+1)
	}
}
