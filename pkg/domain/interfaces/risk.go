package interfaces

import (
	"context"

	"github.com/secmon-lab/riskledger/pkg/domain/model"
)

type RiskRepository interface {
	// Create inserts a new risk. It fails with model.ErrConflict when the
	// (Department, RiskNo) pair or the ID is already taken.
	Create(ctx context.Context, risk *model.Risk) (*model.Risk, error)

	// Get retrieves a risk by ID
	Get(ctx context.Context, id model.RiskID) (*model.Risk, error)

	// Update replaces an existing risk. RiskNo, Department and CreatedAt
	// of the stored record are kept.
	Update(ctx context.Context, risk *model.Risk) (*model.Risk, error)

	// Delete deletes a risk by ID
	Delete(ctx context.Context, id model.RiskID) error

	// Query lists risks matching q
	Query(ctx context.Context, q model.RiskQuery) ([]*model.Risk, error)

	// ListRiskNos returns every risk number assigned in department
	ListRiskNos(ctx context.Context, department string) ([]string, error)
}
