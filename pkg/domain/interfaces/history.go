package interfaces

import (
	"context"

	"github.com/secmon-lab/riskledger/pkg/domain/model"
)

// HistoryRepository stores risk history. It is append-only: there is no
// update or delete operation.
type HistoryRepository interface {
	// Append stores entries
	Append(ctx context.Context, entries ...*model.RiskHistory) error

	// ListByRisk returns the entries of a risk, oldest first
	ListByRisk(ctx context.Context, riskID model.RiskID) ([]*model.RiskHistory, error)
}
