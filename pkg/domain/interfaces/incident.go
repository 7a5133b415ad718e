package interfaces

import (
	"context"

	"github.com/secmon-lab/riskledger/pkg/domain/model"
)

type IncidentRepository interface {
	Create(ctx context.Context, incident *model.Incident) (*model.Incident, error)
	Get(ctx context.Context, id model.IncidentID) (*model.Incident, error)

	// Update replaces an existing incident. RiskID, Department and CreatedAt
	// of the stored record are kept.
	Update(ctx context.Context, incident *model.Incident) (*model.Incident, error)
	Delete(ctx context.Context, id model.IncidentID) error
	List(ctx context.Context) ([]*model.Incident, error)
	ListByRisk(ctx context.Context, riskID model.RiskID) ([]*model.Incident, error)
}
