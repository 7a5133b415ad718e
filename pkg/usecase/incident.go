package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskledger/pkg/domain/interfaces"
	"github.com/secmon-lab/riskledger/pkg/domain/model"
	"github.com/secmon-lab/riskledger/pkg/utils/logging"
)

type IncidentUseCase struct {
	repo  interfaces.Repository
	risks *RiskUseCase
	clock func() time.Time
}

func NewIncidentUseCase(repo interfaces.Repository, risks *RiskUseCase, clock func() time.Time) *IncidentUseCase {
	if clock == nil {
		clock = time.Now
	}
	return &IncidentUseCase{
		repo:  repo,
		risks: risks,
		clock: clock,
	}
}

// CreateIncident records an occurrence of a risk visible to viewer. The
// incident takes the department of its risk.
func (uc *IncidentUseCase) CreateIncident(ctx context.Context, viewer *model.User, input model.IncidentInput) (*model.Incident, error) {
	if input.RiskID == "" {
		return nil, goerr.Wrap(model.ErrValidation, "risk is required", goerr.V(model.FieldKey, "riskId"))
	}
	if strings.TrimSpace(input.Summary) == "" {
		return nil, goerr.Wrap(model.ErrValidation, "incident summary is required", goerr.V(model.FieldKey, "summary"))
	}

	risk, err := uc.risks.GetRisk(ctx, viewer, input.RiskID)
	if err != nil {
		return nil, err
	}

	now := uc.clock().UTC()
	occurredAt := input.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = now
	}

	created, err := uc.repo.Incident().Create(ctx, &model.Incident{
		ID:                model.NewIncidentID(),
		RiskID:            risk.ID,
		Summary:           input.Summary,
		Description:       input.Description,
		MitigationSteps:   input.MitigationSteps,
		CurrentStatusText: input.CurrentStatusText,
		OccurredAt:        occurredAt.UTC(),
		Department:        risk.Department,
		CreatedAt:         now,
		UpdatedAt:         now,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create incident", goerr.V(model.RiskIDKey, risk.ID))
	}

	logging.From(ctx).Info("incident created",
		"incident_id", created.ID,
		"risk_id", risk.ID)
	return created, nil
}

// getVisible returns an incident whose risk is visible to viewer
func (uc *IncidentUseCase) getVisible(ctx context.Context, viewer *model.User, id model.IncidentID) (*model.Incident, error) {
	incident, err := uc.repo.Incident().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get incident", goerr.V(model.IncidentIDKey, id))
	}
	if _, err := uc.risks.GetRisk(ctx, viewer, incident.RiskID); err != nil {
		return nil, goerr.Wrap(model.ErrNotFound, "incident not found", goerr.V(model.IncidentIDKey, id))
	}
	return incident, nil
}

func (uc *IncidentUseCase) UpdateIncident(ctx context.Context, viewer *model.User, id model.IncidentID, patch *model.IncidentPatch) (*model.Incident, error) {
	incident, err := uc.getVisible(ctx, viewer, id)
	if err != nil {
		return nil, err
	}

	next := patch.Apply(incident)
	if strings.TrimSpace(next.Summary) == "" {
		return nil, goerr.Wrap(model.ErrValidation, "incident summary is required", goerr.V(model.FieldKey, "summary"))
	}
	next.UpdatedAt = model.Touch(incident.UpdatedAt, uc.clock())

	updated, err := uc.repo.Incident().Update(ctx, next)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update incident", goerr.V(model.IncidentIDKey, id))
	}
	return updated, nil
}

// CloseIncident sets the closed date. Closing a closed incident keeps its
// original closed date.
func (uc *IncidentUseCase) CloseIncident(ctx context.Context, viewer *model.User, id model.IncidentID) (*model.Incident, error) {
	incident, err := uc.getVisible(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	if incident.IsClosed() {
		return incident, nil
	}

	now := uc.clock().UTC()
	next := incident.Clone()
	next.ClosedDate = &now
	next.UpdatedAt = model.Touch(incident.UpdatedAt, now)

	updated, err := uc.repo.Incident().Update(ctx, next)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to close incident", goerr.V(model.IncidentIDKey, id))
	}
	return updated, nil
}

func (uc *IncidentUseCase) DeleteIncident(ctx context.Context, viewer *model.User, id model.IncidentID) error {
	if _, err := uc.getVisible(ctx, viewer, id); err != nil {
		return err
	}
	if err := uc.repo.Incident().Delete(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete incident", goerr.V(model.IncidentIDKey, id))
	}
	return nil
}

// ListVisibleIncidents returns incidents whose risk is visible to viewer
func (uc *IncidentUseCase) ListVisibleIncidents(ctx context.Context, viewer *model.User) ([]*model.Incident, error) {
	risks, err := uc.risks.ListVisibleRisks(ctx, viewer, model.RiskFilter{})
	if err != nil {
		return nil, err
	}

	incidents, err := uc.repo.Incident().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list incidents")
	}
	return model.VisibleIncidents(incidents, risks), nil
}
