package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskledger/pkg/domain/model"
	"github.com/secmon-lab/riskledger/pkg/domain/types"
)

func TestIncidentLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	manager := env.register(t, newUser("bob", types.RoleManager, "IT"))
	outsider := env.register(t, newUser("erin", types.RoleManager, "Legal"))
	risk := env.createRisk(t, manager, riskInput("Data breach"))

	occurred := baseTime.Add(-2 * time.Hour)
	incident, err := env.uc.Incident.CreateIncident(ctx, manager, model.IncidentInput{
		RiskID:     risk.ID,
		Summary:    "Leaked credentials",
		OccurredAt: occurred,
	})
	gt.NoError(t, err).Required()
	gt.Value(t, incident.Department).Equal("IT")
	gt.Bool(t, incident.OccurredAt.Equal(occurred)).True()
	gt.Bool(t, incident.IsClosed()).False()

	t.Run("outsider cannot see or create incidents", func(t *testing.T) {
		visible, err := env.uc.Incident.ListVisibleIncidents(ctx, outsider)
		gt.NoError(t, err).Required()
		gt.Array(t, visible).Length(0)

		_, err = env.uc.Incident.CreateIncident(ctx, outsider, model.IncidentInput{RiskID: risk.ID, Summary: "x"})
		gt.Error(t, err).Is(model.ErrNotFound)

		_, err = env.uc.Incident.CloseIncident(ctx, outsider, incident.ID)
		gt.Error(t, err).Is(model.ErrNotFound)
	})

	t.Run("update changes text fields", func(t *testing.T) {
		env.clock.Advance(time.Hour)
		status := "Keys rotated"
		updated, err := env.uc.Incident.UpdateIncident(ctx, manager, incident.ID, &model.IncidentPatch{CurrentStatusText: &status})
		gt.NoError(t, err).Required()
		gt.Value(t, updated.CurrentStatusText).Equal("Keys rotated")
		gt.Value(t, updated.RiskID).Equal(risk.ID)
		gt.Bool(t, updated.UpdatedAt.After(incident.UpdatedAt)).True()
	})

	t.Run("close sets the closed date once", func(t *testing.T) {
		closed, err := env.uc.Incident.CloseIncident(ctx, manager, incident.ID)
		gt.NoError(t, err).Required()
		gt.Bool(t, closed.IsClosed()).True()
		closedAt := *closed.ClosedDate

		env.clock.Advance(time.Hour)
		again, err := env.uc.Incident.CloseIncident(ctx, manager, incident.ID)
		gt.NoError(t, err).Required()
		gt.Bool(t, again.ClosedDate.Equal(closedAt)).True()
	})

	t.Run("owner of the risk sees the incident", func(t *testing.T) {
		visible, err := env.uc.Incident.ListVisibleIncidents(ctx, manager)
		gt.NoError(t, err).Required()
		gt.Array(t, visible).Length(1)
	})

	t.Run("delete removes the incident", func(t *testing.T) {
		gt.NoError(t, env.uc.Incident.DeleteIncident(ctx, manager, incident.ID)).Required()
		_, err := env.repo.Incident().Get(ctx, incident.ID)
		gt.Error(t, err).Is(model.ErrNotFound)
	})
}

func TestCreateIncidentValidation(t *testing.T) {
	env := newTestEnv(t)
	manager := env.register(t, newUser("bob", types.RoleManager, "IT"))

	_, err := env.uc.Incident.CreateIncident(context.Background(), manager, model.IncidentInput{Summary: "x"})
	gt.Error(t, err).Is(model.ErrValidation)

	_, err = env.uc.Incident.CreateIncident(context.Background(), manager, model.IncidentInput{RiskID: model.NewRiskID()})
	gt.Error(t, err).Is(model.ErrValidation)

	_, err = env.uc.Incident.CreateIncident(context.Background(), manager, model.IncidentInput{RiskID: model.NewRiskID(), Summary: "x"})
	gt.Error(t, err).Is(model.ErrNotFound)
}
