package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskledger/pkg/domain/interfaces"
	"github.com/secmon-lab/riskledger/pkg/domain/model"
)

func newTestIncident(riskID model.RiskID, occurredAt time.Time) *model.Incident {
	return &model.Incident{
		ID:                model.NewIncidentID(),
		RiskID:            riskID,
		Summary:           "Delivery missed",
		Description:       "Weekly delivery did not arrive",
		MitigationSteps:   "Switched to backup supplier",
		CurrentStatusText: "Monitoring",
		OccurredAt:        occurredAt,
		Department:        "finance",
		CreatedAt:         occurredAt,
		UpdatedAt:         occurredAt,
	}
}

func runIncidentRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create, Get and ListByRisk", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		riskID := model.NewRiskID()

		older := newTestIncident(riskID, baseTime)
		newer := newTestIncident(riskID, baseTime.Add(time.Hour))
		unrelated := newTestIncident(model.NewRiskID(), baseTime)
		for _, i := range []*model.Incident{older, newer, unrelated} {
			_, err := repo.Incident().Create(ctx, i)
			gt.NoError(t, err).Required()
		}

		got, err := repo.Incident().Get(ctx, older.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.RiskID).Equal(riskID)
		gt.Value(t, got.MitigationSteps).Equal("Switched to backup supplier")
		gt.Bool(t, got.IsClosed()).False()

		byRisk, err := repo.Incident().ListByRisk(ctx, riskID)
		gt.NoError(t, err).Required()
		gt.Array(t, byRisk).Length(2).Required()
		gt.Value(t, byRisk[0].ID).Equal(newer.ID)
		gt.Value(t, byRisk[1].ID).Equal(older.ID)

		all, err := repo.Incident().List(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, all).Length(3)
	})

	t.Run("Update stores the closed date and keeps the parent risk", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		incident := newTestIncident(model.NewRiskID(), baseTime)
		_, err := repo.Incident().Create(ctx, incident)
		gt.NoError(t, err).Required()

		closed := baseTime.Add(24 * time.Hour)
		changed := incident.Clone()
		changed.ClosedDate = &closed
		changed.RiskID = model.NewRiskID()
		changed.CurrentStatusText = "Resolved"

		updated, err := repo.Incident().Update(ctx, changed)
		gt.NoError(t, err).Required()
		gt.Value(t, updated.RiskID).Equal(incident.RiskID)
		gt.Value(t, updated.CurrentStatusText).Equal("Resolved")
		gt.Bool(t, updated.IsClosed()).True()
		gt.Bool(t, updated.ClosedDate.Equal(closed)).True()
	})

	t.Run("Delete removes the incident", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		incident := newTestIncident(model.NewRiskID(), baseTime)
		_, err := repo.Incident().Create(ctx, incident)
		gt.NoError(t, err).Required()

		gt.NoError(t, repo.Incident().Delete(ctx, incident.ID)).Required()
		_, err = repo.Incident().Get(ctx, incident.ID)
		gt.Error(t, err).Is(model.ErrNotFound)
		gt.Error(t, repo.Incident().Delete(ctx, incident.ID)).Is(model.ErrNotFound)
	})
}

func TestIncidentRepository(t *testing.T) {
	runOnAllBackends(t, runIncidentRepositoryTest)
}
