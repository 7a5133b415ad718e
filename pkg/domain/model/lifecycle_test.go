package model_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskledger/pkg/domain/model"
	"github.com/secmon-lab/riskledger/pkg/domain/types"
)

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func TestInitialStatus(t *testing.T) {
	gt.V(t, model.InitialStatus(types.RoleUser, "")).Equal(types.RiskStatusRaised)
	gt.V(t, model.InitialStatus(types.RoleUser, types.RiskStatusOpen)).Equal(types.RiskStatusRaised)
	gt.V(t, model.InitialStatus(types.RoleManager, "")).Equal(types.RiskStatusNew)
	gt.V(t, model.InitialStatus(types.RoleAdmin, types.RiskStatusOpen)).Equal(types.RiskStatusOpen)
	gt.V(t, model.InitialStatus(types.RoleUnitHead, "")).Equal(types.RiskStatusNew)
}

func TestShouldAge(t *testing.T) {
	threshold := 30 * 24 * time.Hour
	old := now.Add(-31 * 24 * time.Hour)

	tests := []struct {
		name      string
		status    types.RiskStatus
		createdAt time.Time
		want      bool
	}{
		{"old open", types.RiskStatusOpen, old, true},
		{"old raised", types.RiskStatusRaised, old, true},
		{"old upgraded", types.RiskStatusUpgraded, old, true},
		{"old existing", types.RiskStatusExisting, old, false},
		{"old eliminated", types.RiskStatusEliminated, old, false},
		{"old closed", types.RiskStatusClosed, old, false},
		{"young open", types.RiskStatusOpen, now.Add(-5 * 24 * time.Hour), false},
		{"exactly at threshold", types.RiskStatusOpen, now.Add(-threshold), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &model.Risk{Status: tt.status, CreatedAt: tt.createdAt}
			gt.V(t, model.ShouldAge(r, now, threshold)).Equal(tt.want)
		})
	}
}

func TestAgeAndApprove(t *testing.T) {
	r := &model.Risk{
		ID:        model.NewRiskID(),
		Name:      "Data breach",
		Status:    types.RiskStatusRaised,
		CreatedAt: now.Add(-time.Hour),
		UpdatedAt: now.Add(-time.Hour),
	}

	aged := model.Age(r, now)
	gt.V(t, aged.Status).Equal(types.RiskStatusExisting)
	gt.B(t, aged.UpdatedAt.Equal(now)).True()
	gt.V(t, r.Status).Equal(types.RiskStatusRaised)

	approved := model.Approve(r, now)
	gt.V(t, approved.Status).Equal(types.RiskStatusNew)
	gt.V(t, approved.Name).Equal(r.Name)
}

func TestTouch(t *testing.T) {
	gt.B(t, model.Touch(now.Add(-time.Minute), now).Equal(now)).True()
	// a clock going backwards never moves UpdatedAt back
	gt.B(t, model.Touch(now, now.Add(-time.Minute)).Equal(now)).True()
}

func TestValidateRisk(t *testing.T) {
	valid := func() *model.Risk {
		return &model.Risk{
			Name:       "Data breach",
			Impact:     types.ImpactModerate,
			Likelihood: types.LikelihoodPossible,
			Status:     types.RiskStatusNew,
			OwnerID:    model.NewOwnerID(),
		}
	}

	gt.NoError(t, model.ValidateRisk(valid()))

	tests := map[string]func(r *model.Risk){
		"blank name":       func(r *model.Risk) { r.Name = "  " },
		"bad impact":       func(r *model.Risk) { r.Impact = "High" },
		"bad likelihood":   func(r *model.Risk) { r.Likelihood = "" },
		"bad status":       func(r *model.Risk) { r.Status = "Pending" },
		"bad classifier":   func(r *model.Risk) { r.Identification = "inherent" },
		"missing owner id": func(r *model.Risk) { r.OwnerID = "" },
	}
	for name, modify := range tests {
		t.Run(name, func(t *testing.T) {
			r := valid()
			modify(r)
			gt.Error(t, model.ValidateRisk(r)).Is(model.ErrValidation)
		})
	}

	t.Run("fields only check skips owner", func(t *testing.T) {
		r := valid()
		r.OwnerID = ""
		gt.NoError(t, model.ValidateRiskFields(r))
	})
}
