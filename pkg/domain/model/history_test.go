package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskledger/pkg/domain/model"
	"github.com/secmon-lab/riskledger/pkg/domain/types"
)

func baseRisk() *model.Risk {
	return &model.Risk{
		ID:         model.NewRiskID(),
		RiskNo:     "R001",
		Department: "IT",
		Name:       "Data breach",
		Impact:     types.ImpactModerate,
		Likelihood: types.LikelihoodPossible,
		Status:     types.RiskStatusNew,
		OwnerID:    model.NewOwnerID(),
	}
}

func TestDiffRisk(t *testing.T) {
	t.Run("one entry per changed field", func(t *testing.T) {
		prev := baseRisk()
		next := prev.Clone()
		next.Impact = types.ImpactSevere
		next.Status = types.RiskStatusOpen
		next.PlanOfAction = "rotate keys"

		entries := model.DiffRisk(prev, next, "alice", now)
		gt.A(t, entries).Length(3).Required()

		byField := map[string]*model.RiskHistory{}
		for _, e := range entries {
			byField[e.FieldName] = e
			gt.V(t, e.RiskID).Equal(prev.ID)
			gt.V(t, e.ChangedByUserID).Equal(model.UserID("alice"))
			gt.B(t, e.ChangedAt.Equal(now)).True()
		}
		gt.V(t, byField["impact"].OldValue).Equal("Moderate")
		gt.V(t, byField["impact"].NewValue).Equal("Severe")
		gt.V(t, byField["status"].NewValue).Equal("Open")
		gt.V(t, byField["planOfAction"].OldValue).Equal("")
	})

	t.Run("identical records produce nothing", func(t *testing.T) {
		prev := baseRisk()
		gt.A(t, model.DiffRisk(prev, prev.Clone(), "alice", now)).Length(0)
	})

	t.Run("immutable and owner fields are not tracked", func(t *testing.T) {
		prev := baseRisk()
		next := prev.Clone()
		next.RiskNo = "R099"
		next.Department = "Finance"
		next.OwnerID = model.NewOwnerID()
		gt.A(t, model.DiffRisk(prev, next, "alice", now)).Length(0)
	})
}

func TestRiskChanged(t *testing.T) {
	prev := baseRisk()

	gt.B(t, model.RiskChanged(prev, prev.Clone())).False()

	owner := prev.Clone()
	owner.OwnerID = model.NewOwnerID()
	gt.B(t, model.RiskChanged(prev, owner)).True()

	category := prev.Clone()
	category.Category = "privacy"
	gt.B(t, model.RiskChanged(prev, category)).True()
}

func TestWatchedFieldNames(t *testing.T) {
	names := model.WatchedFieldNames()
	gt.A(t, names).Has("status")
	gt.A(t, names).Has("impact")
	for _, n := range names {
		gt.V(t, n).NotEqual("riskNo")
		gt.V(t, n).NotEqual("department")
	}
}
