package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskledger/pkg/domain/model"
	"github.com/secmon-lab/riskledger/pkg/domain/types"
)

func TestNormalizeRisk(t *testing.T) {
	t.Run("legacy level becomes impact", func(t *testing.T) {
		legacy := &model.Risk{Name: "legacy", Level: "High"}

		normalized, changed := model.NormalizeRisk(legacy)
		gt.B(t, changed).True()
		gt.V(t, normalized.Impact).Equal(types.ImpactSignificant)
		gt.V(t, normalized.Likelihood).Equal(types.LikelihoodPossible)
		gt.V(t, normalized.Status).Equal(types.RiskStatusNew)
		gt.V(t, normalized.Level).Equal("")

		// input untouched
		gt.V(t, legacy.Level).Equal("High")
		gt.V(t, legacy.Impact).Equal(types.Impact(""))

		again, changed := model.NormalizeRisk(normalized)
		gt.B(t, changed).False()
		gt.V(t, again).Equal(normalized)
	})

	t.Run("present values are kept", func(t *testing.T) {
		r := &model.Risk{
			Impact:     types.ImpactMinor,
			Status:     types.RiskStatusOpen,
			Likelihood: "",
		}
		normalized, changed := model.NormalizeRisk(r)
		gt.B(t, changed).True()
		gt.V(t, normalized.Impact).Equal(types.ImpactMinor)
		gt.V(t, normalized.Status).Equal(types.RiskStatusOpen)
	})

	t.Run("current record is returned as is", func(t *testing.T) {
		r := &model.Risk{Impact: types.ImpactMinor, Likelihood: types.LikelihoodLikely, Status: types.RiskStatusOpen}
		normalized, changed := model.NormalizeRisk(r)
		gt.B(t, changed).False()
		gt.B(t, normalized == r).True()
	})
}

func TestNormalizeRisks(t *testing.T) {
	risks := []*model.Risk{
		{Level: "Low"},
		{Impact: types.ImpactMinor, Likelihood: types.LikelihoodLikely, Status: types.RiskStatusNew},
		{Level: "Critical", Status: types.RiskStatusExisting},
	}

	normalized, count := model.NormalizeRisks(risks)
	gt.N(t, count).Equal(2)
	gt.A(t, normalized).Length(3).Required()
	gt.V(t, normalized[0].Impact).Equal(types.ImpactMinor)
	gt.V(t, normalized[2].Impact).Equal(types.ImpactSevere)
	gt.V(t, normalized[2].Status).Equal(types.RiskStatusExisting)

	_, count = model.NormalizeRisks(normalized)
	gt.N(t, count).Equal(0)
}
