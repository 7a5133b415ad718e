package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskledger/pkg/domain/model"
)

func TestNextRiskNo(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		want     string
	}{
		{"empty department", nil, "R001"},
		{"single", []string{"R001"}, "R002"},
		{"takes max not count", []string{"R001", "R007", "R003"}, "R008"},
		{"unparseable counts as zero", []string{"legacy", "R"}, "R001"},
		{"mixed with unparseable", []string{"draft", "R004"}, "R005"},
		{"grows past three digits", []string{"R999"}, "R1000"},
		{"foreign prefix", []string{"RISK-12"}, "R013"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.V(t, model.NextRiskNo(tt.existing)).Equal(tt.want)
		})
	}
}

func TestRiskNoSequence(t *testing.T) {
	gt.N(t, model.RiskNoSequence("R042")).Equal(42)
	gt.N(t, model.RiskNoSequence("R")).Equal(0)
	gt.N(t, model.RiskNoSequence("")).Equal(0)
	gt.N(t, model.RiskNoSequence("R12a")).Equal(0)
}
