package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskledger/pkg/domain/types"
)

func TestRiskStatus_IsValid(t *testing.T) {
	for _, s := range types.AllRiskStatuses() {
		gt.B(t, s.IsValid()).True()
	}
	gt.B(t, types.RiskStatus("").IsValid()).False()
	gt.B(t, types.RiskStatus("open").IsValid()).False()
}

func TestRiskStatus_IsResolved(t *testing.T) {
	tests := []struct {
		status types.RiskStatus
		want   bool
	}{
		{types.RiskStatusRaised, false},
		{types.RiskStatusOpen, false},
		{types.RiskStatusNew, false},
		{types.RiskStatusExisting, false},
		{types.RiskStatusDowngraded, false},
		{types.RiskStatusUpgraded, false},
		{types.RiskStatusClosed, true},
		{types.RiskStatusEliminated, true},
	}

	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			gt.V(t, tt.status.IsResolved()).Equal(tt.want)
		})
	}
}

func TestParseRiskStatus(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    types.RiskStatus
		wantErr bool
	}{
		{name: "raised", input: "Raised", want: types.RiskStatusRaised},
		{name: "eliminated", input: "Eliminated", want: types.RiskStatusEliminated},
		{name: "lowercase is rejected", input: "raised", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := types.ParseRiskStatus(tt.input)
			if tt.wantErr {
				gt.Error(t, err).Is(types.ErrInvalidEnum)
				return
			}
			gt.NoError(t, err).Required()
			gt.V(t, got).Equal(tt.want)
		})
	}
}
