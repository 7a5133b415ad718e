package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskledger/pkg/domain/types"
)

func TestRole(t *testing.T) {
	tests := []struct {
		role               types.Role
		requiresDepartment bool
		canApprove         bool
	}{
		{types.RoleUser, true, false},
		{types.RoleManager, true, true},
		{types.RoleAdmin, false, true},
		{types.RoleUnitHead, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.role.String(), func(t *testing.T) {
			gt.B(t, tt.role.IsValid()).True()
			gt.V(t, tt.role.RequiresDepartment()).Equal(tt.requiresDepartment)
			gt.V(t, tt.role.CanApprove()).Equal(tt.canApprove)
		})
	}
}

func TestParseRole(t *testing.T) {
	got, err := types.ParseRole("unit_head")
	gt.NoError(t, err).Required()
	gt.V(t, got).Equal(types.RoleUnitHead)

	_, err = types.ParseRole("guest")
	gt.Error(t, err).Is(types.ErrInvalidEnum)
}

func TestParseRiskState(t *testing.T) {
	got, err := types.ParseRiskState("")
	gt.NoError(t, err).Required()
	gt.V(t, got).Equal(types.RiskStateAll)

	got, err = types.ParseRiskState("closed")
	gt.NoError(t, err).Required()
	gt.V(t, got).Equal(types.RiskStateClosed)

	_, err = types.ParseRiskState("resolved")
	gt.Error(t, err).Is(types.ErrInvalidEnum)

	gt.V(t, types.RiskState("").Normalize()).Equal(types.RiskStateAll)
}

func TestParseUnitHeadScope(t *testing.T) {
	got, err := types.ParseUnitHeadScope("department")
	gt.NoError(t, err).Required()
	gt.V(t, got).Equal(types.UnitHeadScopeDepartment)

	_, err = types.ParseUnitHeadScope("")
	gt.Error(t, err).Is(types.ErrInvalidEnum)
}
