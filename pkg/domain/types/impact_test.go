package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskledger/pkg/domain/types"
)

func TestParseImpact(t *testing.T) {
	for _, i := range types.AllImpacts() {
		got, err := types.ParseImpact(i.String())
		gt.NoError(t, err).Required()
		gt.V(t, got).Equal(i)
	}

	_, err := types.ParseImpact("High")
	gt.Error(t, err).Is(types.ErrInvalidEnum)
}

func TestImpactFromLevel(t *testing.T) {
	tests := map[string]types.Impact{
		"Critical": types.ImpactSevere,
		"High":     types.ImpactSignificant,
		"Medium":   types.ImpactModerate,
		"Low":      types.ImpactMinor,
		"":         types.ImpactModerate,
		"unknown":  types.ImpactModerate,
	}

	for level, want := range tests {
		t.Run(level, func(t *testing.T) {
			gt.V(t, types.ImpactFromLevel(level)).Equal(want)
		})
	}
}

func TestParseLikelihood(t *testing.T) {
	for _, l := range types.AllLikelihoods() {
		got, err := types.ParseLikelihood(l.String())
		gt.NoError(t, err).Required()
		gt.V(t, got).Equal(l)
	}

	_, err := types.ParseLikelihood("Very Likely")
	gt.Error(t, err).Is(types.ErrInvalidEnum)
}

func TestParseIdentification(t *testing.T) {
	got, err := types.ParseIdentification("")
	gt.NoError(t, err).Required()
	gt.V(t, got).Equal(types.Identification(""))
	gt.B(t, got.IsValid()).True()

	got, err = types.ParseIdentification("Residual risk")
	gt.NoError(t, err).Required()
	gt.V(t, got).Equal(types.IdentificationResidual)

	_, err = types.ParseIdentification("residual")
	gt.Error(t, err).Is(types.ErrInvalidEnum)
}
