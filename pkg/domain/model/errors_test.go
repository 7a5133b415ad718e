package model_test

import (
	"errors"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskledger/pkg/domain/model"
	"github.com/secmon-lab/riskledger/pkg/domain/types"
)

func TestKindOf(t *testing.T) {
	_, enumErr := types.ParseImpact("High")

	tests := []struct {
		name string
		err  error
		want model.ErrorKind
	}{
		{"nil", nil, ""},
		{"validation", goerr.Wrap(model.ErrValidation, "bad"), model.ErrorKindValidation},
		{"enum", enumErr, model.ErrorKindValidation},
		{"not found", goerr.Wrap(model.ErrNotFound, "gone"), model.ErrorKindNotFound},
		{"conflict", goerr.Wrap(model.ErrConflict, "taken"), model.ErrorKindConflict},
		{"referential integrity", goerr.Wrap(model.ErrReferentialIntegrity, "in use"), model.ErrorKindReferentialIntegrity},
		{"permission", goerr.Wrap(model.ErrPermissionDenied, "no"), model.ErrorKindPermissionDenied},
		{"store joined", goerr.Wrap(errors.Join(model.ErrStoreUnavailable, errors.New("io")), "down"), model.ErrorKindStoreUnavailable},
		{"unknown", errors.New("boom"), model.ErrorKindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.V(t, model.KindOf(tt.err)).Equal(tt.want)
		})
	}
}
