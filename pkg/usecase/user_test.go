package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskledger/pkg/domain/model"
	"github.com/secmon-lab/riskledger/pkg/domain/types"
)

func TestRegisterUser(t *testing.T) {
	testCases := map[string]struct {
		user  *model.User
		valid bool
	}{
		"user with department":       {newUser("a", types.RoleUser, "IT"), true},
		"manager with department":    {newUser("b", types.RoleManager, "IT"), true},
		"admin without department":   {newUser("c", types.RoleAdmin, ""), true},
		"unit head without dept":     {newUser("d", types.RoleUnitHead, ""), true},
		"user without department":    {newUser("e", types.RoleUser, ""), false},
		"manager without department": {newUser("f", types.RoleManager, " "), false},
		"unknown role":               {newUser("g", types.Role("guest"), "IT"), false},
		"missing id":                 {newUser("", types.RoleAdmin, ""), false},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			env := newTestEnv(t)
			_, err := env.uc.User.RegisterUser(context.Background(), tc.user)
			if tc.valid {
				gt.NoError(t, err)
			} else {
				gt.Error(t, err).Is(model.ErrValidation)
			}
		})
	}
}

func TestRegisterUserKeepsCreatedAt(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first := env.register(t, newUser("alice", types.RoleUser, "IT"))
	gt.Bool(t, first.CreatedAt.Equal(baseTime)).True()

	env.clock.Advance(time.Hour)
	promoted := newUser("alice", types.RoleManager, "IT")
	second, err := env.uc.User.RegisterUser(ctx, promoted)
	gt.NoError(t, err).Required()
	gt.Bool(t, second.CreatedAt.Equal(baseTime)).True()

	got, err := env.uc.User.GetUser(ctx, "alice")
	gt.NoError(t, err).Required()
	gt.Value(t, got.Role).Equal(types.RoleManager)
}
