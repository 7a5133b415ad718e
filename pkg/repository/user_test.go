package repository_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskledger/pkg/domain/interfaces"
	"github.com/secmon-lab/riskledger/pkg/domain/model"
	"github.com/secmon-lab/riskledger/pkg/domain/types"
)

func runUserRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Put creates and replaces a user", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		user := &model.User{
			ID:         "u-1",
			Name:       "Alice",
			Email:      "alice@example.com",
			Role:       types.RoleUser,
			Department: "finance",
			CreatedAt:  baseTime,
		}
		gt.NoError(t, repo.User().Put(ctx, user)).Required()

		got, err := repo.User().Get(ctx, "u-1")
		gt.NoError(t, err).Required()
		gt.Value(t, got.Role).Equal(types.RoleUser)
		gt.Value(t, got.Email).Equal("alice@example.com")

		promoted := user.Clone()
		promoted.Role = types.RoleManager
		gt.NoError(t, repo.User().Put(ctx, promoted)).Required()

		got, err = repo.User().Get(ctx, "u-1")
		gt.NoError(t, err).Required()
		gt.Value(t, got.Role).Equal(types.RoleManager)

		users, err := repo.User().List(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, users).Length(1)
	})

	t.Run("Get returns ErrNotFound for unknown user", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.User().Get(context.Background(), "nobody")
		gt.Error(t, err).Is(model.ErrNotFound)
	})
}

func TestUserRepository(t *testing.T) {
	runOnAllBackends(t, runUserRepositoryTest)
}
