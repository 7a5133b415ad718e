package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskledger/pkg/domain/interfaces"
	"github.com/secmon-lab/riskledger/pkg/domain/model"
)

type UserUseCase struct {
	repo  interfaces.Repository
	clock func() time.Time
}

func NewUserUseCase(repo interfaces.Repository, clock func() time.Time) *UserUseCase {
	if clock == nil {
		clock = time.Now
	}
	return &UserUseCase{
		repo:  repo,
		clock: clock,
	}
}

// RegisterUser creates or replaces a user after checking that the role and
// department agree
func (uc *UserUseCase) RegisterUser(ctx context.Context, user *model.User) (*model.User, error) {
	if user == nil {
		return nil, goerr.Wrap(model.ErrValidation, "user is required")
	}

	registered := user.Clone()
	registered.Department = strings.TrimSpace(registered.Department)
	if err := registered.Validate(); err != nil {
		return nil, err
	}

	existing, err := uc.repo.User().Get(ctx, registered.ID)
	switch {
	case err == nil:
		registered.CreatedAt = existing.CreatedAt
	case errors.Is(err, model.ErrNotFound):
		if registered.CreatedAt.IsZero() {
			registered.CreatedAt = uc.clock().UTC()
		}
	default:
		return nil, goerr.Wrap(err, "failed to get user", goerr.V(model.UserIDKey, registered.ID))
	}

	if err := uc.repo.User().Put(ctx, registered); err != nil {
		return nil, goerr.Wrap(err, "failed to put user", goerr.V(model.UserIDKey, registered.ID))
	}
	return registered, nil
}

func (uc *UserUseCase) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	user, err := uc.repo.User().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get user", goerr.V(model.UserIDKey, id))
	}
	return user, nil
}

func (uc *UserUseCase) ListUsers(ctx context.Context) ([]*model.User, error) {
	users, err := uc.repo.User().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list users")
	}
	return users, nil
}
