package interfaces

import (
	"context"

	"github.com/secmon-lab/riskledger/pkg/domain/model"
)

type UserRepository interface {
	// Put creates or replaces a user
	Put(ctx context.Context, user *model.User) error
	Get(ctx context.Context, id model.UserID) (*model.User, error)
	List(ctx context.Context) ([]*model.User, error)
}
