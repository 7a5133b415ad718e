package interfaces

import (
	"context"

	"github.com/secmon-lab/riskledger/pkg/domain/model"
)

type OwnerRepository interface {
	Create(ctx context.Context, owner *model.Owner) (*model.Owner, error)
	Get(ctx context.Context, id model.OwnerID) (*model.Owner, error)

	// List returns all owners ordered by creation time
	List(ctx context.Context) ([]*model.Owner, error)

	Delete(ctx context.Context, id model.OwnerID) error
}
