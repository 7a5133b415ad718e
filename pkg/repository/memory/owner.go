package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskledger/pkg/domain/model"
)

type ownerRepository struct {
	mu     sync.RWMutex
	owners map[model.OwnerID]*model.Owner
}

func newOwnerRepository() *ownerRepository {
	return &ownerRepository{
		owners: make(map[model.OwnerID]*model.Owner),
	}
}

func (r *ownerRepository) Create(ctx context.Context, owner *model.Owner) (*model.Owner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.owners[owner.ID]; exists {
		return nil, goerr.Wrap(model.ErrConflict, "owner already exists", goerr.V(model.OwnerIDKey, owner.ID))
	}

	created := owner.Clone()
	r.owners[created.ID] = created
	return created.Clone(), nil
}

func (r *ownerRepository) Get(ctx context.Context, id model.OwnerID) (*model.Owner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	owner, exists := r.owners[id]
	if !exists {
		return nil, goerr.Wrap(model.ErrNotFound, "owner not found", goerr.V(model.OwnerIDKey, id))
	}
	return owner.Clone(), nil
}

func (r *ownerRepository) List(ctx context.Context) ([]*model.Owner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	owners := make([]*model.Owner, 0, len(r.owners))
	for _, o := range r.owners {
		owners = append(owners, o.Clone())
	}
	sort.Slice(owners, func(i, j int) bool {
		if !owners[i].CreatedAt.Equal(owners[j].CreatedAt) {
			return owners[i].CreatedAt.Before(owners[j].CreatedAt)
		}
		return owners[i].ID < owners[j].ID
	})
	return owners, nil
}

func (r *ownerRepository) Delete(ctx context.Context, id model.OwnerID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.owners[id]; !exists {
		return goerr.Wrap(model.ErrNotFound, "owner not found", goerr.V(model.OwnerIDKey, id))
	}
	delete(r.owners, id)
	return nil
}
