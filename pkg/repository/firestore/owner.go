package firestore

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskledger/pkg/domain/model"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ownersCollection = "owners"

type ownerDocument struct {
	ID         string    `firestore:"id"`
	Name       string    `firestore:"name"`
	Department string    `firestore:"department"`
	CreatedAt  time.Time `firestore:"created_at"`
}

func (d *ownerDocument) toModel() *model.Owner {
	return &model.Owner{
		ID:         model.OwnerID(d.ID),
		Name:       d.Name,
		Department: d.Department,
		CreatedAt:  d.CreatedAt,
	}
}

type ownerRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newOwnerRepository(client *firestore.Client) *ownerRepository {
	return &ownerRepository{
		client: client,
	}
}

func (r *ownerRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(collectionName(r.collectionPrefix, ownersCollection))
}

func (r *ownerRepository) Create(ctx context.Context, owner *model.Owner) (*model.Owner, error) {
	doc := &ownerDocument{
		ID:         string(owner.ID),
		Name:       owner.Name,
		Department: owner.Department,
		CreatedAt:  owner.CreatedAt,
	}

	if _, err := r.collection().Doc(doc.ID).Create(ctx, doc); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return nil, goerr.Wrap(model.ErrConflict, "owner already exists", goerr.V(model.OwnerIDKey, owner.ID))
		}
		return nil, storeError(err, "failed to create owner", goerr.V(model.OwnerIDKey, owner.ID))
	}
	return doc.toModel(), nil
}

func (r *ownerRepository) Get(ctx context.Context, id model.OwnerID) (*model.Owner, error) {
	snap, err := r.collection().Doc(string(id)).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(model.ErrNotFound, "owner not found", goerr.V(model.OwnerIDKey, id))
		}
		return nil, storeError(err, "failed to get owner", goerr.V(model.OwnerIDKey, id))
	}

	var doc ownerDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal owner", goerr.V(model.OwnerIDKey, id))
	}
	return doc.toModel(), nil
}

func (r *ownerRepository) List(ctx context.Context) ([]*model.Owner, error) {
	iter := r.collection().Documents(ctx)
	defer iter.Stop()

	var owners []*model.Owner
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, storeError(err, "failed to iterate owners")
		}

		var doc ownerDocument
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal owner", goerr.V("doc_id", snap.Ref.ID))
		}
		owners = append(owners, doc.toModel())
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
	docRef := r.collection().Doc(string(id))
	if _, err := docRef.Get(ctx); err != nil {
		if isNotFound(err) {
			return goerr.Wrap(model.ErrNotFound, "owner not found", goerr.V(model.OwnerIDKey, id))
		}
		return storeError(err, "failed to get owner", goerr.V(model.OwnerIDKey, id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return storeError(err, "failed to delete owner", goerr.V(model.OwnerIDKey, id))
	}
	return nil
}
