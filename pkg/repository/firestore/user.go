package firestore

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskledger/pkg/domain/model"
	"github.com/secmon-lab/riskledger/pkg/domain/types"
	"google.golang.org/api/iterator"
)

const usersCollection = "users"

type userDocument struct {
	ID         string    `firestore:"id"`
	Name       string    `firestore:"name"`
	Email      string    `firestore:"email"`
	Role       string    `firestore:"role"`
	Department string    `firestore:"department"`
	CreatedAt  time.Time `firestore:"created_at"`
}

func (d *userDocument) toModel() *model.User {
	return &model.User{
		ID:         model.UserID(d.ID),
		Name:       d.Name,
		Email:      d.Email,
		Role:       types.Role(d.Role),
		Department: d.Department,
		CreatedAt:  d.CreatedAt,
	}
}

type userRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newUserRepository(client *firestore.Client) *userRepository {
	return &userRepository{
		client: client,
	}
}

func (r *userRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(collectionName(r.collectionPrefix, usersCollection))
}

func (r *userRepository) Put(ctx context.Context, user *model.User) error {
	doc := &userDocument{
		ID:         string(user.ID),
		Name:       user.Name,
		Email:      user.Email,
		Role:       string(user.Role),
		Department: user.Department,
		CreatedAt:  user.CreatedAt,
	}
	if _, err := r.collection().Doc(doc.ID).Set(ctx, doc); err != nil {
		return storeError(err, "failed to put user", goerr.V(model.UserIDKey, user.ID))
	}
	return nil
}

func (r *userRepository) Get(ctx context.Context, id model.UserID) (*model.User, error) {
	snap, err := r.collection().Doc(string(id)).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(model.ErrNotFound, "user not found", goerr.V(model.UserIDKey, id))
		}
		return nil, storeError(err, "failed to get user", goerr.V(model.UserIDKey, id))
	}

	var doc userDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal user", goerr.V(model.UserIDKey, id))
	}
	return doc.toModel(), nil
}

func (r *userRepository) List(ctx context.Context) ([]*model.User, error) {
	iter := r.collection().Documents(ctx)
	defer iter.Stop()

	var users []*model.User
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, storeError(err, "failed to iterate users")
		}

		var doc userDocument
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal user", goerr.V("doc_id", snap.Ref.ID))
		}
		users = append(users, doc.toModel())
	}

	sort.Slice(users, func(i, j int) bool {
		return users[i].ID < users[j].ID
	})
	return users, nil
}
