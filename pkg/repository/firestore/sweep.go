package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskledger/pkg/domain/model"
)

const sweepsCollection = "sweeps"

type sweepDocument struct {
	Name        string    `firestore:"name"`
	LastSweptAt time.Time `firestore:"last_swept_at"`
}

type sweepRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newSweepRepository(client *firestore.Client) *sweepRepository {
	return &sweepRepository{
		client: client,
	}
}

func (r *sweepRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(collectionName(r.collectionPrefix, sweepsCollection))
}

func (r *sweepRepository) Get(ctx context.Context, name string) (*model.SweepWatermark, error) {
	snap, err := r.collection().Doc(name).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return &model.SweepWatermark{Name: name}, nil
		}
		return nil, storeError(err, "failed to get sweep watermark", goerr.V("name", name))
	}

	var doc sweepDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal sweep watermark", goerr.V("name", name))
	}
	return &model.SweepWatermark{Name: name, LastSweptAt: doc.LastSweptAt}, nil
}

func (r *sweepRepository) Claim(ctx context.Context, name string, now time.Time, minInterval time.Duration) (bool, error) {
	docRef := r.collection().Doc(name)

	var claimed bool
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		claimed = false
		snap, err := tx.Get(docRef)
		if err != nil && !isNotFound(err) {
			return goerr.Wrap(err, "failed to get sweep watermark")
		}
		if err == nil {
			var doc sweepDocument
			if err := snap.DataTo(&doc); err != nil {
				return goerr.Wrap(err, "failed to unmarshal sweep watermark")
			}
			if now.Sub(doc.LastSweptAt) < minInterval {
				return nil
			}
		}

		claimed = true
		return tx.Set(docRef, &sweepDocument{Name: name, LastSweptAt: now.UTC()})
	})
	if err != nil {
		return false, storeError(err, "failed to claim sweep", goerr.V("name", name))
	}
	return claimed, nil
}

func (r *sweepRepository) Release(ctx context.Context, name string, claimedAt time.Time) error {
	docRef := r.collection().Doc(name)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(docRef)
		if err != nil {
			if isNotFound(err) {
				return nil
			}
			return goerr.Wrap(err, "failed to get sweep watermark")
		}

		var doc sweepDocument
		if err := snap.DataTo(&doc); err != nil {
			return goerr.Wrap(err, "failed to unmarshal sweep watermark")
		}
		if doc.LastSweptAt.After(claimedAt) {
			return nil
		}
		return tx.Delete(docRef)
	})
	if err != nil {
		return storeError(err, "failed to release sweep", goerr.V("name", name))
	}
	return nil
}
