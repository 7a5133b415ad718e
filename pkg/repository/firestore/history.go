package firestore

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskledger/pkg/domain/model"
	"google.golang.org/api/iterator"
)

const riskHistoryCollection = "risk_history"

type historyDocument struct {
	ID              string    `firestore:"id"`
	RiskID          string    `firestore:"risk_id"`
	ChangedAt       time.Time `firestore:"changed_at"`
	ChangedByUserID string    `firestore:"changed_by_user_id"`
	FieldName       string    `firestore:"field_name"`
	OldValue        string    `firestore:"old_value"`
	NewValue        string    `firestore:"new_value"`
}

type historyRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newHistoryRepository(client *firestore.Client) *historyRepository {
	return &historyRepository{
		client: client,
	}
}

func (r *historyRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(collectionName(r.collectionPrefix, riskHistoryCollection))
}

func (r *historyRepository) Append(ctx context.Context, entries ...*model.RiskHistory) error {
	if len(entries) == 0 {
		return nil
	}

	// Create (not Set) so that an existing entry can never be overwritten
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		for _, e := range entries {
			doc := &historyDocument{
				ID:              string(e.ID),
				RiskID:          string(e.RiskID),
				ChangedAt:       e.ChangedAt,
				ChangedByUserID: string(e.ChangedByUserID),
				FieldName:       e.FieldName,
				OldValue:        e.OldValue,
				NewValue:        e.NewValue,
			}
			if err := tx.Create(r.collection().Doc(doc.ID), doc); err != nil {
				return goerr.Wrap(err, "failed to append history entry", goerr.V("history_id", doc.ID))
			}
		}
		return nil
	})
	if err != nil {
		return storeError(err, "failed to append risk history", goerr.V("count", len(entries)))
	}
	return nil
}

func (r *historyRepository) ListByRisk(ctx context.Context, riskID model.RiskID) ([]*model.RiskHistory, error) {
	iter := r.collection().Where("risk_id", "==", string(riskID)).Documents(ctx)
	defer iter.Stop()

	var entries []*model.RiskHistory
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, storeError(err, "failed to iterate risk history", goerr.V(model.RiskIDKey, riskID))
		}

		var doc historyDocument
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal history entry", goerr.V("doc_id", snap.Ref.ID))
		}
		entries = append(entries, &model.RiskHistory{
			ID:              model.RiskHistoryID(doc.ID),
			RiskID:          model.RiskID(doc.RiskID),
			ChangedAt:       doc.ChangedAt,
			ChangedByUserID: model.UserID(doc.ChangedByUserID),
			FieldName:       doc.FieldName,
			OldValue:        doc.OldValue,
			NewValue:        doc.NewValue,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].ChangedAt.Before(entries[j].ChangedAt)
	})
	return entries, nil
}
