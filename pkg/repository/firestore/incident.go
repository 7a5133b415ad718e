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

const incidentsCollection = "incidents"

type incidentDocument struct {
	ID                string     `firestore:"id"`
	RiskID            string     `firestore:"risk_id"`
	Summary           string     `firestore:"summary"`
	Description       string     `firestore:"description"`
	MitigationSteps   string     `firestore:"mitigation_steps"`
	CurrentStatusText string     `firestore:"current_status_text"`
	OccurredAt        time.Time  `firestore:"occurred_at"`
	ClosedDate        *time.Time `firestore:"closed_date"`
	Department        string     `firestore:"department"`
	CreatedAt         time.Time  `firestore:"created_at"`
	UpdatedAt         time.Time  `firestore:"updated_at"`
}

func toIncidentDocument(i *model.Incident) *incidentDocument {
	return &incidentDocument{
		ID:                string(i.ID),
		RiskID:            string(i.RiskID),
		Summary:           i.Summary,
		Description:       i.Description,
		MitigationSteps:   i.MitigationSteps,
		CurrentStatusText: i.CurrentStatusText,
		OccurredAt:        i.OccurredAt,
		ClosedDate:        i.ClosedDate,
		Department:        i.Department,
		CreatedAt:         i.CreatedAt,
		UpdatedAt:         i.UpdatedAt,
	}
}

func (d *incidentDocument) toModel() *model.Incident {
	return &model.Incident{
		ID:                model.IncidentID(d.ID),
		RiskID:            model.RiskID(d.RiskID),
		Summary:           d.Summary,
		Description:       d.Description,
		MitigationSteps:   d.MitigationSteps,
		CurrentStatusText: d.CurrentStatusText,
		OccurredAt:        d.OccurredAt,
		ClosedDate:        d.ClosedDate,
		Department:        d.Department,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
}

type incidentRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newIncidentRepository(client *firestore.Client) *incidentRepository {
	return &incidentRepository{
		client: client,
	}
}

func (r *incidentRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(collectionName(r.collectionPrefix, incidentsCollection))
}

func (r *incidentRepository) Create(ctx context.Context, incident *model.Incident) (*model.Incident, error) {
	doc := toIncidentDocument(incident)
	if _, err := r.collection().Doc(doc.ID).Create(ctx, doc); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return nil, goerr.Wrap(model.ErrConflict, "incident already exists", goerr.V(model.IncidentIDKey, doc.ID))
		}
		return nil, storeError(err, "failed to create incident", goerr.V(model.IncidentIDKey, doc.ID))
	}
	return doc.toModel(), nil
}

func (r *incidentRepository) Get(ctx context.Context, id model.IncidentID) (*model.Incident, error) {
	snap, err := r.collection().Doc(string(id)).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(model.ErrNotFound, "incident not found", goerr.V(model.IncidentIDKey, id))
		}
		return nil, storeError(err, "failed to get incident", goerr.V(model.IncidentIDKey, id))
	}

	var doc incidentDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal incident", goerr.V(model.IncidentIDKey, id))
	}
	return doc.toModel(), nil
}

func (r *incidentRepository) Update(ctx context.Context, incident *model.Incident) (*model.Incident, error) {
	docRef := r.collection().Doc(string(incident.ID))
	updated := toIncidentDocument(incident)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(docRef)
		if err != nil {
			if isNotFound(err) {
				return goerr.Wrap(model.ErrNotFound, "incident not found", goerr.V(model.IncidentIDKey, incident.ID))
			}
			return goerr.Wrap(err, "failed to get incident")
		}

		var existing incidentDocument
		if err := snap.DataTo(&existing); err != nil {
			return goerr.Wrap(err, "failed to unmarshal incident")
		}
		updated.RiskID = existing.RiskID
		updated.Department = existing.Department
		updated.CreatedAt = existing.CreatedAt

		return tx.Set(docRef, updated)
	})
	if err != nil {
		return nil, storeError(err, "failed to update incident", goerr.V(model.IncidentIDKey, incident.ID))
	}
	return updated.toModel(), nil
}

func (r *incidentRepository) Delete(ctx context.Context, id model.IncidentID) error {
	docRef := r.collection().Doc(string(id))
	if _, err := docRef.Get(ctx); err != nil {
		if isNotFound(err) {
			return goerr.Wrap(model.ErrNotFound, "incident not found", goerr.V(model.IncidentIDKey, id))
		}
		return storeError(err, "failed to get incident", goerr.V(model.IncidentIDKey, id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return storeError(err, "failed to delete incident", goerr.V(model.IncidentIDKey, id))
	}
	return nil
}

func (r *incidentRepository) List(ctx context.Context) ([]*model.Incident, error) {
	return r.list(ctx, r.collection().Query)
}

func (r *incidentRepository) ListByRisk(ctx context.Context, riskID model.RiskID) ([]*model.Incident, error) {
	return r.list(ctx, r.collection().Where("risk_id", "==", string(riskID)))
}

func (r *incidentRepository) list(ctx context.Context, query firestore.Query) ([]*model.Incident, error) {
	iter := query.Documents(ctx)
	defer iter.Stop()

	var incidents []*model.Incident
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, storeError(err, "failed to iterate incidents")
		}

		var doc incidentDocument
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal incident", goerr.V("doc_id", snap.Ref.ID))
		}
		incidents = append(incidents, doc.toModel())
	}

	sort.Slice(incidents, func(a, b int) bool {
		if !incidents[a].OccurredAt.Equal(incidents[b].OccurredAt) {
			return incidents[a].OccurredAt.After(incidents[b].OccurredAt)
		}
		return incidents[a].ID < incidents[b].ID
	})
	return incidents, nil
}
