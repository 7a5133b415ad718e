package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskledger/pkg/domain/model"
)

type incidentRepository struct {
	mu        sync.RWMutex
	incidents map[model.IncidentID]*model.Incident
}

func newIncidentRepository() *incidentRepository {
	return &incidentRepository{
		incidents: make(map[model.IncidentID]*model.Incident),
	}
}

func (r *incidentRepository) Create(ctx context.Context, incident *model.Incident) (*model.Incident, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.incidents[incident.ID]; exists {
		return nil, goerr.Wrap(model.ErrConflict, "incident already exists", goerr.V(model.IncidentIDKey, incident.ID))
	}

	created := incident.Clone()
	r.incidents[created.ID] = created
	return created.Clone(), nil
}

func (r *incidentRepository) Get(ctx context.Context, id model.IncidentID) (*model.Incident, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	incident, exists := r.incidents[id]
	if !exists {
		return nil, goerr.Wrap(model.ErrNotFound, "incident not found", goerr.V(model.IncidentIDKey, id))
	}
	return incident.Clone(), nil
}

func (r *incidentRepository) Update(ctx context.Context, incident *model.Incident) (*model.Incident, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.incidents[incident.ID]
	if !exists {
		return nil, goerr.Wrap(model.ErrNotFound, "incident not found", goerr.V(model.IncidentIDKey, incident.ID))
	}

	updated := incident.Clone()
	updated.RiskID = existing.RiskID
	updated.Department = existing.Department
	updated.CreatedAt = existing.CreatedAt

	r.incidents[updated.ID] = updated
	return updated.Clone(), nil
}

func (r *incidentRepository) Delete(ctx context.Context, id model.IncidentID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.incidents[id]; !exists {
		return goerr.Wrap(model.ErrNotFound, "incident not found", goerr.V(model.IncidentIDKey, id))
	}
	delete(r.incidents, id)
	return nil
}

func (r *incidentRepository) List(ctx context.Context) ([]*model.Incident, error) {
	return r.filter(func(*model.Incident) bool { return true }), nil
}

func (r *incidentRepository) ListByRisk(ctx context.Context, riskID model.RiskID) ([]*model.Incident, error) {
	return r.filter(func(i *model.Incident) bool { return i.RiskID == riskID }), nil
}

func (r *incidentRepository) filter(match func(*model.Incident) bool) []*model.Incident {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Incident, 0, len(r.incidents))
	for _, i := range r.incidents {
		if match(i) {
			result = append(result, i.Clone())
		}
	}
	sort.Slice(result, func(a, b int) bool {
		if !result[a].OccurredAt.Equal(result[b].OccurredAt) {
			return result[a].OccurredAt.After(result[b].OccurredAt)
		}
		return result[a].ID < result[b].ID
	})
	return result
}
