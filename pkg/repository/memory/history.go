package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/secmon-lab/riskledger/pkg/domain/model"
)

type historyRepository struct {
	mu      sync.RWMutex
	entries map[model.RiskID][]*model.RiskHistory
}

func newHistoryRepository() *historyRepository {
	return &historyRepository{
		entries: make(map[model.RiskID][]*model.RiskHistory),
	}
}

func (r *historyRepository) Append(ctx context.Context, entries ...*model.RiskHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range entries {
		r.entries[e.RiskID] = append(r.entries[e.RiskID], e.Clone())
	}
	return nil
}

func (r *historyRepository) ListByRisk(ctx context.Context, riskID model.RiskID) ([]*model.RiskHistory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.entries[riskID]
	result := make([]*model.RiskHistory, len(stored))
	for i, e := range stored {
		result[i] = e.Clone()
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].ChangedAt.Before(result[j].ChangedAt)
	})
	return result, nil
}
