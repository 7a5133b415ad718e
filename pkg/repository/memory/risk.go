package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskledger/pkg/domain/model"
)

// riskNoKey is the uniqueness key of a risk number
type riskNoKey struct {
	department string
	riskNo     string
}

type riskRepository struct {
	mu      sync.RWMutex
	risks   map[model.RiskID]*model.Risk
	numbers map[riskNoKey]model.RiskID
}

func newRiskRepository() *riskRepository {
	return &riskRepository{
		risks:   make(map[model.RiskID]*model.Risk),
		numbers: make(map[riskNoKey]model.RiskID),
	}
}

func (r *riskRepository) Create(ctx context.Context, risk *model.Risk) (*model.Risk, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.risks[risk.ID]; exists {
		return nil, goerr.Wrap(model.ErrConflict, "risk already exists", goerr.V(model.RiskIDKey, risk.ID))
	}
	key := riskNoKey{department: model.FoldDepartment(risk.Department), riskNo: risk.RiskNo}
	if _, exists := r.numbers[key]; exists {
		return nil, goerr.Wrap(model.ErrConflict, "risk number already assigned",
			goerr.V(model.DepartmentKey, risk.Department),
			goerr.V(model.RiskNoKey, risk.RiskNo))
	}

	created := risk.Clone()
	r.risks[created.ID] = created
	r.numbers[key] = created.ID
	return created.Clone(), nil
}

func (r *riskRepository) Get(ctx context.Context, id model.RiskID) (*model.Risk, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	risk, exists := r.risks[id]
	if !exists {
		return nil, goerr.Wrap(model.ErrNotFound, "risk not found", goerr.V(model.RiskIDKey, id))
	}

	return risk.Clone(), nil
}

func (r *riskRepository) Update(ctx context.Context, risk *model.Risk) (*model.Risk, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.risks[risk.ID]
	if !exists {
		return nil, goerr.Wrap(model.ErrNotFound, "risk not found", goerr.V(model.RiskIDKey, risk.ID))
	}

	updated := risk.Clone()
	updated.RiskNo = existing.RiskNo
	updated.Department = existing.Department
	updated.CreatedAt = existing.CreatedAt

	r.risks[updated.ID] = updated
	return updated.Clone(), nil
}

func (r *riskRepository) Delete(ctx context.Context, id model.RiskID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.risks[id]
	if !exists {
		return goerr.Wrap(model.ErrNotFound, "risk not found", goerr.V(model.RiskIDKey, id))
	}

	delete(r.numbers, riskNoKey{department: model.FoldDepartment(existing.Department), riskNo: existing.RiskNo})
	delete(r.risks, id)
	return nil
}

func (r *riskRepository) Query(ctx context.Context, q model.RiskQuery) ([]*model.Risk, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	risks := make([]*model.Risk, 0, len(r.risks))
	for _, risk := range r.risks {
		if q.Match(risk) {
			risks = append(risks, risk.Clone())
		}
	}

	sort.Slice(risks, func(i, j int) bool {
		if !risks[i].CreatedAt.Equal(risks[j].CreatedAt) {
			return risks[i].CreatedAt.Before(risks[j].CreatedAt)
		}
		return risks[i].RiskNo < risks[j].RiskNo
	})

	return risks, nil
}

func (r *riskRepository) ListRiskNos(ctx context.Context, department string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	folded := model.FoldDepartment(department)
	var numbers []string
	for key := range r.numbers {
		if key.department == folded {
			numbers = append(numbers, key.riskNo)
		}
	}
	sort.Strings(numbers)
	return numbers, nil
}
