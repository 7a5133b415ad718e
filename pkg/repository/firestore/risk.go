package firestore

import (
	"context"
	"encoding/base64"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskledger/pkg/domain/model"
	"github.com/secmon-lab/riskledger/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	risksCollection       = "risks"
	riskNumbersCollection = "risk_numbers"
)

type riskDocument struct {
	ID                     string    `firestore:"id"`
	RiskNo                 string    `firestore:"risk_no"`
	Department             string    `firestore:"department"`
	DepartmentKey          string    `firestore:"department_key"`
	Name                   string    `firestore:"name"`
	Description            string    `firestore:"description"`
	Impact                 string    `firestore:"impact"`
	Likelihood             string    `firestore:"likelihood"`
	Status                 string    `firestore:"status"`
	OwnerID                string    `firestore:"owner_id"`
	CreatedByUserID        string    `firestore:"created_by_user_id"`
	Identification         string    `firestore:"identification"`
	ExistingControlInPlace string    `firestore:"existing_control_in_place"`
	PlanOfAction           string    `firestore:"plan_of_action"`
	Category               string    `firestore:"category"`
	Level                  string    `firestore:"level,omitempty"`
	CreatedAt              time.Time `firestore:"created_at"`
	UpdatedAt              time.Time `firestore:"updated_at"`
}

// riskNumberDocument claims a risk number within a department. Its document
// ID is derived from both, so a transactional create enforces uniqueness.
type riskNumberDocument struct {
	RiskID        string `firestore:"risk_id"`
	Department    string `firestore:"department"`
	DepartmentKey string `firestore:"department_key"`
	RiskNo        string `firestore:"risk_no"`
}

type riskRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newRiskRepository(client *firestore.Client) *riskRepository {
	return &riskRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *riskRepository) risks() *firestore.CollectionRef {
	return r.client.Collection(collectionName(r.collectionPrefix, risksCollection))
}

func (r *riskRepository) numbers() *firestore.CollectionRef {
	return r.client.Collection(collectionName(r.collectionPrefix, riskNumbersCollection))
}

func riskNumberDocID(department, riskNo string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(model.FoldDepartment(department))) + "_" + riskNo
}

func toRiskDocument(risk *model.Risk) *riskDocument {
	return &riskDocument{
		ID:                     string(risk.ID),
		RiskNo:                 risk.RiskNo,
		Department:             risk.Department,
		DepartmentKey:          model.FoldDepartment(risk.Department),
		Name:                   risk.Name,
		Description:            risk.Description,
		Impact:                 string(risk.Impact),
		Likelihood:             string(risk.Likelihood),
		Status:                 string(risk.Status),
		OwnerID:                string(risk.OwnerID),
		CreatedByUserID:        string(risk.CreatedByUserID),
		Identification:         string(risk.Identification),
		ExistingControlInPlace: risk.ExistingControlInPlace,
		PlanOfAction:           risk.PlanOfAction,
		Category:               risk.Category,
		Level:                  risk.Level,
		CreatedAt:              risk.CreatedAt,
		UpdatedAt:              risk.UpdatedAt,
	}
}

func (d *riskDocument) toModel() *model.Risk {
	return &model.Risk{
		ID:                     model.RiskID(d.ID),
		RiskNo:                 d.RiskNo,
		Department:             d.Department,
		Name:                   d.Name,
		Description:            d.Description,
		Impact:                 types.Impact(d.Impact),
		Likelihood:             types.Likelihood(d.Likelihood),
		Status:                 types.RiskStatus(d.Status),
		OwnerID:                model.OwnerID(d.OwnerID),
		CreatedByUserID:        model.UserID(d.CreatedByUserID),
		Identification:         types.Identification(d.Identification),
		ExistingControlInPlace: d.ExistingControlInPlace,
		PlanOfAction:           d.PlanOfAction,
		Category:               d.Category,
		Level:                  d.Level,
		CreatedAt:              d.CreatedAt,
		UpdatedAt:              d.UpdatedAt,
	}
}

func (r *riskRepository) Create(ctx context.Context, risk *model.Risk) (*model.Risk, error) {
	doc := toRiskDocument(risk)
	riskRef := r.risks().Doc(doc.ID)
	numberRef := r.numbers().Doc(riskNumberDocID(doc.Department, doc.RiskNo))

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(numberRef); err == nil {
			return goerr.Wrap(model.ErrConflict, "risk number already assigned",
				goerr.V(model.DepartmentKey, doc.Department),
				goerr.V(model.RiskNoKey, doc.RiskNo))
		} else if !isNotFound(err) {
			return goerr.Wrap(err, "failed to check risk number")
		}

		if err := tx.Create(numberRef, &riskNumberDocument{
			RiskID:        doc.ID,
			Department:    doc.Department,
			DepartmentKey: doc.DepartmentKey,
			RiskNo:        doc.RiskNo,
		}); err != nil {
			return goerr.Wrap(err, "failed to claim risk number")
		}
		return tx.Create(riskRef, doc)
	})
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return nil, goerr.Wrap(model.ErrConflict, "risk or risk number already exists",
				goerr.V(model.RiskIDKey, doc.ID),
				goerr.V(model.RiskNoKey, doc.RiskNo))
		}
		return nil, storeError(err, "failed to create risk", goerr.V(model.RiskIDKey, doc.ID))
	}

	return doc.toModel(), nil
}

func (r *riskRepository) Get(ctx context.Context, id model.RiskID) (*model.Risk, error) {
	snap, err := r.risks().Doc(string(id)).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(model.ErrNotFound, "risk not found", goerr.V(model.RiskIDKey, id))
		}
		return nil, storeError(err, "failed to get risk", goerr.V(model.RiskIDKey, id))
	}

	var doc riskDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal risk", goerr.V(model.RiskIDKey, id))
	}
	return doc.toModel(), nil
}

func (r *riskRepository) Update(ctx context.Context, risk *model.Risk) (*model.Risk, error) {
	docRef := r.risks().Doc(string(risk.ID))
	updated := toRiskDocument(risk)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(docRef)
		if err != nil {
			if isNotFound(err) {
				return goerr.Wrap(model.ErrNotFound, "risk not found", goerr.V(model.RiskIDKey, risk.ID))
			}
			return goerr.Wrap(err, "failed to get risk")
		}

		var existing riskDocument
		if err := snap.DataTo(&existing); err != nil {
			return goerr.Wrap(err, "failed to unmarshal risk")
		}
		updated.RiskNo = existing.RiskNo
		updated.Department = existing.Department
		updated.DepartmentKey = model.FoldDepartment(existing.Department)
		updated.CreatedAt = existing.CreatedAt

		return tx.Set(docRef, updated)
	})
	if err != nil {
		return nil, storeError(err, "failed to update risk", goerr.V(model.RiskIDKey, risk.ID))
	}

	return updated.toModel(), nil
}

func (r *riskRepository) Delete(ctx context.Context, id model.RiskID) error {
	docRef := r.risks().Doc(string(id))

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(docRef)
		if err != nil {
			if isNotFound(err) {
				return goerr.Wrap(model.ErrNotFound, "risk not found", goerr.V(model.RiskIDKey, id))
			}
			return goerr.Wrap(err, "failed to get risk")
		}

		var existing riskDocument
		if err := snap.DataTo(&existing); err != nil {
			return goerr.Wrap(err, "failed to unmarshal risk")
		}

		if err := tx.Delete(r.numbers().Doc(riskNumberDocID(existing.Department, existing.RiskNo))); err != nil {
			return goerr.Wrap(err, "failed to release risk number")
		}
		return tx.Delete(docRef)
	})
	if err != nil {
		return storeError(err, "failed to delete risk", goerr.V(model.RiskIDKey, id))
	}
	return nil
}

func (r *riskRepository) Query(ctx context.Context, q model.RiskQuery) ([]*model.Risk, error) {
	query := r.risks().Query
	if q.Department != nil {
		query = query.Where("department_key", "==", model.FoldDepartment(*q.Department))
	}
	if q.OwnerID != "" {
		query = query.Where("owner_id", "==", string(q.OwnerID))
	}
	if !q.CreatedBefore.IsZero() {
		query = query.Where("created_at", "<", q.CreatedBefore)
	}
	if len(q.Statuses) > 0 {
		statuses := make([]string, len(q.Statuses))
		for i, s := range q.Statuses {
			statuses[i] = string(s)
		}
		query = query.Where("status", "in", statuses)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var risks []*model.Risk
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, storeError(err, "failed to iterate risks")
		}

		var doc riskDocument
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal risk", goerr.V("doc_id", snap.Ref.ID))
		}
		risks = append(risks, doc.toModel())
	}

	// Sorted here rather than with OrderBy so that no composite index is
	// needed for every filter combination
	sort.Slice(risks, func(i, j int) bool {
		if !risks[i].CreatedAt.Equal(risks[j].CreatedAt) {
			return risks[i].CreatedAt.Before(risks[j].CreatedAt)
		}
		return risks[i].RiskNo < risks[j].RiskNo
	})

	return risks, nil
}

func (r *riskRepository) ListRiskNos(ctx context.Context, department string) ([]string, error) {
	iter := r.numbers().Where("department_key", "==", model.FoldDepartment(department)).Documents(ctx)
	defer iter.Stop()

	var numbers []string
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, storeError(err, "failed to iterate risk numbers", goerr.V(model.DepartmentKey, department))
		}

		var doc riskNumberDocument
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal risk number", goerr.V("doc_id", snap.Ref.ID))
		}
		numbers = append(numbers, doc.RiskNo)
	}

	sort.Strings(numbers)
	return numbers, nil
}
