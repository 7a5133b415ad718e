package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/secmon-lab/riskledger/pkg/domain/types"
)

// RiskID is a UUID-based identifier for Risk
type RiskID string

// NewRiskID generates a new UUID v4 RiskID
func NewRiskID() RiskID {
	return RiskID(uuid.New().String())
}

// Risk is an organizational risk reported by a user and tracked through its lifecycle
type Risk struct {
	ID                     RiskID
	RiskNo                 string // e.g. "R001", unique within Department
	Department             string
	Name                   string
	Description            string
	Impact                 types.Impact
	Likelihood             types.Likelihood
	Status                 types.RiskStatus
	OwnerID                OwnerID
	CreatedByUserID        UserID
	Identification         types.Identification
	ExistingControlInPlace string
	PlanOfAction           string
	Category               string

	// Level is the single rating used by records written before impact and
	// likelihood were split. Only the normalizer reads it.
	Level string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone returns a copy of the risk
func (r *Risk) Clone() *Risk {
	if r == nil {
		return nil
	}
	copied := *r
	return &copied
}

// InDepartment reports whether the risk belongs to department, ignoring case
func (r *Risk) InDepartment(department string) bool {
	return strings.EqualFold(r.Department, department)
}

// FoldDepartment returns the case-insensitive key of a department. Risk
// numbers are unique per folded department.
func FoldDepartment(department string) string {
	return strings.ToLower(strings.TrimSpace(department))
}

// RiskInput holds caller supplied values for a new risk
type RiskInput struct {
	Name                   string
	Description            string
	Department             string // only honored when the creator has no department
	Impact                 types.Impact
	Likelihood             types.Likelihood
	Status                 types.RiskStatus // empty means default
	OwnerID                OwnerID          // empty means pick or synthesize a default owner
	Identification         types.Identification
	ExistingControlInPlace string
	PlanOfAction           string
	Category               string
}

// RiskPatch holds a partial update. Nil fields are left unchanged.
type RiskPatch struct {
	Name                   *string
	Description            *string
	Impact                 *types.Impact
	Likelihood             *types.Likelihood
	Status                 *types.RiskStatus
	OwnerID                *OwnerID
	Identification         *types.Identification
	ExistingControlInPlace *string
	PlanOfAction           *string
	Category               *string
}

// Apply returns a copy of r with the patch applied. Immutable fields are
// never touched.
func (p *RiskPatch) Apply(r *Risk) *Risk {
	next := r.Clone()
	if p == nil {
		return next
	}
	if p.Name != nil {
		next.Name = *p.Name
	}
	if p.Description != nil {
		next.Description = *p.Description
	}
	if p.Impact != nil {
		next.Impact = *p.Impact
	}
	if p.Likelihood != nil {
		next.Likelihood = *p.Likelihood
	}
	if p.Status != nil {
		next.Status = *p.Status
	}
	if p.OwnerID != nil {
		next.OwnerID = *p.OwnerID
	}
	if p.Identification != nil {
		next.Identification = *p.Identification
	}
	if p.ExistingControlInPlace != nil {
		next.ExistingControlInPlace = *p.ExistingControlInPlace
	}
	if p.PlanOfAction != nil {
		next.PlanOfAction = *p.PlanOfAction
	}
	if p.Category != nil {
		next.Category = *p.Category
	}
	return next
}

// RiskQuery is a declarative predicate over risks. Zero-valued fields match
// everything, so the zero query lists all risks. Every backend translates it
// to its native filter and Match is the reference semantics.
type RiskQuery struct {
	Department    *string // exact match
	OwnerID       OwnerID
	CreatedBefore time.Time
	Statuses      []types.RiskStatus
}

// Match reports whether r satisfies the query
func (q RiskQuery) Match(r *Risk) bool {
	if q.Department != nil && FoldDepartment(r.Department) != FoldDepartment(*q.Department) {
		return false
	}
	if q.OwnerID != "" && r.OwnerID != q.OwnerID {
		return false
	}
	if !q.CreatedBefore.IsZero() && !r.CreatedAt.Before(q.CreatedBefore) {
		return false
	}
	if len(q.Statuses) > 0 {
		found := false
		for _, s := range q.Statuses {
			if r.Status == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
