package model

import (
	"time"

	"github.com/google/uuid"
)

// IncidentID is a UUID-based identifier for Incident
type IncidentID string

// NewIncidentID generates a new UUID v4 IncidentID
func NewIncidentID() IncidentID {
	return IncidentID(uuid.New().String())
}

// Incident is a concrete occurrence of a risk
type Incident struct {
	ID                IncidentID
	RiskID            RiskID
	Summary           string
	Description       string
	MitigationSteps   string
	CurrentStatusText string
	OccurredAt        time.Time
	ClosedDate        *time.Time
	Department        string // copied from the parent risk at creation
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Clone returns a deep copy of the incident
func (i *Incident) Clone() *Incident {
	if i == nil {
		return nil
	}
	copied := *i
	if i.ClosedDate != nil {
		closed := *i.ClosedDate
		copied.ClosedDate = &closed
	}
	return &copied
}

// IsClosed reports whether the incident has a closed date
func (i *Incident) IsClosed() bool {
	return i.ClosedDate != nil
}

// IncidentInput holds caller supplied values for a new incident
type IncidentInput struct {
	RiskID            RiskID
	Summary           string
	Description       string
	MitigationSteps   string
	CurrentStatusText string
	OccurredAt        time.Time
}

// IncidentPatch holds a partial incident update. Nil fields are left unchanged.
type IncidentPatch struct {
	Summary           *string
	Description       *string
	MitigationSteps   *string
	CurrentStatusText *string
	OccurredAt        *time.Time
}

// Apply returns a copy of i with the patch applied
func (p *IncidentPatch) Apply(i *Incident) *Incident {
	next := i.Clone()
	if p == nil {
		return next
	}
	if p.Summary != nil {
		next.Summary = *p.Summary
	}
	if p.Description != nil {
		next.Description = *p.Description
	}
	if p.MitigationSteps != nil {
		next.MitigationSteps = *p.MitigationSteps
	}
	if p.CurrentStatusText != nil {
		next.CurrentStatusText = *p.CurrentStatusText
	}
	if p.OccurredAt != nil {
		next.OccurredAt = *p.OccurredAt
	}
	return next
}
