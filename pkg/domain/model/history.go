package model

import (
	"time"

	"github.com/google/uuid"
)

// RiskHistoryID is a UUID-based identifier for RiskHistory
type RiskHistoryID string

// NewRiskHistoryID generates a new UUID v4 RiskHistoryID
func NewRiskHistoryID() RiskHistoryID {
	return RiskHistoryID(uuid.New().String())
}

// RiskHistory is one field-level change of a risk. Entries are append-only.
type RiskHistory struct {
	ID              RiskHistoryID
	RiskID          RiskID
	ChangedAt       time.Time
	ChangedByUserID UserID // empty when the change was made by the system
	FieldName       string
	OldValue        string
	NewValue        string
}

// Clone returns a copy of the entry
func (h *RiskHistory) Clone() *RiskHistory {
	if h == nil {
		return nil
	}
	copied := *h
	return &copied
}

type watchedField struct {
	name  string
	value func(r *Risk) string
}

// watchedFields is the fixed list of mutable fields whose changes are
// recorded. Identity fields (ID, RiskNo, Department) are immutable and never
// appear here.
var watchedFields = []watchedField{
	{"name", func(r *Risk) string { return r.Name }},
	{"description", func(r *Risk) string { return r.Description }},
	{"impact", func(r *Risk) string { return string(r.Impact) }},
	{"likelihood", func(r *Risk) string { return string(r.Likelihood) }},
	{"status", func(r *Risk) string { return string(r.Status) }},
	{"identification", func(r *Risk) string { return string(r.Identification) }},
	{"existingControlInPlace", func(r *Risk) string { return r.ExistingControlInPlace }},
	{"planOfAction", func(r *Risk) string { return r.PlanOfAction }},
	{"category", func(r *Risk) string { return r.Category }},
}

// WatchedFieldNames returns the names of fields tracked by DiffRisk
func WatchedFieldNames() []string {
	names := make([]string, len(watchedFields))
	for i, f := range watchedFields {
		names[i] = f.name
	}
	return names
}

// DiffRisk compares prev and next and returns one history entry per watched
// field whose value changed. Unset values render as the empty string.
func DiffRisk(prev, next *Risk, changedBy UserID, at time.Time) []*RiskHistory {
	var entries []*RiskHistory
	for _, f := range watchedFields {
		oldValue := valueOf(prev, f)
		newValue := valueOf(next, f)
		if oldValue == newValue {
			continue
		}

		riskID := next.ID
		if riskID == "" && prev != nil {
			riskID = prev.ID
		}
		entries = append(entries, &RiskHistory{
			ID:              NewRiskHistoryID(),
			RiskID:          riskID,
			ChangedAt:       at.UTC(),
			ChangedByUserID: changedBy,
			FieldName:       f.name,
			OldValue:        oldValue,
			NewValue:        newValue,
		})
	}
	return entries
}

// RiskChanged reports whether next differs from prev in a watched field or
// in its owner
func RiskChanged(prev, next *Risk) bool {
	if prev == nil || next == nil {
		return prev != next
	}
	if prev.OwnerID != next.OwnerID {
		return true
	}
	for _, f := range watchedFields {
		if f.value(prev) != f.value(next) {
			return true
		}
	}
	return false
}

func valueOf(r *Risk, f watchedField) string {
	if r == nil {
		return ""
	}
	return f.value(r)
}
