package model

import (
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskledger/pkg/domain/types"
)

// InitialStatus decides the status of a risk at creation. Plain users can
// only raise risks; other roles may pick a status and default to New.
func InitialStatus(creator types.Role, requested types.RiskStatus) types.RiskStatus {
	if creator == types.RoleUser {
		return types.RiskStatusRaised
	}
	if requested == "" {
		return types.RiskStatusNew
	}
	return requested
}

// ShouldAge reports whether the aging sweep must move r to Existing
func ShouldAge(r *Risk, now time.Time, threshold time.Duration) bool {
	switch r.Status {
	case types.RiskStatusExisting, types.RiskStatusEliminated, types.RiskStatusClosed:
		return false
	}
	return now.Sub(r.CreatedAt) > threshold
}

// Age returns the aged copy of r
func Age(r *Risk, now time.Time) *Risk {
	aged := r.Clone()
	aged.Status = types.RiskStatusExisting
	aged.UpdatedAt = Touch(r.UpdatedAt, now)
	return aged
}

// Approve returns a copy of r moved to New with every other field kept
func Approve(r *Risk, now time.Time) *Risk {
	approved := r.Clone()
	approved.Status = types.RiskStatusNew
	approved.UpdatedAt = Touch(r.UpdatedAt, now)
	return approved
}

// Touch returns the next UpdatedAt value, never earlier than prev
func Touch(prev, now time.Time) time.Time {
	now = now.UTC()
	if now.Before(prev) {
		return prev
	}
	return now
}

// ValidateRisk checks the fields a stored risk must always satisfy
func ValidateRisk(r *Risk) error {
	if err := ValidateRiskFields(r); err != nil {
		return err
	}
	if r.OwnerID == "" {
		return goerr.Wrap(ErrValidation, "owner is required", goerr.V(FieldKey, "ownerId"))
	}
	return nil
}

// ValidateRiskFields checks the caller supplied fields of r. The owner
// reference is left to ValidateRisk since it may be resolved later.
func ValidateRiskFields(r *Risk) error {
	if strings.TrimSpace(r.Name) == "" {
		return goerr.Wrap(ErrValidation, "risk name is required", goerr.V(FieldKey, "name"))
	}
	if !r.Impact.IsValid() {
		return goerr.Wrap(ErrValidation, "invalid impact", goerr.V(FieldKey, "impact"), goerr.V("value", r.Impact))
	}
	if !r.Likelihood.IsValid() {
		return goerr.Wrap(ErrValidation, "invalid likelihood", goerr.V(FieldKey, "likelihood"), goerr.V("value", r.Likelihood))
	}
	if !r.Status.IsValid() {
		return goerr.Wrap(ErrValidation, "invalid status", goerr.V(FieldKey, "status"), goerr.V("value", r.Status))
	}
	if !r.Identification.IsValid() {
		return goerr.Wrap(ErrValidation, "invalid identification", goerr.V(FieldKey, "identification"), goerr.V("value", r.Identification))
	}
	return nil
}
