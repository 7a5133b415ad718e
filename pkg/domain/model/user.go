package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskledger/pkg/domain/types"
)

// UserID identifies a system actor. It is assigned by the identity provider
// in front of the service, so it is not generated here.
type UserID string

// User is a system actor
type User struct {
	ID         UserID
	Name       string
	Email      string
	Role       types.Role
	Department string
	CreatedAt  time.Time
}

// Clone returns a copy of the user
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	copied := *u
	return &copied
}

// Validate checks role and department consistency
func (u *User) Validate() error {
	if u.ID == "" {
		return goerr.Wrap(ErrValidation, "user ID is required")
	}
	if !u.Role.IsValid() {
		return goerr.Wrap(ErrValidation, "invalid role", goerr.V(UserIDKey, u.ID), goerr.V("role", u.Role))
	}
	if u.Role.RequiresDepartment() && u.Department == "" {
		return goerr.Wrap(ErrValidation, "department is required for this role",
			goerr.V(UserIDKey, u.ID), goerr.V("role", u.Role))
	}
	return nil
}
