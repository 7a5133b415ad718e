package model

import (
	"time"

	"github.com/google/uuid"
)

// OwnerID is a UUID-based identifier for Owner
type OwnerID string

// NewOwnerID generates a new UUID v4 OwnerID
func NewOwnerID() OwnerID {
	return OwnerID(uuid.New().String())
}

// Owner is the person or role accountable for mitigating a risk
type Owner struct {
	ID         OwnerID
	Name       string
	Department string
	CreatedAt  time.Time
}

// Clone returns a copy of the owner
func (o *Owner) Clone() *Owner {
	if o == nil {
		return nil
	}
	copied := *o
	return &copied
}
