package config

import (
	"time"

	"github.com/secmon-lab/riskledger/pkg/domain/types"
)

// Default policy values
const (
	DefaultAgingThreshold      = 30 * 24 * time.Hour
	DefaultOwnerName           = "Unassigned"
	DefaultNumberingMaxRetries = 5
	DefaultSweepMinInterval    = 12 * time.Hour
)

// Policy holds deployment decisions of the risk engine
type Policy struct {
	// AgingThreshold is the age after which an unresolved risk becomes Existing
	AgingThreshold time.Duration
	// UnitHeadScope decides how unit_head viewers are scoped
	UnitHeadScope types.UnitHeadScope
	// DefaultOwnerName names the owner synthesized when a department has none
	DefaultOwnerName string
	// NumberingMaxRetries bounds riskNo allocation retries on conflict
	NumberingMaxRetries int
	// SweepMinInterval is the minimum time between two aging sweeps
	// across all instances sharing the store
	SweepMinInterval time.Duration
}

// DefaultPolicy returns the policy used when no configuration is given
func DefaultPolicy() *Policy {
	return &Policy{
		AgingThreshold:      DefaultAgingThreshold,
		UnitHeadScope:       types.UnitHeadScopeOrganization,
		DefaultOwnerName:    DefaultOwnerName,
		NumberingMaxRetries: DefaultNumberingMaxRetries,
		SweepMinInterval:    DefaultSweepMinInterval,
	}
}
