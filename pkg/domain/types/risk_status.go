package types

// RiskStatus represents the lifecycle state of a risk
type RiskStatus string

const (
	RiskStatusRaised     RiskStatus = "Raised"
	RiskStatusOpen       RiskStatus = "Open"
	RiskStatusNew        RiskStatus = "New"
	RiskStatusExisting   RiskStatus = "Existing"
	RiskStatusDowngraded RiskStatus = "Downgraded"
	RiskStatusUpgraded   RiskStatus = "Upgraded"
	RiskStatusClosed     RiskStatus = "Closed"
	RiskStatusEliminated RiskStatus = "Eliminated"
)

// AllRiskStatuses returns all valid risk statuses
func AllRiskStatuses() []RiskStatus {
	return []RiskStatus{
		RiskStatusRaised,
		RiskStatusOpen,
		RiskStatusNew,
		RiskStatusExisting,
		RiskStatusDowngraded,
		RiskStatusUpgraded,
		RiskStatusClosed,
		RiskStatusEliminated,
	}
}

// IsValid checks if the risk status is valid
func (s RiskStatus) IsValid() bool {
	switch s {
	case RiskStatusRaised,
		RiskStatusOpen,
		RiskStatusNew,
		RiskStatusExisting,
		RiskStatusDowngraded,
		RiskStatusUpgraded,
		RiskStatusClosed,
		RiskStatusEliminated:
		return true
	default:
		return false
	}
}

// IsResolved reports whether the status means the risk no longer needs work.
// Both Eliminated and Closed are resolved; only Eliminated counts as "closed"
// for the open/closed list toggle.
func (s RiskStatus) IsResolved() bool {
	return s == RiskStatusEliminated || s == RiskStatusClosed
}

// String returns the string representation of the risk status
func (s RiskStatus) String() string {
	return string(s)
}

// ParseRiskStatus parses a string into a RiskStatus
func ParseRiskStatus(s string) (RiskStatus, error) {
	return parseEnum("risk status", s, AllRiskStatuses())
}
