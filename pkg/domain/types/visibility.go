package types

// RiskState is the open/closed toggle applied to risk lists
type RiskState string

const (
	RiskStateAll    RiskState = "all"
	RiskStateOpen   RiskState = "open"
	RiskStateClosed RiskState = "closed"
)

// IsValid checks if the risk state is valid
func (s RiskState) IsValid() bool {
	switch s {
	case RiskStateAll, RiskStateOpen, RiskStateClosed:
		return true
	default:
		return false
	}
}

// Normalize returns the state, treating empty as RiskStateAll
func (s RiskState) Normalize() RiskState {
	if s == "" {
		return RiskStateAll
	}
	return s
}

// ParseRiskState parses a string into a RiskState. Empty means all.
func ParseRiskState(s string) (RiskState, error) {
	if s == "" {
		return RiskStateAll, nil
	}
	return parseEnum("risk state", s, []RiskState{RiskStateAll, RiskStateOpen, RiskStateClosed})
}

// UnitHeadScope decides what a unit_head viewer sees
type UnitHeadScope string

const (
	// UnitHeadScopeOrganization lets unit heads see every record
	UnitHeadScopeOrganization UnitHeadScope = "organization"
	// UnitHeadScopeDepartment scopes unit heads to their department when they have one
	UnitHeadScopeDepartment UnitHeadScope = "department"
)

// IsValid checks if the scope is valid
func (s UnitHeadScope) IsValid() bool {
	return s == UnitHeadScopeOrganization || s == UnitHeadScopeDepartment
}

// ParseUnitHeadScope parses a string into a UnitHeadScope
func ParseUnitHeadScope(s string) (UnitHeadScope, error) {
	return parseEnum("unit_head scope", s, []UnitHeadScope{UnitHeadScopeOrganization, UnitHeadScopeDepartment})
}
