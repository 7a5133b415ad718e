package model

import (
	"strings"

	"github.com/secmon-lab/riskledger/pkg/domain/types"
)

// AllDepartments is the department filter value selecting every department
const AllDepartments = "All"

// RiskFilter narrows a risk list after role scoping
type RiskFilter struct {
	Department string // "" or AllDepartments for no narrowing
	State      types.RiskState
}

func (f RiskFilter) match(r *Risk) bool {
	if f.Department != "" && f.Department != AllDepartments && !r.InDepartment(f.Department) {
		return false
	}
	switch f.State.Normalize() {
	case types.RiskStateOpen:
		return r.Status != types.RiskStatusEliminated
	case types.RiskStateClosed:
		return r.Status == types.RiskStatusEliminated
	}
	return true
}

// organizationWide reports whether the viewer sees every department
func organizationWide(viewer *User, scope types.UnitHeadScope) bool {
	switch viewer.Role {
	case types.RoleAdmin:
		return true
	case types.RoleUnitHead:
		return scope != types.UnitHeadScopeDepartment || viewer.Department == ""
	}
	return false
}

// CanViewDepartment reports whether records of department are in the viewer's scope
func CanViewDepartment(viewer *User, department string, scope types.UnitHeadScope) bool {
	if viewer == nil {
		return false
	}
	if organizationWide(viewer, scope) {
		return true
	}
	return viewer.Department != "" && strings.EqualFold(viewer.Department, department)
}

// CanViewRisk reports whether the viewer may see r. Plain users additionally
// see every risk they raised, whatever its department.
func CanViewRisk(viewer *User, r *Risk, scope types.UnitHeadScope) bool {
	if viewer == nil {
		return false
	}
	if viewer.Role == types.RoleUser && r.CreatedByUserID == viewer.ID {
		return true
	}
	return CanViewDepartment(viewer, r.Department, scope)
}

// VisibleRisks returns the subset of risks the viewer may see, narrowed by filter
func VisibleRisks(viewer *User, risks []*Risk, filter RiskFilter, scope types.UnitHeadScope) []*Risk {
	visible := make([]*Risk, 0, len(risks))
	for _, r := range risks {
		if CanViewRisk(viewer, r, scope) && filter.match(r) {
			visible = append(visible, r)
		}
	}
	return visible
}

// VisibleOwners returns the owners whose department is in the viewer's scope
func VisibleOwners(viewer *User, owners []*Owner, scope types.UnitHeadScope) []*Owner {
	visible := make([]*Owner, 0, len(owners))
	for _, o := range owners {
		if CanViewDepartment(viewer, o.Department, scope) {
			visible = append(visible, o)
		}
	}
	return visible
}

// VisibleIncidents returns incidents whose parent risk is among visibleRisks
func VisibleIncidents(incidents []*Incident, visibleRisks []*Risk) []*Incident {
	parents := make(map[RiskID]struct{}, len(visibleRisks))
	for _, r := range visibleRisks {
		parents[r.ID] = struct{}{}
	}

	visible := make([]*Incident, 0, len(incidents))
	for _, i := range incidents {
		if _, ok := parents[i.RiskID]; ok {
			visible = append(visible, i)
		}
	}
	return visible
}
