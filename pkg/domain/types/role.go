package types

// Role is the authorization role of a user
type Role string

const (
	RoleUser     Role = "user"
	RoleManager  Role = "manager"
	RoleAdmin    Role = "admin"
	RoleUnitHead Role = "unit_head"
)

// AllRoles returns all valid roles
func AllRoles() []Role {
	return []Role{
		RoleUser,
		RoleManager,
		RoleAdmin,
		RoleUnitHead,
	}
}

// IsValid checks if the role is valid
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleManager, RoleAdmin, RoleUnitHead:
		return true
	default:
		return false
	}
}

// RequiresDepartment reports whether users of this role must belong to a department
func (r Role) RequiresDepartment() bool {
	return r == RoleUser || r == RoleManager
}

// CanApprove reports whether the role may approve risks
func (r Role) CanApprove() bool {
	return r == RoleManager || r == RoleAdmin
}

// String returns the string representation of Role
func (r Role) String() string {
	return string(r)
}

// ParseRole parses a string into a Role
func ParseRole(s string) (Role, error) {
	return parseEnum("role", s, AllRoles())
}
