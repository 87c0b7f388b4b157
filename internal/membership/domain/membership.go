package domain

import (
	"time"
)

// Membership links a user to an organization with exactly one role. It is
// the unit of authorization context: every permission decision is evaluated
// against the caller's membership in the active organization.
type Membership struct {
	ID        string
	UserID    string
	OrgID     string
	Role      Role
	CreatedAt time.Time
}

// Role is the closed set of roles a membership can carry.
type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleOrgAdmin   Role = "org_admin"
	RoleMarketer   Role = "marketer"
	RoleSales      Role = "sales"
	RoleViewer     Role = "viewer"
	RoleVendor     Role = "vendor"
)

// Roles returns every defined role. Tests sweep this to prove the permission
// matrix is total.
func Roles() []Role {
	return []Role{RoleSuperAdmin, RoleOrgAdmin, RoleMarketer, RoleSales, RoleViewer, RoleVendor}
}

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleOrgAdmin, RoleMarketer, RoleSales, RoleViewer, RoleVendor:
		return true
	}
	return false
}
