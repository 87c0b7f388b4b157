// Package authz holds the role/module/action permission matrix and the
// request-scoped authorization gate built on top of it.
package authz

import (
	"lumina-crm/backend/internal/membership/domain"
)

// Module is the closed set of protected resource domains.
type Module string

const (
	ModuleMarketing        Module = "marketing"
	ModuleMarketingAdv     Module = "marketing_adv"
	ModuleMarketingOffline Module = "marketing_offline"
	ModuleCRM              Module = "crm"
	ModuleGoals            Module = "goals"
	ModuleMarketplace      Module = "marketplace"
	ModuleSettings         Module = "settings"
	ModuleChat             Module = "chat"
)

// Modules returns every protected module. Tests sweep this to prove matrix totality.
func Modules() []Module {
	return []Module{
		ModuleMarketing, ModuleMarketingAdv, ModuleMarketingOffline,
		ModuleCRM, ModuleGoals, ModuleMarketplace, ModuleSettings, ModuleChat,
	}
}

// Valid reports whether m is one of the defined modules.
func (m Module) Valid() bool {
	switch m {
	case ModuleMarketing, ModuleMarketingAdv, ModuleMarketingOffline,
		ModuleCRM, ModuleGoals, ModuleMarketplace, ModuleSettings, ModuleChat:
		return true
	}
	return false
}

// Action is the closed set of operations on a module.
type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Actions returns every defined action.
func Actions() []Action {
	return []Action{ActionRead, ActionCreate, ActionUpdate, ActionDelete}
}

// Valid reports whether a is one of the defined actions.
func (a Action) Valid() bool {
	switch a {
	case ActionRead, ActionCreate, ActionUpdate, ActionDelete:
		return true
	}
	return false
}

// Check pairs a module with an action for the composite queries.
type Check struct {
	Module Module
	Action Action
}

var (
	allActions  = []Action{ActionRead, ActionCreate, ActionUpdate, ActionDelete}
	readOnly    = []Action{ActionRead}
	noActions   = []Action{}
	contributor = []Action{ActionRead, ActionCreate, ActionUpdate}
	chatMember  = []Action{ActionRead, ActionCreate}
)

// matrix is the single source of truth for (role, module, action) decisions.
// It is total over Role x Module: every role carries an explicit entry for
// every module, an empty entry meaning no access. SUPER_ADMIN and ORG_ADMIN
// are granted the full action set row by row rather than via a runtime
// bypass, so a module added without updating every row denies instead of
// allowing.
var matrix = map[domain.Role]map[Module][]Action{
	domain.RoleSuperAdmin: {
		ModuleMarketing:        allActions,
		ModuleMarketingAdv:     allActions,
		ModuleMarketingOffline: allActions,
		ModuleCRM:              allActions,
		ModuleGoals:            allActions,
		ModuleMarketplace:      allActions,
		ModuleSettings:         allActions,
		ModuleChat:             allActions,
	},
	domain.RoleOrgAdmin: {
		ModuleMarketing:        allActions,
		ModuleMarketingAdv:     allActions,
		ModuleMarketingOffline: allActions,
		ModuleCRM:              allActions,
		ModuleGoals:            allActions,
		ModuleMarketplace:      allActions,
		ModuleSettings:         allActions,
		ModuleChat:             allActions,
	},
	domain.RoleMarketer: {
		ModuleMarketing:        allActions,
		ModuleMarketingAdv:     allActions,
		ModuleMarketingOffline: allActions,
		ModuleCRM:              noActions,
		ModuleGoals:            contributor,
		ModuleMarketplace:      readOnly,
		ModuleSettings:         noActions,
		ModuleChat:             chatMember,
	},
	domain.RoleSales: {
		ModuleMarketing:        noActions,
		ModuleMarketingAdv:     noActions,
		ModuleMarketingOffline: noActions,
		ModuleCRM:              allActions,
		ModuleGoals:            contributor,
		ModuleMarketplace:      readOnly,
		ModuleSettings:         noActions,
		ModuleChat:             chatMember,
	},
	domain.RoleViewer: {
		ModuleMarketing:        readOnly,
		ModuleMarketingAdv:     readOnly,
		ModuleMarketingOffline: readOnly,
		ModuleCRM:              readOnly,
		ModuleGoals:            readOnly,
		ModuleMarketplace:      readOnly,
		ModuleSettings:         noActions,
		ModuleChat:             readOnly,
	},
	domain.RoleVendor: {
		ModuleMarketing:        noActions,
		ModuleMarketingAdv:     noActions,
		ModuleMarketingOffline: noActions,
		ModuleCRM:              noActions,
		ModuleGoals:            noActions,
		ModuleMarketplace:      contributor,
		ModuleSettings:         noActions,
		ModuleChat:             chatMember,
	},
}

// HasPermission reports whether role may perform action on module. Pure
// lookup, no I/O. An unknown role or module resolves to an empty action set,
// so the default is always deny.
func HasPermission(role domain.Role, module Module, action Action) bool {
	actions, ok := matrix[role][module]
	if !ok {
		return false
	}
	for _, a := range actions {
		if a == action {
			return true
		}
	}
	return false
}

// HasAnyPermission reports whether at least one of checks is permitted for role.
func HasAnyPermission(role domain.Role, checks []Check) bool {
	for _, c := range checks {
		if HasPermission(role, c.Module, c.Action) {
			return true
		}
	}
	return false
}

// HasAllPermissions reports whether every one of checks is permitted for
// role. An empty checks slice is vacuously true.
func HasAllPermissions(role domain.Role, checks []Check) bool {
	for _, c := range checks {
		if !HasPermission(role, c.Module, c.Action) {
			return false
		}
	}
	return true
}
