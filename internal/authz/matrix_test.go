package authz

import (
	"testing"

	"lumina-crm/backend/internal/membership/domain"
)

func TestMatrix_TotalOverRolesAndModules(t *testing.T) {
	for _, role := range domain.Roles() {
		row, ok := matrix[role]
		if !ok {
			t.Fatalf("matrix has no row for role %q", role)
		}
		for _, mod := range Modules() {
			if _, ok := row[mod]; !ok {
				t.Errorf("role %q has no entry for module %q", role, mod)
			}
		}
	}
}

func TestHasPermission_SuperAdminFullGrant(t *testing.T) {
	for _, mod := range Modules() {
		for _, act := range Actions() {
			if !HasPermission(domain.RoleSuperAdmin, mod, act) {
				t.Errorf("HasPermission(super_admin, %s, %s) = false, want true", mod, act)
			}
		}
	}
}

func TestHasPermission_OrgAdminFullGrant(t *testing.T) {
	for _, mod := range Modules() {
		for _, act := range Actions() {
			if !HasPermission(domain.RoleOrgAdmin, mod, act) {
				t.Errorf("HasPermission(org_admin, %s, %s) = false, want true", mod, act)
			}
		}
	}
}

func TestHasPermission_Scenarios(t *testing.T) {
	testCases := []struct {
		name   string
		role   domain.Role
		module Module
		action Action
		want   bool
	}{
		{"viewer cannot update crm", domain.RoleViewer, ModuleCRM, ActionUpdate, false},
		{"viewer reads crm", domain.RoleViewer, ModuleCRM, ActionRead, true},
		{"sales deletes crm", domain.RoleSales, ModuleCRM, ActionDelete, true},
		{"sales cannot read marketing", domain.RoleSales, ModuleMarketing, ActionRead, false},
		{"marketer full marketing", domain.RoleMarketer, ModuleMarketing, ActionDelete, true},
		{"marketer cannot touch crm", domain.RoleMarketer, ModuleCRM, ActionRead, false},
		{"vendor updates marketplace", domain.RoleVendor, ModuleMarketplace, ActionUpdate, true},
		{"vendor cannot delete marketplace", domain.RoleVendor, ModuleMarketplace, ActionDelete, false},
		{"vendor cannot read goals", domain.RoleVendor, ModuleGoals, ActionRead, false},
		{"nobody but admins touch settings", domain.RoleMarketer, ModuleSettings, ActionRead, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := HasPermission(tc.role, tc.module, tc.action); got != tc.want {
				t.Errorf("HasPermission(%s, %s, %s) = %v, want %v", tc.role, tc.module, tc.action, got, tc.want)
			}
		})
	}
}

func TestHasPermission_UnknownRoleOrModuleDenies(t *testing.T) {
	if HasPermission(domain.Role("intern"), ModuleCRM, ActionRead) {
		t.Error("unknown role was allowed")
	}
	if HasPermission(domain.RoleSuperAdmin, Module("billing"), ActionRead) {
		t.Error("unknown module was allowed even for super_admin")
	}
}

func TestHasAnyPermission(t *testing.T) {
	checks := []Check{
		{ModuleMarketing, ActionUpdate},
		{ModuleCRM, ActionRead},
	}
	if !HasAnyPermission(domain.RoleSales, checks) {
		t.Error("sales should satisfy at least one check via crm read")
	}
	if HasAnyPermission(domain.RoleVendor, checks) {
		t.Error("vendor satisfies neither check")
	}
	if HasAnyPermission(domain.RoleSales, nil) {
		t.Error("empty checks must not satisfy HasAnyPermission")
	}
}

func TestHasAllPermissions(t *testing.T) {
	checks := []Check{
		{ModuleCRM, ActionRead},
		{ModuleCRM, ActionDelete},
	}
	if !HasAllPermissions(domain.RoleSales, checks) {
		t.Error("sales holds full crm access")
	}
	checks = append(checks, Check{ModuleMarketing, ActionRead})
	if HasAllPermissions(domain.RoleSales, checks) {
		t.Error("sales lacks marketing read, HasAllPermissions must be false")
	}
	if !HasAllPermissions(domain.RoleViewer, nil) {
		t.Error("empty checks are vacuously true")
	}
}
