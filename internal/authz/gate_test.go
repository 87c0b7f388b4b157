package authz

import (
	"testing"

	"lumina-crm/backend/internal/membership/domain"
	"lumina-crm/backend/internal/platform/apperror"
)

func caller(role domain.Role) Caller {
	return Caller{
		UserID: "user-1",
		Membership: &domain.Membership{
			ID: "m1", UserID: "user-1", OrgID: "org-a", Role: role,
		},
	}
}

func TestAuthorize_Success_ReturnsDecisionMembership(t *testing.T) {
	m, err := Authorize(caller(domain.RoleSales), ModuleCRM, ActionDelete)
	if err != nil {
		t.Fatalf("Authorize: %v", err)
	}
	if m.OrgID != "org-a" {
		t.Errorf("org = %q, want org-a; callers scope data access with this", m.OrgID)
	}
}

func TestAuthorize_Unauthenticated(t *testing.T) {
	_, err := Authorize(Caller{}, ModuleCRM, ActionRead)
	if apperror.KindOf(err) != apperror.KindUnauthenticated {
		t.Fatalf("kind = %v, want KindUnauthenticated", apperror.KindOf(err))
	}
}

func TestAuthorize_NoActiveMembershipIsForbidden(t *testing.T) {
	_, err := Authorize(Caller{UserID: "user-1"}, ModuleCRM, ActionRead)
	if apperror.KindOf(err) != apperror.KindForbidden {
		t.Fatalf("kind = %v, want KindForbidden", apperror.KindOf(err))
	}
}

func TestAuthorize_RoleDenied(t *testing.T) {
	_, err := Authorize(caller(domain.RoleViewer), ModuleCRM, ActionUpdate)
	if apperror.KindOf(err) != apperror.KindForbidden {
		t.Fatalf("kind = %v, want KindForbidden", apperror.KindOf(err))
	}
}

func TestAuthorizeAny(t *testing.T) {
	checks := []Check{
		{ModuleMarketing, ActionRead},
		{ModuleCRM, ActionRead},
	}

	if _, err := AuthorizeAny(caller(domain.RoleSales), checks); err != nil {
		t.Errorf("sales should pass via crm read: %v", err)
	}
	if _, err := AuthorizeAny(caller(domain.RoleVendor), checks); apperror.KindOf(err) != apperror.KindForbidden {
		t.Errorf("vendor kind = %v, want KindForbidden", apperror.KindOf(err))
	}
	if _, err := AuthorizeAny(Caller{}, checks); apperror.KindOf(err) != apperror.KindUnauthenticated {
		t.Errorf("anonymous kind = %v, want KindUnauthenticated", apperror.KindOf(err))
	}
}
