package authz

import (
	"lumina-crm/backend/internal/membership/domain"
	"lumina-crm/backend/internal/platform/apperror"
)

// Caller is an authenticated identity plus the membership snapshot taken
// when the request entered the system. The identity middleware resolves the
// active membership exactly once per request; an organization switch that
// lands mid-flight does not change the membership a request is judged
// against.
type Caller struct {
	UserID string
	// Membership is the active membership resolved for this request, or nil
	// when the caller belongs to no organization.
	Membership *domain.Membership
}

// Authorize admits the operation (module, action) for the caller. On success
// it returns the membership the decision was made against; callers scope all
// subsequent data access to that membership's OrgID. Fails with
// Unauthenticated when there is no identity, Forbidden when there is no
// active membership or the role is not granted the action. Never mutates
// anything.
func Authorize(caller Caller, module Module, action Action) (*domain.Membership, error) {
	if caller.UserID == "" {
		return nil, apperror.New(apperror.KindUnauthenticated, "authentication required")
	}
	if caller.Membership == nil {
		return nil, apperror.New(apperror.KindForbidden, "no active organization")
	}
	if !HasPermission(caller.Membership.Role, module, action) {
		return nil, apperror.Newf(apperror.KindForbidden, "role %s may not %s %s", caller.Membership.Role, action, module)
	}
	return caller.Membership, nil
}

// AuthorizeAny admits the operation if at least one of checks is permitted.
// Used by operations satisfiable via multiple module/action routes, such as
// cross-module search.
func AuthorizeAny(caller Caller, checks []Check) (*domain.Membership, error) {
	if caller.UserID == "" {
		return nil, apperror.New(apperror.KindUnauthenticated, "authentication required")
	}
	if caller.Membership == nil {
		return nil, apperror.New(apperror.KindForbidden, "no active organization")
	}
	if !HasAnyPermission(caller.Membership.Role, checks) {
		return nil, apperror.New(apperror.KindForbidden, "insufficient permissions")
	}
	return caller.Membership, nil
}
