// Package orgcontext resolves which of a caller's memberships is the active
// one, persists that choice as a signed selection token, and invalidates
// tenant-scoped caches when the active organization changes.
package orgcontext

import (
	"context"

	"lumina-crm/backend/internal/membership/domain"
	"lumina-crm/backend/internal/platform/apperror"
)

// ErrNoMembership is returned by ResolveActive when the caller belongs to no
// organization. The surrounding flow redirects such callers to tenant
// selection; there is no tenant to authorize against.
var ErrNoMembership = apperror.New(apperror.KindForbidden, "no organization membership").WithCode("no_membership")

// ErrNotAMember is returned by SwitchActive when the requested organization
// is not among the caller's memberships. A forged switch request must not
// reveal whether the organization exists.
var ErrNotAMember = apperror.New(apperror.KindForbidden, "not a member of this organization").WithCode(apperror.CodeNotAMember)

// MembershipSource provides the caller's verified memberships.
type MembershipSource interface {
	GetMembershipByUserAndOrg(ctx context.Context, userID, orgID string) (*domain.Membership, error)
	ListMembershipsByUser(ctx context.Context, userID string) ([]*domain.Membership, error)
}

// CacheInvalidator drops every tenant-scoped cache entry for a user. Wired
// to tenantcache.Cache in production.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, userID string) error
}

// Resolver selects and switches the caller's active organization. The
// persisted selection token is a UX convenience, not a trust boundary:
// every resolve re-derives the membership (and therefore the role) from the
// membership source.
type Resolver struct {
	memberships MembershipSource
	tokens      *TokenCodec
	cache       CacheInvalidator
}

func NewResolver(memberships MembershipSource, tokens *TokenCodec, cache CacheInvalidator) *Resolver {
	return &Resolver{memberships: memberships, tokens: tokens, cache: cache}
}

// AvailableMemberships returns every membership the caller currently holds,
// in insertion order from the membership source.
func (r *Resolver) AvailableMemberships(ctx context.Context, userID string) ([]*domain.Membership, error) {
	list, err := r.memberships.ListMembershipsByUser(ctx, userID)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "failed to list memberships", err)
	}
	return list, nil
}

// ResolveActive selects the caller's active membership. If token names an
// organization the caller still belongs to, that membership is selected and
// the token returned unchanged. Otherwise the first membership (insertion
// order) is selected and a fresh token persisting that choice is returned.
// Returns ErrNoMembership when the caller belongs to no organization.
func (r *Resolver) ResolveActive(ctx context.Context, userID, token string) (*domain.Membership, string, error) {
	if token != "" {
		orgID, err := r.tokens.Verify(token, userID)
		if err == nil {
			m, err := r.memberships.GetMembershipByUserAndOrg(ctx, userID, orgID)
			if err != nil {
				return nil, "", apperror.Wrap(apperror.KindInternal, "failed to resolve membership", err)
			}
			if m != nil {
				return m, token, nil
			}
			// The caller left the organization the token names; fall through
			// to the first-membership default.
		}
	}

	list, err := r.memberships.ListMembershipsByUser(ctx, userID)
	if err != nil {
		return nil, "", apperror.Wrap(apperror.KindInternal, "failed to list memberships", err)
	}
	if len(list) == 0 {
		return nil, "", ErrNoMembership
	}
	first := list[0]
	fresh, err := r.tokens.Mint(userID, first.OrgID)
	if err != nil {
		return nil, "", apperror.Wrap(apperror.KindInternal, "failed to mint selection token", err)
	}
	return first, fresh, nil
}

// SwitchActive makes orgID the caller's active organization. Fails with
// ErrNotAMember when the caller holds no membership there, so a forged
// client request cannot appear to switch into a foreign tenant. On success
// it mints a new selection token and invalidates every tenant-scoped cache
// for the user — any value cached under the previous organization is stale
// the instant the switch commits.
func (r *Resolver) SwitchActive(ctx context.Context, userID, orgID string) (*domain.Membership, string, error) {
	m, err := r.memberships.GetMembershipByUserAndOrg(ctx, userID, orgID)
	if err != nil {
		return nil, "", apperror.Wrap(apperror.KindInternal, "failed to resolve membership", err)
	}
	if m == nil {
		return nil, "", ErrNotAMember
	}
	token, err := r.tokens.Mint(userID, orgID)
	if err != nil {
		return nil, "", apperror.Wrap(apperror.KindInternal, "failed to mint selection token", err)
	}
	if err := r.cache.Invalidate(ctx, userID); err != nil {
		// Correctness first: a switch that cannot invalidate caches must not
		// be reported as successful, or org-B data could linger in org-A views.
		return nil, "", apperror.Wrap(apperror.KindInternal, "failed to invalidate tenant caches", err)
	}
	return m, token, nil
}
