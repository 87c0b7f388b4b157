package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"lumina-crm/backend/internal/membership/domain"
	"lumina-crm/backend/internal/orgcontext"
)

type stubSource struct {
	byUserOrg map[string]*domain.Membership
	byUser    map[string][]*domain.Membership
}

func (s *stubSource) GetMembershipByUserAndOrg(ctx context.Context, userID, orgID string) (*domain.Membership, error) {
	return s.byUserOrg[userID+":"+orgID], nil
}

func (s *stubSource) ListMembershipsByUser(ctx context.Context, userID string) ([]*domain.Membership, error) {
	return s.byUser[userID], nil
}

type noopInvalidator struct{}

func (noopInvalidator) Invalidate(ctx context.Context, userID string) error { return nil }

func testResolver(t *testing.T) (*orgcontext.Resolver, *orgcontext.TokenCodec) {
	t.Helper()
	m := &domain.Membership{ID: "m1", UserID: "user-1", OrgID: "org-a", Role: domain.RoleSales}
	src := &stubSource{
		byUserOrg: map[string]*domain.Membership{"user-1:org-a": m},
		byUser:    map[string][]*domain.Membership{"user-1": {m}},
	}
	codec, err := orgcontext.NewTokenCodec([]byte("test-secret"), time.Hour)
	if err != nil {
		t.Fatalf("NewTokenCodec: %v", err)
	}
	return orgcontext.NewResolver(src, codec, noopInvalidator{}), codec
}

func TestIdentity_SnapshotsCallerIntoContext(t *testing.T) {
	resolver, _ := testResolver(t)
	var seen struct {
		ok     bool
		userID string
		orgID  string
	}
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, ok := CallerFrom(r.Context())
		seen.ok = ok
		seen.userID = c.UserID
		if c.Membership != nil {
			seen.orgID = c.Membership.OrgID
		}
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderUserID, "user-1")
	rec := httptest.NewRecorder()
	Identity(resolver, zerolog.Nop())(inner).ServeHTTP(rec, req)

	if !seen.ok {
		t.Fatal("caller not set in context")
	}
	if seen.userID != "user-1" || seen.orgID != "org-a" {
		t.Errorf("caller = (%q, %q), want (user-1, org-a)", seen.userID, seen.orgID)
	}
	if rec.Header().Get(HeaderOrgToken) == "" {
		t.Error("expected a fresh selection token when none was presented")
	}
}

func TestIdentity_ValidTokenNotReissued(t *testing.T) {
	resolver, codec := testResolver(t)
	token, err := codec.Mint("user-1", "org-a")
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderUserID, "user-1")
	req.Header.Set(HeaderOrgToken, token)
	rec := httptest.NewRecorder()
	Identity(resolver, zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).ServeHTTP(rec, req)

	if rec.Header().Get(HeaderOrgToken) != "" {
		t.Error("a still-valid token must not be re-minted")
	}
}

func TestIdentity_AnonymousPassesThroughWithoutCaller(t *testing.T) {
	resolver, _ := testResolver(t)
	var hadCaller bool
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hadCaller = CallerFrom(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	Identity(resolver, zerolog.Nop())(inner).ServeHTTP(rec, req)

	if hadCaller {
		t.Error("anonymous request must not carry a caller snapshot")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestIdentity_NoMembershipsStillReachesHandler(t *testing.T) {
	src := &stubSource{byUser: map[string][]*domain.Membership{}}
	codec, err := orgcontext.NewTokenCodec([]byte("test-secret"), time.Hour)
	if err != nil {
		t.Fatalf("NewTokenCodec: %v", err)
	}
	resolver := orgcontext.NewResolver(src, codec, noopInvalidator{})

	var caller struct {
		userID        string
		hasMembership bool
	}
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, _ := CallerFrom(r.Context())
		caller.userID = c.UserID
		caller.hasMembership = c.Membership != nil
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderUserID, "user-9")
	Identity(resolver, zerolog.Nop())(inner).ServeHTTP(httptest.NewRecorder(), req)

	if caller.userID != "user-9" {
		t.Errorf("user = %q, want user-9", caller.userID)
	}
	if caller.hasMembership {
		t.Error("caller with no memberships must have a nil membership snapshot")
	}
}
