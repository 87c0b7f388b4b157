package middleware

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"lumina-crm/backend/internal/authz"
	"lumina-crm/backend/internal/orgcontext"
	"lumina-crm/backend/internal/platform/apperror"
)

// Header names for the identity the fronting authenticator injects and the
// client-held selection token. Neither is trusted on its own: the user id is
// set by the auth layer after credential verification (out of scope here),
// and the selection token is re-validated against stored memberships on
// every request.
const (
	HeaderUserID   = "X-User-ID"
	HeaderOrgToken = "X-Org-Token"
)

// Identity snapshots the caller for the request: it reads the authenticated
// user id, resolves the active membership exactly once, and stores the
// result in context. A switch landing mid-flight therefore cannot change
// what this request is authorized against. When resolution re-mints the
// selection token (fallback after leaving an org, or first request), the
// fresh token is returned on the response.
func Identity(resolver *orgcontext.Resolver, log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := r.Header.Get(HeaderUserID)
			if userID == "" {
				// Anonymous: handlers decide whether the route needs identity.
				next.ServeHTTP(w, r)
				return
			}

			caller := authz.Caller{UserID: userID}
			token := r.Header.Get(HeaderOrgToken)
			m, fresh, err := resolver.ResolveActive(r.Context(), userID, token)
			switch {
			case err == nil:
				caller.Membership = m
				if fresh != token {
					w.Header().Set(HeaderOrgToken, fresh)
				}
			case errors.Is(err, orgcontext.ErrNoMembership):
				// Caller has no usable tenant; the gate answers Forbidden.
			default:
				log.Error().Err(err).Str("user_id", userID).Msg("active membership resolution failed")
				writeMiddlewareError(w, apperror.Wrap(apperror.KindInternal, "could not resolve organization context", err))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
		})
	}
}

func writeMiddlewareError(w http.ResponseWriter, err error) {
	var e *apperror.Error
	if !errors.As(err, &e) {
		e = apperror.New(apperror.KindInternal, "internal error")
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apperror.HTTPStatus(e))
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]interface{}{"code": e.Code, "message": e.Message},
	})
}
