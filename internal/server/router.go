// Package server wires the HTTP router: middleware chain, core handlers,
// and operational endpoints.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"lumina-crm/backend/internal/approval"
	approvaldomain "lumina-crm/backend/internal/approval/domain"
	"lumina-crm/backend/internal/orgcontext"
	orgrepo "lumina-crm/backend/internal/organization/repository"
	"lumina-crm/backend/internal/server/handlers"
	"lumina-crm/backend/internal/server/middleware"
)

// Deps holds the dependencies the router hands to handlers.
type Deps struct {
	Resolver *orgcontext.Resolver
	Workflow *approval.Workflow
	// Orgs enriches membership listings with organization names. May be nil.
	Orgs orgrepo.Repository
	// HealthPinger is used for readiness (e.g. *sql.DB). If nil, the DB check is skipped.
	HealthPinger handlers.Pinger
	// HealthPolicyChecker is the capability policy engine. If nil, the policy check is skipped.
	HealthPolicyChecker handlers.PolicyChecker
	Log                 zerolog.Logger
	// RateLimit is a middleware from NewIPRateLimiter; nil disables limiting.
	RateLimit func(http.Handler) http.Handler
}

// NewRouter builds the HTTP handler. Middleware order matters: the identity
// snapshot is taken before logging so request logs carry user and org, and
// rate limiting runs before identity so floods are shed without touching
// storage.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimid.RequestID)
	r.Use(chimid.RealIP)
	r.Use(chimid.Recoverer)
	if deps.RateLimit != nil {
		r.Use(deps.RateLimit)
	}
	r.Use(middleware.Identity(deps.Resolver, deps.Log))
	r.Use(middleware.RequestLogger(deps.Log))
	r.Use(middleware.Prometheus)

	health := handlers.NewHealthHandler(deps.HealthPinger, deps.HealthPolicyChecker)
	r.Get("/health", health.Check)
	r.Handle("/metrics", promhttp.Handler())

	authzHandler := handlers.NewAuthzHandler()
	orgs := handlers.NewOrganizationsHandler(deps.Resolver, deps.Orgs)
	assets := handlers.NewApprovalHandler(deps.Workflow, approvaldomain.EntityTypeAsset)
	tasks := handlers.NewApprovalHandler(deps.Workflow, approvaldomain.EntityTypeTask)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/authz/check", authzHandler.Check)
		r.Get("/organizations/memberships", orgs.ListMemberships)
		r.Post("/organizations/switch", orgs.Switch)
		r.Post("/assets/{id}/approval", assets.Transition)
		r.Post("/tasks/{id}/approval", tasks.Transition)
	})

	return otelhttp.NewHandler(r, "lumina-core")
}
