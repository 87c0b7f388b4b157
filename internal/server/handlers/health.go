package handlers

import (
	"context"
	"net/http"
)

// Pinger reports storage readiness (e.g. *sql.DB).
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PolicyChecker reports readiness of the in-process capability policy engine.
type PolicyChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthHandler serves liveness/readiness. Nil dependencies are skipped so
// the handler works in partial wiring (tests, local runs without a DB).
type HealthHandler struct {
	db     Pinger
	policy PolicyChecker
}

func NewHealthHandler(db Pinger, policy PolicyChecker) *HealthHandler {
	return &HealthHandler{db: db, policy: policy}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok"}
	code := http.StatusOK

	if h.db != nil {
		if err := h.db.PingContext(r.Context()); err != nil {
			status["status"] = "degraded"
			status["database"] = "unreachable"
			code = http.StatusServiceUnavailable
		} else {
			status["database"] = "ok"
		}
	}
	if h.policy != nil {
		if err := h.policy.HealthCheck(r.Context()); err != nil {
			status["status"] = "degraded"
			status["policy"] = "failing"
			code = http.StatusServiceUnavailable
		} else {
			status["policy"] = "ok"
		}
	}

	writeJSON(w, code, status)
}
