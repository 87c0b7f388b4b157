package handlers

import (
	"net/http"
	"strconv"

	"lumina-crm/backend/internal/authz"
	"lumina-crm/backend/internal/platform/apperror"
	"lumina-crm/backend/internal/server/middleware"
)

// AuthzHandler serves capability checks: callers probe whether an action
// would be permitted before rendering a control or attempting the full
// operation.
type AuthzHandler struct{}

func NewAuthzHandler() *AuthzHandler {
	return &AuthzHandler{}
}

type checkRequest struct {
	Module string `json:"module"`
	Action string `json:"action"`
}

type checkResponse struct {
	Allowed bool `json:"allowed"`
}

// Check handles POST /v1/authz/check. A denial is a 200 with allowed=false —
// probing a permission you lack is not itself forbidden — but a missing
// identity is still 401.
func (h *AuthzHandler) Check(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	module, action := authz.Module(req.Module), authz.Action(req.Action)
	if !module.Valid() {
		writeError(w, apperror.Newf(apperror.KindValidation, "unknown module %q", req.Module).WithDetail("field", "module"))
		return
	}
	if !action.Valid() {
		writeError(w, apperror.Newf(apperror.KindValidation, "unknown action %q", req.Action).WithDetail("field", "action"))
		return
	}

	caller, _ := middleware.CallerFrom(r.Context())
	_, err := authz.Authorize(caller, module, action)
	allowed := err == nil
	if err != nil && apperror.KindOf(err) != apperror.KindForbidden {
		writeError(w, err)
		return
	}

	middleware.AuthzDecisions.WithLabelValues(req.Module, req.Action, strconv.FormatBool(allowed)).Inc()
	writeJSON(w, http.StatusOK, checkResponse{Allowed: allowed})
}
