package handlers

import (
	"net/http"
	"time"

	"lumina-crm/backend/internal/orgcontext"
	orgrepo "lumina-crm/backend/internal/organization/repository"
	"lumina-crm/backend/internal/platform/apperror"
	"lumina-crm/backend/internal/server/middleware"
)

// OrganizationsHandler serves membership listing and active-organization
// switching.
type OrganizationsHandler struct {
	resolver *orgcontext.Resolver
	orgs     orgrepo.Repository
}

func NewOrganizationsHandler(resolver *orgcontext.Resolver, orgs orgrepo.Repository) *OrganizationsHandler {
	return &OrganizationsHandler{resolver: resolver, orgs: orgs}
}

type membershipSummary struct {
	OrgID     string    `json:"organization_id"`
	OrgName   string    `json:"organization_name,omitempty"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// ListMemberships handles GET /v1/organizations/memberships.
func (h *OrganizationsHandler) ListMemberships(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFrom(r.Context())
	if !ok || caller.UserID == "" {
		writeError(w, apperror.New(apperror.KindUnauthenticated, "authentication required"))
		return
	}

	list, err := h.resolver.AvailableMemberships(r.Context(), caller.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]membershipSummary, len(list))
	for i, m := range list {
		out[i] = membershipSummary{
			OrgID:     m.OrgID,
			Role:      string(m.Role),
			Active:    caller.Membership != nil && caller.Membership.OrgID == m.OrgID,
			CreatedAt: m.CreatedAt,
		}
		if h.orgs != nil {
			if org, err := h.orgs.GetOrganizationByID(r.Context(), m.OrgID); err == nil && org != nil {
				out[i].OrgName = org.Name
			}
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"memberships": out})
}

type switchRequest struct {
	OrganizationID string `json:"organization_id"`
}

type switchResponse struct {
	OrganizationID string `json:"organization_id"`
	Role           string `json:"role"`
}

// Switch handles POST /v1/organizations/switch. On success the new
// selection token is returned in the X-Org-Token header and the
// X-Tenant-Cache: stale header tells the client every tenant-scoped cache it
// holds is no longer trustworthy.
func (h *OrganizationsHandler) Switch(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFrom(r.Context())
	if !ok || caller.UserID == "" {
		writeError(w, apperror.New(apperror.KindUnauthenticated, "authentication required"))
		return
	}

	var req switchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.OrganizationID == "" {
		writeError(w, apperror.New(apperror.KindValidation, "organization_id is required").WithDetail("field", "organization_id"))
		return
	}

	m, token, err := h.resolver.SwitchActive(r.Context(), caller.UserID, req.OrganizationID)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set(middleware.HeaderOrgToken, token)
	w.Header().Set("X-Tenant-Cache", "stale")
	writeJSON(w, http.StatusOK, switchResponse{OrganizationID: m.OrgID, Role: string(m.Role)})
}
