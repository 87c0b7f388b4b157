package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"lumina-crm/backend/internal/approval"
	"lumina-crm/backend/internal/approval/domain"
	"lumina-crm/backend/internal/platform/apperror"
	"lumina-crm/backend/internal/server/middleware"
)

// ApprovalHandler serves the approval mutation endpoint for one entity type.
// The router mounts one instance under /v1/assets and one under /v1/tasks.
type ApprovalHandler struct {
	workflow   *approval.Workflow
	entityType domain.EntityType
}

func NewApprovalHandler(workflow *approval.Workflow, entityType domain.EntityType) *ApprovalHandler {
	return &ApprovalHandler{workflow: workflow, entityType: entityType}
}

type approvalRequest struct {
	ApprovalStatus string `json:"approval_status"`
	ReviewNotes    string `json:"review_notes"`
}

type entitySummary struct {
	ID             string    `json:"id"`
	Type           string    `json:"type"`
	Title          string    `json:"title"`
	ApprovalStatus string    `json:"approval_status"`
	ReviewNotes    string    `json:"review_notes,omitempty"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Transition handles POST /v1/{assets|tasks}/{id}/approval. The target
// status selects the transition: APPROVED invokes approve,
// CHANGES_REQUESTED invokes request-changes. Any other status is a
// validation error — DRAFT and IN_REVIEW are owned by the editing flow, not
// the review flow.
func (h *ApprovalHandler) Transition(w http.ResponseWriter, r *http.Request) {
	entityID := chi.URLParam(r, "id")
	if entityID == "" {
		writeError(w, apperror.New(apperror.KindValidation, "entity id is required"))
		return
	}

	var req approvalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	caller, _ := middleware.CallerFrom(r.Context())

	var entity *domain.Entity
	var err error
	switch domain.Status(req.ApprovalStatus) {
	case domain.StatusApproved:
		entity, err = h.workflow.Approve(r.Context(), caller, h.entityType, entityID, req.ReviewNotes)
	case domain.StatusChangesRequested:
		entity, err = h.workflow.RequestChanges(r.Context(), caller, h.entityType, entityID, req.ReviewNotes)
	default:
		err = apperror.Newf(apperror.KindValidation, "approval_status must be %s or %s", domain.StatusApproved, domain.StatusChangesRequested).
			WithDetail("field", "approval_status")
	}
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, entitySummary{
		ID:             entity.ID,
		Type:           string(entity.Type),
		Title:          entity.Title,
		ApprovalStatus: string(entity.Status),
		ReviewNotes:    entity.ReviewNotes,
		UpdatedAt:      entity.UpdatedAt,
	})
}
