// Package approval implements the content-approval state machine. A
// transition is admitted only after the caller passes the authorization gate
// for the entity's module and holds the approval capability; the state
// change itself commits through a compare-and-swap so concurrent reviewers
// surface a Conflict instead of silently clobbering each other.
package approval

import (
	"context"
	"strings"

	"lumina-crm/backend/internal/approval/capability"
	"lumina-crm/backend/internal/approval/domain"
	"lumina-crm/backend/internal/approval/repository"
	"lumina-crm/backend/internal/authz"
	"lumina-crm/backend/internal/platform/apperror"
)

// approveFrom and requestChangesFrom are the states each transition is
// defined from. APPROVED is deliberately absent from approveFrom: an
// approved item can only be reopened via request-changes, and approving it
// again is a validation error rather than a silent no-op.
var (
	approveFrom = map[domain.Status]bool{
		domain.StatusDraft:            true,
		domain.StatusInReview:         true,
		domain.StatusChangesRequested: true,
	}
	requestChangesFrom = map[domain.Status]bool{
		domain.StatusDraft:    true,
		domain.StatusInReview: true,
		domain.StatusApproved: true,
	}
)

// ModuleFor maps a reviewable entity type to the module its mutations are
// authorized under.
func ModuleFor(t domain.EntityType) authz.Module {
	switch t {
	case domain.EntityTypeAsset, domain.EntityTypeTask:
		return authz.ModuleMarketing
	default:
		return authz.Module("")
	}
}

type Workflow struct {
	repo         repository.Repository
	capabilities capability.Evaluator
}

func NewWorkflow(repo repository.Repository, capabilities capability.Evaluator) *Workflow {
	return &Workflow{repo: repo, capabilities: capabilities}
}

// Approve moves the entity to APPROVED. Allowed from DRAFT, IN_REVIEW, and
// CHANGES_REQUESTED. notes are optional and replace the stored review notes
// together with the status change.
func (w *Workflow) Approve(ctx context.Context, caller authz.Caller, entityType domain.EntityType, entityID, notes string) (*domain.Entity, error) {
	return w.transition(ctx, caller, entityType, entityID, notes, domain.StatusApproved, approveFrom, false)
}

// RequestChanges moves the entity to CHANGES_REQUESTED, reopening it if
// already approved. notes are mandatory: rejecting without feedback is
// disallowed regardless of role.
func (w *Workflow) RequestChanges(ctx context.Context, caller authz.Caller, entityType domain.EntityType, entityID, notes string) (*domain.Entity, error) {
	return w.transition(ctx, caller, entityType, entityID, notes, domain.StatusChangesRequested, requestChangesFrom, true)
}

func (w *Workflow) transition(ctx context.Context, caller authz.Caller, entityType domain.EntityType, entityID, notes string, target domain.Status, allowedFrom map[domain.Status]bool, notesRequired bool) (*domain.Entity, error) {
	if !entityType.Valid() {
		return nil, apperror.Newf(apperror.KindValidation, "unknown entity type %q", entityType)
	}

	// Authorization runs before the entity state is even inspected, so an
	// unauthorized caller learns nothing about the entity.
	membership, err := authz.Authorize(caller, ModuleFor(entityType), authz.ActionUpdate)
	if err != nil {
		return nil, err
	}
	allowed, err := w.capabilities.CanApprove(ctx, membership.Role, entityType)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "capability evaluation failed", err)
	}
	if !allowed {
		return nil, apperror.Newf(apperror.KindForbidden, "role %s may not review %ss", membership.Role, entityType)
	}

	if notesRequired && strings.TrimSpace(notes) == "" {
		return nil, apperror.New(apperror.KindValidation, "review notes are required when requesting changes").
			WithDetail("field", "review_notes")
	}

	entity, err := w.repo.GetByIDAndOrg(ctx, entityID, membership.OrgID)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "failed to load entity", err)
	}
	if entity == nil {
		return nil, apperror.Newf(apperror.KindNotFound, "%s not found", entityType)
	}
	if !allowedFrom[entity.Status] {
		return nil, apperror.Newf(apperror.KindValidation, "cannot move %s from %s to %s", entityType, entity.Status, target).
			WithDetail("current_status", string(entity.Status))
	}

	applied, err := w.repo.UpdateStatusCAS(ctx, entityID, membership.OrgID, entity.Status, target, notes)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "failed to commit transition", err)
	}
	if !applied {
		// Either the entity vanished or a concurrent reviewer moved it
		// first; re-read to tell the two apart.
		current, err := w.repo.GetByIDAndOrg(ctx, entityID, membership.OrgID)
		if err != nil {
			return nil, apperror.Wrap(apperror.KindInternal, "failed to reload entity", err)
		}
		if current == nil {
			return nil, apperror.Newf(apperror.KindNotFound, "%s not found", entityType)
		}
		return nil, apperror.Newf(apperror.KindConflict, "%s was updated concurrently", entityType).
			WithDetail("current_status", string(current.Status))
	}

	entity.Status = target
	entity.ReviewNotes = notes
	return entity, nil
}
