package repository

import (
	"context"

	"lumina-crm/backend/internal/approval/domain"
)

// Repository defines persistence for reviewable entities. The workflow's
// sole write primitive is the compare-and-swap UpdateStatusCAS; there is no
// unconditional status write.
type Repository interface {
	// GetByIDAndOrg returns the entity, or nil if no entity with that id
	// exists in the given org. Entities in other orgs are indistinguishable
	// from absent ones.
	GetByIDAndOrg(ctx context.Context, id, orgID string) (*domain.Entity, error)
	// UpdateStatusCAS atomically sets status and review notes if and only if
	// the entity is currently in expected status. Returns true when the swap
	// applied, false when the row exists but its status no longer matches.
	UpdateStatusCAS(ctx context.Context, id, orgID string, expected, next domain.Status, notes string) (bool, error)
	Create(ctx context.Context, e *domain.Entity) error
}
