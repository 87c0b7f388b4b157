package capability

import (
	"context"

	approvaldomain "lumina-crm/backend/internal/approval/domain"
	"lumina-crm/backend/internal/membership/domain"
)

// Evaluator decides whether a role holds the approval capability for an
// entity type. Approving is a stronger action than editing: passing the
// generic update permission is necessary but not sufficient to approve or
// request changes.
type Evaluator interface {
	// CanApprove reports whether role may approve or request changes on
	// entities of the given type.
	CanApprove(ctx context.Context, role domain.Role, entityType approvaldomain.EntityType) (bool, error)
}
