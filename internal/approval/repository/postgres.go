package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"lumina-crm/backend/internal/approval/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an approvable-entity repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByIDAndOrg returns the entity for id within orgID, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByIDAndOrg(ctx context.Context, id, orgID string) (*domain.Entity, error) {
	var e domain.Entity
	var typ, status string
	var notes sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT id, org_id, entity_type, title, approval_status, review_notes, created_at, updated_at
		 FROM approvable_entities WHERE id = $1 AND org_id = $2`,
		id, orgID).
		Scan(&e.ID, &e.OrgID, &typ, &e.Title, &status, &notes, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	e.Type = domain.EntityType(typ)
	e.Status = domain.Status(status)
	e.ReviewNotes = notes.String
	return &e, nil
}

// UpdateStatusCAS sets status and notes in one statement, guarded by the
// expected current status. Zero rows affected means either the entity is
// absent or a concurrent transition already moved it; the caller re-reads to
// tell the two apart.
func (r *PostgresRepository) UpdateStatusCAS(ctx context.Context, id, orgID string, expected, next domain.Status, notes string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE approvable_entities
		 SET approval_status = $4, review_notes = $5, updated_at = now()
		 WHERE id = $1 AND org_id = $2 AND approval_status = $3`,
		id, orgID, string(expected), string(next), notes)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// Create persists the entity, generating an ID when unset. OrgID and Type
// must be set by the caller.
func (r *PostgresRepository) Create(ctx context.Context, e *domain.Entity) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO approvable_entities (id, org_id, entity_type, title, approval_status, review_notes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		e.ID, e.OrgID, string(e.Type), e.Title, string(e.Status), e.ReviewNotes, e.CreatedAt, e.UpdatedAt)
	return err
}
