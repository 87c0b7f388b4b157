package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"lumina-crm/backend/internal/membership/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a membership repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const membershipColumns = "id, user_id, org_id, role, created_at"

// GetMembershipByUserAndOrg returns the membership for the given user and org, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetMembershipByUserAndOrg(ctx context.Context, userID, orgID string) (*domain.Membership, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+membershipColumns+" FROM memberships WHERE user_id = $1 AND org_id = $2",
		userID, orgID)
	m, err := scanMembership(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return m, nil
}

// ListMembershipsByUser returns all memberships held by the user, oldest
// first. This insertion order is what makes ResolveActive's first-membership
// fallback deterministic.
func (r *PostgresRepository) ListMembershipsByUser(ctx context.Context, userID string) ([]*domain.Membership, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+membershipColumns+" FROM memberships WHERE user_id = $1 ORDER BY created_at, id",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMemberships(rows)
}

// ListMembershipsByOrg returns all memberships for the given org. Returns (nil, error) only on database errors.
func (r *PostgresRepository) ListMembershipsByOrg(ctx context.Context, orgID string) ([]*domain.Membership, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+membershipColumns+" FROM memberships WHERE org_id = $1 ORDER BY created_at, id",
		orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMemberships(rows)
}

// CreateMembership persists the membership, generating an ID when unset.
func (r *PostgresRepository) CreateMembership(ctx context.Context, m *domain.Membership) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO memberships (id, user_id, org_id, role, created_at) VALUES ($1, $2, $3, $4, $5)",
		m.ID, m.UserID, m.OrgID, string(m.Role), m.CreatedAt)
	return err
}

// DeleteByUserAndOrg removes the user's membership in the org. Deleting a
// missing membership is not an error.
func (r *PostgresRepository) DeleteByUserAndOrg(ctx context.Context, userID, orgID string) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM memberships WHERE user_id = $1 AND org_id = $2",
		userID, orgID)
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMembership(row rowScanner) (*domain.Membership, error) {
	var m domain.Membership
	var role string
	if err := row.Scan(&m.ID, &m.UserID, &m.OrgID, &role, &m.CreatedAt); err != nil {
		return nil, err
	}
	m.Role = domain.Role(role)
	return &m, nil
}

func collectMemberships(rows *sql.Rows) ([]*domain.Membership, error) {
	var out []*domain.Membership
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
