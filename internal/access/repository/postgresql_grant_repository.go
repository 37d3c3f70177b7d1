package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	accessDomain "github.com/allisson/authz/internal/access/domain"
	"github.com/allisson/authz/internal/database"
	apperrors "github.com/allisson/authz/internal/errors"
)

// PostgreSQLGrantRepository implements capability grant persistence for PostgreSQL.
type PostgreSQLGrantRepository struct {
	db *sql.DB
}

// Upsert inserts or replaces the grant for a (role, capability) pair.
// Re-granting replaces the stored level and constraints outright, it never
// merges with the previous grant.
func (p *PostgreSQLGrantRepository) Upsert(ctx context.Context, grant *accessDomain.Grant) error {
	querier := database.GetTx(ctx, p.db)

	constraintsJSON, err := marshalConstraints(grant.Constraints)
	if err != nil {
		return err
	}

	query := `INSERT INTO role_capability_grants (role_id, capability_key, access_level, constraints, granted_at, granted_by)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  ON CONFLICT (role_id, capability_key) DO UPDATE SET
			    access_level = EXCLUDED.access_level,
			    constraints = EXCLUDED.constraints,
			    granted_at = EXCLUDED.granted_at,
			    granted_by = EXCLUDED.granted_by`

	_, err = querier.ExecContext(
		ctx,
		query,
		grant.RoleID,
		grant.CapabilityKey,
		grant.AccessLevel.String(),
		constraintsJSON,
		grant.GrantedAt,
		grant.GrantedBy,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to upsert grant")
	}

	return nil
}

// Get retrieves the active grant for a (role, capability) pair.
func (p *PostgreSQLGrantRepository) Get(
	ctx context.Context,
	roleID uuid.UUID,
	capabilityKey string,
) (*accessDomain.Grant, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT role_id, capability_key, access_level, constraints, granted_at, granted_by
			  FROM role_capability_grants WHERE role_id = $1 AND capability_key = $2`

	grant, err := scanGrantRow(querier.QueryRowContext(ctx, query, roleID, capabilityKey))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, accessDomain.ErrGrantNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get grant")
	}

	return grant, nil
}

// Delete removes the grant for a (role, capability) pair. Returns whether a
// grant existed so callers can keep revocation idempotent while still
// reporting what happened.
func (p *PostgreSQLGrantRepository) Delete(
	ctx context.Context,
	roleID uuid.UUID,
	capabilityKey string,
) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM role_capability_grants WHERE role_id = $1 AND capability_key = $2`

	result, err := querier.ExecContext(ctx, query, roleID, capabilityKey)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to delete grant")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to get rows affected")
	}

	return rowsAffected > 0, nil
}

// DeleteAllForRole removes every grant of a role. Used for the destructive
// replace semantics of full capability-set updates.
func (p *PostgreSQLGrantRepository) DeleteAllForRole(ctx context.Context, roleID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM role_capability_grants WHERE role_id = $1`

	if _, err := querier.ExecContext(ctx, query, roleID); err != nil {
		return apperrors.Wrap(err, "failed to delete grants for role")
	}

	return nil
}

// ListByRole retrieves all grants of a role ordered by capability key.
func (p *PostgreSQLGrantRepository) ListByRole(
	ctx context.Context,
	roleID uuid.UUID,
) ([]*accessDomain.Grant, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT role_id, capability_key, access_level, constraints, granted_at, granted_by
			  FROM role_capability_grants WHERE role_id = $1 ORDER BY capability_key`

	rows, err := querier.QueryContext(ctx, query, roleID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list grants")
	}
	defer rows.Close()

	var grants []*accessDomain.Grant
	for rows.Next() {
		grant, err := scanGrantRow(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan grant")
		}
		grants = append(grants, grant)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate grants")
	}

	return grants, nil
}

// NewPostgreSQLGrantRepository creates a new PostgreSQL Grant repository.
func NewPostgreSQLGrantRepository(db *sql.DB) *PostgreSQLGrantRepository {
	return &PostgreSQLGrantRepository{db: db}
}
