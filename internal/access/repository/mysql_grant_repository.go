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

// MySQLGrantRepository implements capability grant persistence for MySQL databases.
type MySQLGrantRepository struct {
	db *sql.DB
}

// Upsert inserts or replaces the grant for a (role, capability) pair.
// Re-granting replaces the stored level and constraints outright.
func (m *MySQLGrantRepository) Upsert(ctx context.Context, grant *accessDomain.Grant) error {
	querier := database.GetTx(ctx, m.db)

	roleID, err := grant.RoleID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal role id")
	}

	constraintsJSON, err := marshalConstraints(grant.Constraints)
	if err != nil {
		return err
	}

	var grantedBy []byte
	if grant.GrantedBy != nil {
		grantedBy, err = grant.GrantedBy.MarshalBinary()
		if err != nil {
			return apperrors.Wrap(err, "failed to marshal granted by")
		}
	}

	query := `INSERT INTO role_capability_grants (role_id, capability_key, access_level, constraints, granted_at, granted_by)
			  VALUES (?, ?, ?, ?, ?, ?)
			  ON DUPLICATE KEY UPDATE
			    access_level = VALUES(access_level),
			    constraints = VALUES(constraints),
			    granted_at = VALUES(granted_at),
			    granted_by = VALUES(granted_by)`

	_, err = querier.ExecContext(
		ctx,
		query,
		roleID,
		grant.CapabilityKey,
		grant.AccessLevel.String(),
		constraintsJSON,
		grant.GrantedAt,
		grantedBy,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to upsert grant")
	}

	return nil
}

// Get retrieves the active grant for a (role, capability) pair.
func (m *MySQLGrantRepository) Get(
	ctx context.Context,
	roleID uuid.UUID,
	capabilityKey string,
) (*accessDomain.Grant, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT role_id, capability_key, access_level, constraints, granted_at, granted_by
			  FROM role_capability_grants WHERE role_id = ? AND capability_key = ?`

	id, err := roleID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal role id")
	}

	grant, err := scanGrantRowMySQL(querier.QueryRowContext(ctx, query, id, capabilityKey))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, accessDomain.ErrGrantNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get grant")
	}

	return grant, nil
}

// Delete removes the grant for a (role, capability) pair. Returns whether a
// grant existed.
func (m *MySQLGrantRepository) Delete(
	ctx context.Context,
	roleID uuid.UUID,
	capabilityKey string,
) (bool, error) {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM role_capability_grants WHERE role_id = ? AND capability_key = ?`

	id, err := roleID.MarshalBinary()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to marshal role id")
	}

	result, err := querier.ExecContext(ctx, query, id, capabilityKey)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to delete grant")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to get rows affected")
	}

	return rowsAffected > 0, nil
}

// DeleteAllForRole removes every grant of a role.
func (m *MySQLGrantRepository) DeleteAllForRole(ctx context.Context, roleID uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM role_capability_grants WHERE role_id = ?`

	id, err := roleID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal role id")
	}

	if _, err := querier.ExecContext(ctx, query, id); err != nil {
		return apperrors.Wrap(err, "failed to delete grants for role")
	}

	return nil
}

// ListByRole retrieves all grants of a role ordered by capability key.
func (m *MySQLGrantRepository) ListByRole(
	ctx context.Context,
	roleID uuid.UUID,
) ([]*accessDomain.Grant, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT role_id, capability_key, access_level, constraints, granted_at, granted_by
			  FROM role_capability_grants WHERE role_id = ? ORDER BY capability_key`

	id, err := roleID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal role id")
	}

	rows, err := querier.QueryContext(ctx, query, id)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list grants")
	}
	defer rows.Close()

	var grants []*accessDomain.Grant
	for rows.Next() {
		grant, err := scanGrantRowMySQL(rows)
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

// NewMySQLGrantRepository creates a new MySQL Grant repository instance.
func NewMySQLGrantRepository(db *sql.DB) *MySQLGrantRepository {
	return &MySQLGrantRepository{db: db}
}
