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

// MySQLAssignmentRepository implements read access to user role assignments
// for MySQL databases.
type MySQLAssignmentRepository struct {
	db *sql.DB
}

// GetActive retrieves the active role assignment of a user within an
// organization, resolved against the roles table.
func (m *MySQLAssignmentRepository) GetActive(
	ctx context.Context,
	userID, organizationID uuid.UUID,
) (*accessDomain.Assignment, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ur.user_id, ur.organization_id, ur.role_id, r.role_key, r.is_system
			  FROM user_roles ur
			  JOIN roles r ON r.id = ur.role_id
			  WHERE ur.user_id = ? AND ur.organization_id = ? AND ur.is_active = TRUE`

	userIDBytes, err := userID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal user id")
	}

	orgIDBytes, err := organizationID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal organization id")
	}

	var assignment accessDomain.Assignment
	var storedUserID, storedOrgID, storedRoleID []byte

	err = querier.QueryRowContext(ctx, query, userIDBytes, orgIDBytes).Scan(
		&storedUserID,
		&storedOrgID,
		&storedRoleID,
		&assignment.RoleKey,
		&assignment.IsSystem,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, accessDomain.ErrAssignmentNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get role assignment")
	}

	if err := assignment.UserID.UnmarshalBinary(storedUserID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal user id")
	}
	if err := assignment.OrganizationID.UnmarshalBinary(storedOrgID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal organization id")
	}
	if err := assignment.RoleID.UnmarshalBinary(storedRoleID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal role id")
	}

	return &assignment, nil
}

// CountByRole counts the active assignments referencing a role.
func (m *MySQLAssignmentRepository) CountByRole(
	ctx context.Context,
	roleID uuid.UUID,
) (int, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT COUNT(*) FROM user_roles WHERE role_id = ? AND is_active = TRUE`

	id, err := roleID.MarshalBinary()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to marshal role id")
	}

	var count int
	if err := querier.QueryRowContext(ctx, query, id).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count role assignments")
	}

	return count, nil
}

// BreakdownByRole retrieves per-organization active assignment counts for a
// role, ordered by descending user count.
func (m *MySQLAssignmentRepository) BreakdownByRole(
	ctx context.Context,
	roleID uuid.UUID,
) ([]accessDomain.OrgImpact, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT organization_id, COUNT(*) AS user_count
			  FROM user_roles WHERE role_id = ? AND is_active = TRUE
			  GROUP BY organization_id
			  ORDER BY user_count DESC, organization_id`

	id, err := roleID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal role id")
	}

	rows, err := querier.QueryContext(ctx, query, id)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get role assignment breakdown")
	}
	defer rows.Close()

	var breakdown []accessDomain.OrgImpact
	for rows.Next() {
		var impact accessDomain.OrgImpact
		var orgID []byte
		if err := rows.Scan(&orgID, &impact.UserCount); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan role assignment breakdown")
		}
		if err := impact.OrganizationID.UnmarshalBinary(orgID); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal organization id")
		}
		breakdown = append(breakdown, impact)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate role assignment breakdown")
	}

	return breakdown, nil
}

// NewMySQLAssignmentRepository creates a new MySQL Assignment repository instance.
func NewMySQLAssignmentRepository(db *sql.DB) *MySQLAssignmentRepository {
	return &MySQLAssignmentRepository{db: db}
}
