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

// PostgreSQLAssignmentRepository implements read access to user role
// assignments for PostgreSQL. Assignments are owned by the identity layer;
// this repository only queries them for evaluation and impact analysis.
type PostgreSQLAssignmentRepository struct {
	db *sql.DB
}

// GetActive retrieves the active role assignment of a user within an
// organization, resolved against the roles table.
func (p *PostgreSQLAssignmentRepository) GetActive(
	ctx context.Context,
	userID, organizationID uuid.UUID,
) (*accessDomain.Assignment, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ur.user_id, ur.organization_id, ur.role_id, r.role_key, r.is_system
			  FROM user_roles ur
			  JOIN roles r ON r.id = ur.role_id
			  WHERE ur.user_id = $1 AND ur.organization_id = $2 AND ur.is_active = TRUE`

	var assignment accessDomain.Assignment
	err := querier.QueryRowContext(ctx, query, userID, organizationID).Scan(
		&assignment.UserID,
		&assignment.OrganizationID,
		&assignment.RoleID,
		&assignment.RoleKey,
		&assignment.IsSystem,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, accessDomain.ErrAssignmentNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get role assignment")
	}

	return &assignment, nil
}

// CountByRole counts the active assignments referencing a role.
func (p *PostgreSQLAssignmentRepository) CountByRole(
	ctx context.Context,
	roleID uuid.UUID,
) (int, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT COUNT(*) FROM user_roles WHERE role_id = $1 AND is_active = TRUE`

	var count int
	if err := querier.QueryRowContext(ctx, query, roleID).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count role assignments")
	}

	return count, nil
}

// BreakdownByRole retrieves per-organization active assignment counts for a
// role, ordered by descending user count.
func (p *PostgreSQLAssignmentRepository) BreakdownByRole(
	ctx context.Context,
	roleID uuid.UUID,
) ([]accessDomain.OrgImpact, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT organization_id, COUNT(*) AS user_count
			  FROM user_roles WHERE role_id = $1 AND is_active = TRUE
			  GROUP BY organization_id
			  ORDER BY user_count DESC, organization_id`

	rows, err := querier.QueryContext(ctx, query, roleID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get role assignment breakdown")
	}
	defer rows.Close()

	var breakdown []accessDomain.OrgImpact
	for rows.Next() {
		var impact accessDomain.OrgImpact
		if err := rows.Scan(&impact.OrganizationID, &impact.UserCount); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan role assignment breakdown")
		}
		breakdown = append(breakdown, impact)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate role assignment breakdown")
	}

	return breakdown, nil
}

// NewPostgreSQLAssignmentRepository creates a new PostgreSQL Assignment repository.
func NewPostgreSQLAssignmentRepository(db *sql.DB) *PostgreSQLAssignmentRepository {
	return &PostgreSQLAssignmentRepository{db: db}
}
