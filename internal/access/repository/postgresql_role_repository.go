package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	accessDomain "github.com/allisson/authz/internal/access/domain"
	"github.com/allisson/authz/internal/database"
	apperrors "github.com/allisson/authz/internal/errors"
)

// PostgreSQLRoleRepository implements Role and CustomRoleMeta persistence for
// PostgreSQL. Uses native UUID types with transaction support via database.GetTx().
type PostgreSQLRoleRepository struct {
	db *sql.DB
}

// Create inserts a new Role. Role keys are never reused; an existing key
// yields ErrRoleKeyExists.
func (p *PostgreSQLRoleRepository) Create(ctx context.Context, role *accessDomain.Role) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO roles (id, role_key, name, description, is_system, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  ON CONFLICT (role_key) DO NOTHING`

	result, err := querier.ExecContext(
		ctx,
		query,
		role.ID,
		role.RoleKey,
		role.Name,
		role.Description,
		role.IsSystem,
		role.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create role")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rowsAffected == 0 {
		return accessDomain.ErrRoleKeyExists
	}

	return nil
}

// Get retrieves a Role by ID.
func (p *PostgreSQLRoleRepository) Get(ctx context.Context, roleID uuid.UUID) (*accessDomain.Role, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, role_key, name, description, is_system, created_at FROM roles WHERE id = $1`

	var role accessDomain.Role
	err := querier.QueryRowContext(ctx, query, roleID).Scan(
		&role.ID,
		&role.RoleKey,
		&role.Name,
		&role.Description,
		&role.IsSystem,
		&role.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, accessDomain.ErrRoleNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get role")
	}

	return &role, nil
}

// GetByKey retrieves a Role by its immutable role key.
func (p *PostgreSQLRoleRepository) GetByKey(ctx context.Context, roleKey string) (*accessDomain.Role, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, role_key, name, description, is_system, created_at FROM roles WHERE role_key = $1`

	var role accessDomain.Role
	err := querier.QueryRowContext(ctx, query, roleKey).Scan(
		&role.ID,
		&role.RoleKey,
		&role.Name,
		&role.Description,
		&role.IsSystem,
		&role.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, accessDomain.ErrRoleNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get role by key")
	}

	return &role, nil
}

// UpdateDetails modifies a role's name and description.
func (p *PostgreSQLRoleRepository) UpdateDetails(ctx context.Context, role *accessDomain.Role) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE roles SET name = $1, description = $2 WHERE id = $3`

	result, err := querier.ExecContext(ctx, query, role.Name, role.Description, role.ID)
	if err != nil {
		return apperrors.Wrap(err, "failed to update role")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rowsAffected == 0 {
		return accessDomain.ErrRoleNotFound
	}

	return nil
}

// Delete removes a Role by ID. Grants and metadata cascade at the schema level.
func (p *PostgreSQLRoleRepository) Delete(ctx context.Context, roleID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM roles WHERE id = $1`

	result, err := querier.ExecContext(ctx, query, roleID)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete role")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rowsAffected == 0 {
		return accessDomain.ErrRoleNotFound
	}

	return nil
}

// ListCustom retrieves non-system roles ordered by creation descending with
// pagination support.
func (p *PostgreSQLRoleRepository) ListCustom(
	ctx context.Context,
	offset, limit int,
) ([]*accessDomain.Role, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, role_key, name, description, is_system, created_at
			  FROM roles WHERE is_system = FALSE
			  ORDER BY created_at DESC, id DESC
			  OFFSET $1 LIMIT $2`

	rows, err := querier.QueryContext(ctx, query, offset, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list custom roles")
	}
	defer rows.Close()

	var roles []*accessDomain.Role
	for rows.Next() {
		var role accessDomain.Role
		if err := rows.Scan(
			&role.ID,
			&role.RoleKey,
			&role.Name,
			&role.Description,
			&role.IsSystem,
			&role.CreatedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan role")
		}
		roles = append(roles, &role)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate roles")
	}

	return roles, nil
}

// CreateMeta inserts the lineage metadata for a custom role.
func (p *PostgreSQLRoleRepository) CreateMeta(
	ctx context.Context,
	meta *accessDomain.CustomRoleMeta,
) error {
	querier := database.GetTx(ctx, p.db)

	templateSourcesJSON, err := json.Marshal(meta.TemplateSources)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal template sources")
	}

	customizationsJSON, err := json.Marshal(meta.Customizations)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal customizations")
	}

	query := `INSERT INTO custom_role_meta (role_id, template_sources, is_template, customizations, created_at)
			  VALUES ($1, $2, $3, $4, $5)`

	_, err = querier.ExecContext(
		ctx,
		query,
		meta.RoleID,
		templateSourcesJSON,
		meta.IsTemplate,
		customizationsJSON,
		meta.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create custom role meta")
	}

	return nil
}

// GetMeta retrieves the lineage metadata for a custom role.
func (p *PostgreSQLRoleRepository) GetMeta(
	ctx context.Context,
	roleID uuid.UUID,
) (*accessDomain.CustomRoleMeta, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT role_id, template_sources, is_template, customizations, created_at
			  FROM custom_role_meta WHERE role_id = $1`

	var meta accessDomain.CustomRoleMeta
	var templateSourcesJSON []byte
	var customizationsJSON []byte

	err := querier.QueryRowContext(ctx, query, roleID).Scan(
		&meta.RoleID,
		&templateSourcesJSON,
		&meta.IsTemplate,
		&customizationsJSON,
		&meta.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, accessDomain.ErrCustomRoleNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get custom role meta")
	}

	if err := json.Unmarshal(templateSourcesJSON, &meta.TemplateSources); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal template sources")
	}
	if err := json.Unmarshal(customizationsJSON, &meta.Customizations); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal customizations")
	}

	return &meta, nil
}

// SetMetaIsTemplate marks a custom role as promoted to a reusable template.
func (p *PostgreSQLRoleRepository) SetMetaIsTemplate(
	ctx context.Context,
	roleID uuid.UUID,
	isTemplate bool,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE custom_role_meta SET is_template = $1 WHERE role_id = $2`

	result, err := querier.ExecContext(ctx, query, isTemplate, roleID)
	if err != nil {
		return apperrors.Wrap(err, "failed to update custom role meta")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rowsAffected == 0 {
		return accessDomain.ErrCustomRoleNotFound
	}

	return nil
}

// NewPostgreSQLRoleRepository creates a new PostgreSQL Role repository.
func NewPostgreSQLRoleRepository(db *sql.DB) *PostgreSQLRoleRepository {
	return &PostgreSQLRoleRepository{db: db}
}
