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

// MySQLRoleRepository implements Role and CustomRoleMeta persistence for
// MySQL databases. UUIDs are stored as BINARY(16).
type MySQLRoleRepository struct {
	db *sql.DB
}

// Create inserts a new Role. An existing role key yields ErrRoleKeyExists.
func (m *MySQLRoleRepository) Create(ctx context.Context, role *accessDomain.Role) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT IGNORE INTO roles (id, role_key, name, description, is_system, created_at)
			  VALUES (?, ?, ?, ?, ?, ?)`

	id, err := role.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal role id")
	}

	result, err := querier.ExecContext(
		ctx,
		query,
		id,
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
func (m *MySQLRoleRepository) Get(ctx context.Context, roleID uuid.UUID) (*accessDomain.Role, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, role_key, name, description, is_system, created_at FROM roles WHERE id = ?`

	id, err := roleID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal role id")
	}

	return m.scanRole(querier.QueryRowContext(ctx, query, id), "failed to get role")
}

// GetByKey retrieves a Role by its immutable role key.
func (m *MySQLRoleRepository) GetByKey(ctx context.Context, roleKey string) (*accessDomain.Role, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, role_key, name, description, is_system, created_at FROM roles WHERE role_key = ?`

	return m.scanRole(querier.QueryRowContext(ctx, query, roleKey), "failed to get role by key")
}

func (m *MySQLRoleRepository) scanRole(row rowScanner, wrapMsg string) (*accessDomain.Role, error) {
	var role accessDomain.Role
	var id []byte

	err := row.Scan(
		&id,
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
		return nil, apperrors.Wrap(err, wrapMsg)
	}

	if err := role.ID.UnmarshalBinary(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal role id")
	}

	return &role, nil
}

// UpdateDetails modifies a role's name and description.
func (m *MySQLRoleRepository) UpdateDetails(ctx context.Context, role *accessDomain.Role) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE roles SET name = ?, description = ? WHERE id = ?`

	id, err := role.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal role id")
	}

	// MySQL reports zero affected rows when the stored values already match,
	// so existence cannot be inferred from the row count here.
	if _, err := querier.ExecContext(ctx, query, role.Name, role.Description, id); err != nil {
		return apperrors.Wrap(err, "failed to update role")
	}

	return nil
}

// Delete removes a Role by ID. Grants and metadata cascade at the schema level.
func (m *MySQLRoleRepository) Delete(ctx context.Context, roleID uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM roles WHERE id = ?`

	id, err := roleID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal role id")
	}

	result, err := querier.ExecContext(ctx, query, id)
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
func (m *MySQLRoleRepository) ListCustom(
	ctx context.Context,
	offset, limit int,
) ([]*accessDomain.Role, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, role_key, name, description, is_system, created_at
			  FROM roles WHERE is_system = FALSE
			  ORDER BY created_at DESC, id DESC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list custom roles")
	}
	defer rows.Close()

	var roles []*accessDomain.Role
	for rows.Next() {
		var role accessDomain.Role
		var id []byte
		if err := rows.Scan(
			&id,
			&role.RoleKey,
			&role.Name,
			&role.Description,
			&role.IsSystem,
			&role.CreatedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan role")
		}
		if err := role.ID.UnmarshalBinary(id); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal role id")
		}
		roles = append(roles, &role)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate roles")
	}

	return roles, nil
}

// CreateMeta inserts the lineage metadata for a custom role.
func (m *MySQLRoleRepository) CreateMeta(
	ctx context.Context,
	meta *accessDomain.CustomRoleMeta,
) error {
	querier := database.GetTx(ctx, m.db)

	roleID, err := meta.RoleID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal role id")
	}

	templateSourcesJSON, err := json.Marshal(meta.TemplateSources)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal template sources")
	}

	customizationsJSON, err := json.Marshal(meta.Customizations)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal customizations")
	}

	query := `INSERT INTO custom_role_meta (role_id, template_sources, is_template, customizations, created_at)
			  VALUES (?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		roleID,
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
func (m *MySQLRoleRepository) GetMeta(
	ctx context.Context,
	roleID uuid.UUID,
) (*accessDomain.CustomRoleMeta, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT role_id, template_sources, is_template, customizations, created_at
			  FROM custom_role_meta WHERE role_id = ?`

	id, err := roleID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal role id")
	}

	var meta accessDomain.CustomRoleMeta
	var storedRoleID []byte
	var templateSourcesJSON []byte
	var customizationsJSON []byte

	err = querier.QueryRowContext(ctx, query, id).Scan(
		&storedRoleID,
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

	if err := meta.RoleID.UnmarshalBinary(storedRoleID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal role id")
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
func (m *MySQLRoleRepository) SetMetaIsTemplate(
	ctx context.Context,
	roleID uuid.UUID,
	isTemplate bool,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE custom_role_meta SET is_template = ? WHERE role_id = ?`

	id, err := roleID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal role id")
	}

	// MySQL reports zero affected rows when the stored value already matches,
	// so existence cannot be inferred from the row count here.
	if _, err := querier.ExecContext(ctx, query, isTemplate, id); err != nil {
		return apperrors.Wrap(err, "failed to update custom role meta")
	}

	return nil
}

// NewMySQLRoleRepository creates a new MySQL Role repository instance.
func NewMySQLRoleRepository(db *sql.DB) *MySQLRoleRepository {
	return &MySQLRoleRepository{db: db}
}
