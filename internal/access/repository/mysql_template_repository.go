package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	accessDomain "github.com/allisson/authz/internal/access/domain"
	"github.com/allisson/authz/internal/database"
	apperrors "github.com/allisson/authz/internal/errors"
)

// MySQLTemplateRepository implements Template persistence for MySQL databases.
// Templates are immutable once stored; the repository exposes no update or
// delete operations.
type MySQLTemplateRepository struct {
	db *sql.DB
}

// CreateIfMissing inserts a Template unless its key already exists. Returns
// true when a row was inserted.
func (m *MySQLTemplateRepository) CreateIfMissing(
	ctx context.Context,
	template *accessDomain.Template,
) (bool, error) {
	querier := database.GetTx(ctx, m.db)

	capabilitiesJSON, err := json.Marshal(template.Capabilities)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to marshal template capabilities")
	}

	query := `INSERT IGNORE INTO role_templates (template_key, name, description, capabilities, is_builtin, created_at)
			  VALUES (?, ?, ?, ?, ?, ?)`

	result, err := querier.ExecContext(
		ctx,
		query,
		template.TemplateKey,
		template.Name,
		template.Description,
		capabilitiesJSON,
		template.IsBuiltin,
		template.CreatedAt,
	)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to create template")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to get rows affected")
	}

	return rowsAffected > 0, nil
}

// Create inserts a new Template. An existing key yields ErrTemplateExists
// because templates are never overwritten.
func (m *MySQLTemplateRepository) Create(
	ctx context.Context,
	template *accessDomain.Template,
) error {
	inserted, err := m.CreateIfMissing(ctx, template)
	if err != nil {
		return err
	}
	if !inserted {
		return accessDomain.ErrTemplateExists
	}
	return nil
}

// Get retrieves a Template by key.
func (m *MySQLTemplateRepository) Get(
	ctx context.Context,
	templateKey string,
) (*accessDomain.Template, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT template_key, name, description, capabilities, is_builtin, created_at
			  FROM role_templates WHERE template_key = ?`

	template, err := scanTemplateRow(querier.QueryRowContext(ctx, query, templateKey))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, accessDomain.ErrTemplateNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get template")
	}

	return template, nil
}

// List retrieves all templates, built-in first, then by key.
func (m *MySQLTemplateRepository) List(ctx context.Context) ([]*accessDomain.Template, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT template_key, name, description, capabilities, is_builtin, created_at
			  FROM role_templates ORDER BY is_builtin DESC, template_key`

	rows, err := querier.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list templates")
	}
	defer rows.Close()

	var templates []*accessDomain.Template
	for rows.Next() {
		template, err := scanTemplateRow(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan template")
		}
		templates = append(templates, template)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate templates")
	}

	return templates, nil
}

// NewMySQLTemplateRepository creates a new MySQL Template repository instance.
func NewMySQLTemplateRepository(db *sql.DB) *MySQLTemplateRepository {
	return &MySQLTemplateRepository{db: db}
}
