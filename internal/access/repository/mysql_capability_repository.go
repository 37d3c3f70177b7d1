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

// MySQLCapabilityRepository implements Capability persistence for MySQL databases.
type MySQLCapabilityRepository struct {
	db *sql.DB
}

// CreateIfMissing inserts a Capability unless its key already exists.
// Existing rows are never mutated. Returns true when a row was inserted.
func (m *MySQLCapabilityRepository) CreateIfMissing(
	ctx context.Context,
	capability *accessDomain.Capability,
) (bool, error) {
	querier := database.GetTx(ctx, m.db)

	allowedLevelsJSON, err := json.Marshal(capability.AllowedLevels)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to marshal allowed levels")
	}

	query := `INSERT IGNORE INTO capabilities (` + "`key`" + `, category, name, description, allowed_levels, is_system_critical, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	result, err := querier.ExecContext(
		ctx,
		query,
		capability.Key,
		capability.Category,
		capability.Name,
		capability.Description,
		allowedLevelsJSON,
		capability.IsSystemCritical,
		capability.CreatedAt,
	)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to create capability")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to get rows affected")
	}

	return rowsAffected > 0, nil
}

// Get retrieves a Capability by key from the MySQL database.
func (m *MySQLCapabilityRepository) Get(
	ctx context.Context,
	key string,
) (*accessDomain.Capability, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + "`key`" + `, category, name, description, allowed_levels, is_system_critical, created_at
			  FROM capabilities WHERE ` + "`key`" + ` = ?`

	capability, err := scanCapabilityRow(querier.QueryRowContext(ctx, query, key))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, accessDomain.ErrCapabilityNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get capability")
	}

	return capability, nil
}

// List retrieves all capabilities ordered by category and key.
func (m *MySQLCapabilityRepository) List(ctx context.Context) ([]*accessDomain.Capability, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + "`key`" + `, category, name, description, allowed_levels, is_system_critical, created_at
			  FROM capabilities ORDER BY category, ` + "`key`"

	rows, err := querier.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list capabilities")
	}
	defer rows.Close()

	return collectCapabilities(rows)
}

// ListByCategory retrieves all capabilities within a category ordered by key.
func (m *MySQLCapabilityRepository) ListByCategory(
	ctx context.Context,
	category string,
) ([]*accessDomain.Capability, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + "`key`" + `, category, name, description, allowed_levels, is_system_critical, created_at
			  FROM capabilities WHERE category = ? ORDER BY ` + "`key`"

	rows, err := querier.QueryContext(ctx, query, category)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list capabilities by category")
	}
	defer rows.Close()

	return collectCapabilities(rows)
}

// Categories retrieves the distinct capability categories in order.
func (m *MySQLCapabilityRepository) Categories(ctx context.Context) ([]string, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT DISTINCT category FROM capabilities ORDER BY category`

	rows, err := querier.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list capability categories")
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan capability category")
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate capability categories")
	}

	return categories, nil
}

// Search retrieves capabilities whose key, name, or description contains the
// keyword (case-insensitive), ordered by key.
func (m *MySQLCapabilityRepository) Search(
	ctx context.Context,
	keyword string,
) ([]*accessDomain.Capability, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + "`key`" + `, category, name, description, allowed_levels, is_system_critical, created_at
			  FROM capabilities
			  WHERE LOWER(` + "`key`" + `) LIKE ? OR LOWER(name) LIKE ? OR LOWER(description) LIKE ?
			  ORDER BY ` + "`key`"

	pattern := likePattern(keyword)
	rows, err := querier.QueryContext(ctx, query, pattern, pattern, pattern)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to search capabilities")
	}
	defer rows.Close()

	return collectCapabilities(rows)
}

// NewMySQLCapabilityRepository creates a new MySQL Capability repository instance.
func NewMySQLCapabilityRepository(db *sql.DB) *MySQLCapabilityRepository {
	return &MySQLCapabilityRepository{db: db}
}
