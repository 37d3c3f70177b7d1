// Package repository implements data persistence for authorization entities.
//
// Provides PostgreSQL and MySQL implementations with transaction support via
// database.GetTx(). PostgreSQL uses native UUID types, MySQL uses BINARY(16).
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

// PostgreSQLCapabilityRepository implements Capability persistence for PostgreSQL.
type PostgreSQLCapabilityRepository struct {
	db *sql.DB
}

// CreateIfMissing inserts a Capability unless its key already exists.
// Existing rows are never mutated, protecting historical grants from silent
// invalidation. Returns true when a row was inserted.
func (p *PostgreSQLCapabilityRepository) CreateIfMissing(
	ctx context.Context,
	capability *accessDomain.Capability,
) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	allowedLevelsJSON, err := json.Marshal(capability.AllowedLevels)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to marshal allowed levels")
	}

	query := `INSERT INTO capabilities (key, category, name, description, allowed_levels, is_system_critical, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  ON CONFLICT (key) DO NOTHING`

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

// Get retrieves a Capability by key from the PostgreSQL database.
func (p *PostgreSQLCapabilityRepository) Get(
	ctx context.Context,
	key string,
) (*accessDomain.Capability, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT key, category, name, description, allowed_levels, is_system_critical, created_at
			  FROM capabilities WHERE key = $1`

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
func (p *PostgreSQLCapabilityRepository) List(ctx context.Context) ([]*accessDomain.Capability, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT key, category, name, description, allowed_levels, is_system_critical, created_at
			  FROM capabilities ORDER BY category, key`

	rows, err := querier.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list capabilities")
	}
	defer rows.Close()

	return collectCapabilities(rows)
}

// ListByCategory retrieves all capabilities within a category ordered by key.
func (p *PostgreSQLCapabilityRepository) ListByCategory(
	ctx context.Context,
	category string,
) ([]*accessDomain.Capability, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT key, category, name, description, allowed_levels, is_system_critical, created_at
			  FROM capabilities WHERE category = $1 ORDER BY key`

	rows, err := querier.QueryContext(ctx, query, category)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list capabilities by category")
	}
	defer rows.Close()

	return collectCapabilities(rows)
}

// Categories retrieves the distinct capability categories in order.
func (p *PostgreSQLCapabilityRepository) Categories(ctx context.Context) ([]string, error) {
	querier := database.GetTx(ctx, p.db)

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
func (p *PostgreSQLCapabilityRepository) Search(
	ctx context.Context,
	keyword string,
) ([]*accessDomain.Capability, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT key, category, name, description, allowed_levels, is_system_critical, created_at
			  FROM capabilities
			  WHERE LOWER(key) LIKE $1 OR LOWER(name) LIKE $1 OR LOWER(description) LIKE $1
			  ORDER BY key`

	rows, err := querier.QueryContext(ctx, query, likePattern(keyword))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to search capabilities")
	}
	defer rows.Close()

	return collectCapabilities(rows)
}

// NewPostgreSQLCapabilityRepository creates a new PostgreSQL Capability repository.
func NewPostgreSQLCapabilityRepository(db *sql.DB) *PostgreSQLCapabilityRepository {
	return &PostgreSQLCapabilityRepository{db: db}
}
