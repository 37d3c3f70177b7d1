package repository

import (
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	accessDomain "github.com/allisson/authz/internal/access/domain"
	apperrors "github.com/allisson/authz/internal/errors"
)

// rowScanner abstracts *sql.Row and *sql.Rows for shared scan helpers.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanCapabilityRow scans one capability row, decoding the allowed levels JSON.
func scanCapabilityRow(row rowScanner) (*accessDomain.Capability, error) {
	var capability accessDomain.Capability
	var allowedLevelsJSON []byte

	err := row.Scan(
		&capability.Key,
		&capability.Category,
		&capability.Name,
		&capability.Description,
		&allowedLevelsJSON,
		&capability.IsSystemCritical,
		&capability.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(allowedLevelsJSON, &capability.AllowedLevels); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal allowed levels")
	}

	return &capability, nil
}

// collectCapabilities drains a capability result set.
func collectCapabilities(rows *sql.Rows) ([]*accessDomain.Capability, error) {
	var capabilities []*accessDomain.Capability
	for rows.Next() {
		capability, err := scanCapabilityRow(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan capability")
		}
		capabilities = append(capabilities, capability)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate capabilities")
	}
	return capabilities, nil
}

// scanGrantRow scans one grant row, parsing the stored level name and
// decoding the constraints payload.
func scanGrantRow(row rowScanner) (*accessDomain.Grant, error) {
	var grant accessDomain.Grant
	var levelName string
	var constraintsJSON []byte

	err := row.Scan(
		&grant.RoleID,
		&grant.CapabilityKey,
		&levelName,
		&constraintsJSON,
		&grant.GrantedAt,
		&grant.GrantedBy,
	)
	if err != nil {
		return nil, err
	}

	level, err := accessDomain.ParseAccessLevel(levelName)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to parse stored access level")
	}
	grant.AccessLevel = level

	constraints, err := unmarshalConstraints(constraintsJSON)
	if err != nil {
		return nil, err
	}
	grant.Constraints = constraints

	return &grant, nil
}

// scanGrantRowMySQL scans one grant row with BINARY(16) UUID columns.
func scanGrantRowMySQL(row rowScanner) (*accessDomain.Grant, error) {
	var grant accessDomain.Grant
	var roleID []byte
	var levelName string
	var constraintsJSON []byte
	var grantedBy []byte

	err := row.Scan(
		&roleID,
		&grant.CapabilityKey,
		&levelName,
		&constraintsJSON,
		&grant.GrantedAt,
		&grantedBy,
	)
	if err != nil {
		return nil, err
	}

	if err := grant.RoleID.UnmarshalBinary(roleID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal role id")
	}

	level, err := accessDomain.ParseAccessLevel(levelName)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to parse stored access level")
	}
	grant.AccessLevel = level

	constraints, err := unmarshalConstraints(constraintsJSON)
	if err != nil {
		return nil, err
	}
	grant.Constraints = constraints

	if len(grantedBy) > 0 {
		var id uuid.UUID
		if err := id.UnmarshalBinary(grantedBy); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal granted by")
		}
		grant.GrantedBy = &id
	}

	return &grant, nil
}

// scanTemplateRow scans one template row, decoding the capabilities JSON.
func scanTemplateRow(row rowScanner) (*accessDomain.Template, error) {
	var template accessDomain.Template
	var capabilitiesJSON []byte

	err := row.Scan(
		&template.TemplateKey,
		&template.Name,
		&template.Description,
		&capabilitiesJSON,
		&template.IsBuiltin,
		&template.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(capabilitiesJSON, &template.Capabilities); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal template capabilities")
	}

	return &template, nil
}

// likePattern builds a case-insensitive LIKE pattern for substring search.
func likePattern(keyword string) string {
	return "%" + strings.ToLower(keyword) + "%"
}

// marshalConstraints encodes a grant's opaque constraints payload, preserving
// NULL for absent constraints.
func marshalConstraints(constraints map[string]any) (any, error) {
	if constraints == nil {
		return nil, nil
	}
	data, err := json.Marshal(constraints)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal constraints")
	}
	return data, nil
}

// unmarshalConstraints decodes a grant's constraints payload, mapping NULL to nil.
func unmarshalConstraints(data []byte) (map[string]any, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var constraints map[string]any
	if err := json.Unmarshal(data, &constraints); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal constraints")
	}
	return constraints, nil
}
