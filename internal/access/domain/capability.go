package domain

import (
	"time"

	"github.com/google/uuid"
)

// Capability is an atomic named permission unit (e.g. "vehicle.create").
// The capability catalog is closed and append-only per deployed version:
// seeding inserts missing keys and never mutates existing rows.
type Capability struct {
	Key              string
	Category         string
	Name             string
	Description      string
	AllowedLevels    []AccessLevel
	IsSystemCritical bool
	CreatedAt        time.Time
}

// Allows reports whether the given level is legal for this capability.
func (c *Capability) Allows(level AccessLevel) bool {
	for _, allowed := range c.AllowedLevels {
		if allowed == level {
			return true
		}
	}
	return false
}

// MaxAllowedLevel returns the strongest level this capability permits.
func (c *Capability) MaxAllowedLevel() AccessLevel {
	max := AccessLevelNone
	for _, allowed := range c.AllowedLevels {
		if allowed > max {
			max = allowed
		}
	}
	return max
}

// Role keys of the bypass roles. Bypass roles pass every capability check
// unconditionally and never require grant rows.
const (
	RoleKeyOwner      = "owner"
	RoleKeySuperAdmin = "super_admin"
)

// IsBypassRole reports whether the role key belongs to a bypass role.
func IsBypassRole(roleKey string) bool {
	return roleKey == RoleKeyOwner || roleKey == RoleKeySuperAdmin
}

// Role is a named bundle of capability grants. System roles are predefined;
// custom roles are created on demand through the management API.
type Role struct {
	ID          uuid.UUID
	RoleKey     string
	Name        string
	Description string
	IsSystem    bool
	CreatedAt   time.Time
}

// Grant assigns an access level for one capability to one role.
// At most one active grant exists per (role, capability) pair.
type Grant struct {
	RoleID        uuid.UUID
	CapabilityKey string
	AccessLevel   AccessLevel
	Constraints   map[string]any
	GrantedAt     time.Time
	GrantedBy     *uuid.UUID
}

// CustomRoleMeta records creation lineage for a custom role. TemplateSources
// and Customizations are informational (audit/diff), not live references:
// changing a source template never changes an existing role.
type CustomRoleMeta struct {
	RoleID          uuid.UUID
	TemplateSources []string
	IsTemplate      bool
	Customizations  map[string]Override
	CreatedAt       time.Time
}

// CustomRole is a non-system role together with its lineage metadata and
// resolved capability grants.
type CustomRole struct {
	Role
	Meta         CustomRoleMeta
	Capabilities map[string]AccessLevel
}

// Template is an immutable named capability bundle used to compose custom
// roles. Built-in templates are defined at build time; promoted templates are
// snapshots of custom roles saved through SaveAsTemplate. Neither kind is
// ever updated or deleted.
type Template struct {
	TemplateKey  string
	Name         string
	Description  string
	Capabilities map[string]AccessLevel
	IsBuiltin    bool
	CreatedAt    time.Time
}

// EffectiveCapability is one entry of a user's resolved capability set.
type EffectiveCapability struct {
	AccessLevel AccessLevel
	Constraints map[string]any
}

// Assignment is the resolved active role assignment of a user within an
// organization. The assignment mapping itself is owned by the identity
// layer; this engine only reads it.
type Assignment struct {
	UserID         uuid.UUID
	OrganizationID uuid.UUID
	RoleID         uuid.UUID
	RoleKey        string
	IsSystem       bool
}

// OrgImpact is the per-organization slice of an impact analysis.
type OrgImpact struct {
	OrganizationID uuid.UUID
	UserCount      int
}

// ImpactAnalysis reports how many users and organizations a role mutation
// would affect. Always computed live, never cached.
type ImpactAnalysis struct {
	RoleID                uuid.UUID
	TotalUsersAffected    int
	OrganizationsAffected int
	Breakdown             []OrgImpact
}

// CreateCustomRoleInput carries the parameters for creating a custom role
// from an explicit capability map.
type CreateCustomRoleInput struct {
	Name         string
	Description  string
	Capabilities map[string]AccessLevel
	CreatedBy    *uuid.UUID
}

// CreateFromTemplatesInput carries the parameters for creating a custom role
// by merging templates and applying customization overrides.
type CreateFromTemplatesInput struct {
	Name           string
	Description    string
	TemplateKeys   []string
	Strategy       MergeStrategy
	Customizations map[string]Override
	CreatedBy      *uuid.UUID
}

// UpdateCustomRoleInput is a partial patch for a custom role. A non-nil
// Capabilities map replaces the entire grant set (destructive replace);
// incremental change must go through the single-grant operations instead.
type UpdateCustomRoleInput struct {
	Name         *string
	Description  *string
	Capabilities map[string]AccessLevel
}

// BulkGrantItem is one entry of a bulk grant request.
type BulkGrantItem struct {
	CapabilityKey string
	AccessLevel   AccessLevel
	Constraints   map[string]any
}

// BulkGrantFailure reports one failed entry of a bulk grant.
type BulkGrantFailure struct {
	CapabilityKey string
	Err           error
}

// BulkGrantResult is the structured outcome of a bulk grant: every item is
// validated and committed independently, and failures are collected rather
// than aborting the batch.
type BulkGrantResult struct {
	Succeeded []*Grant
	Failed    []BulkGrantFailure
}
