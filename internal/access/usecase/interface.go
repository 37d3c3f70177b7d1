// Package usecase defines the interfaces and implementations for
// authorization business logic. Use cases orchestrate repositories and the
// template merge engine to implement catalog management, capability
// evaluation, grant mutation, and custom role composition.
package usecase

import (
	"context"

	"github.com/google/uuid"

	accessDomain "github.com/allisson/authz/internal/access/domain"
)

// CapabilityRepository defines the interface for Capability persistence operations.
type CapabilityRepository interface {
	CreateIfMissing(ctx context.Context, capability *accessDomain.Capability) (bool, error)
	Get(ctx context.Context, key string) (*accessDomain.Capability, error)
	List(ctx context.Context) ([]*accessDomain.Capability, error)
	ListByCategory(ctx context.Context, category string) ([]*accessDomain.Capability, error)
	Categories(ctx context.Context) ([]string, error)
	Search(ctx context.Context, keyword string) ([]*accessDomain.Capability, error)
}

// RoleRepository defines the interface for Role and CustomRoleMeta persistence operations.
type RoleRepository interface {
	Create(ctx context.Context, role *accessDomain.Role) error
	Get(ctx context.Context, roleID uuid.UUID) (*accessDomain.Role, error)
	GetByKey(ctx context.Context, roleKey string) (*accessDomain.Role, error)
	UpdateDetails(ctx context.Context, role *accessDomain.Role) error
	Delete(ctx context.Context, roleID uuid.UUID) error
	ListCustom(ctx context.Context, offset, limit int) ([]*accessDomain.Role, error)
	CreateMeta(ctx context.Context, meta *accessDomain.CustomRoleMeta) error
	GetMeta(ctx context.Context, roleID uuid.UUID) (*accessDomain.CustomRoleMeta, error)
	SetMetaIsTemplate(ctx context.Context, roleID uuid.UUID, isTemplate bool) error
}

// GrantRepository defines the interface for capability grant persistence operations.
type GrantRepository interface {
	Upsert(ctx context.Context, grant *accessDomain.Grant) error
	Get(ctx context.Context, roleID uuid.UUID, capabilityKey string) (*accessDomain.Grant, error)
	Delete(ctx context.Context, roleID uuid.UUID, capabilityKey string) (bool, error)
	DeleteAllForRole(ctx context.Context, roleID uuid.UUID) error
	ListByRole(ctx context.Context, roleID uuid.UUID) ([]*accessDomain.Grant, error)
}

// AssignmentRepository defines the read interface over user role assignments.
// The assignment mapping is owned by the identity layer; the engine only
// resolves and counts it.
type AssignmentRepository interface {
	GetActive(ctx context.Context, userID, organizationID uuid.UUID) (*accessDomain.Assignment, error)
	CountByRole(ctx context.Context, roleID uuid.UUID) (int, error)
	BreakdownByRole(ctx context.Context, roleID uuid.UUID) ([]accessDomain.OrgImpact, error)
}

// TemplateRepository defines the interface for Template persistence operations.
// Templates are immutable once stored.
type TemplateRepository interface {
	CreateIfMissing(ctx context.Context, template *accessDomain.Template) (bool, error)
	Create(ctx context.Context, template *accessDomain.Template) error
	Get(ctx context.Context, templateKey string) (*accessDomain.Template, error)
	List(ctx context.Context) ([]*accessDomain.Template, error)
}

// CatalogUseCase defines the interface for capability catalog business logic.
type CatalogUseCase interface {
	// Seed inserts every built-in capability that is not already present and
	// returns the number of rows inserted. Existing rows are never mutated,
	// so seeding is safe to run on every deploy.
	Seed(ctx context.Context) (int, error)
	Get(ctx context.Context, key string) (*accessDomain.Capability, error)
	List(ctx context.Context) ([]*accessDomain.Capability, error)
	ListByCategory(ctx context.Context, category string) ([]*accessDomain.Capability, error)
	Categories(ctx context.Context) ([]string, error)
	Search(ctx context.Context, keyword string) ([]*accessDomain.Capability, error)
}

// EvaluatorUseCase defines the interface for access checks. This is the hot
// path: every guarded request in the fleet goes through Check.
type EvaluatorUseCase interface {
	// Check reports whether the user holds the capability at the required
	// level within the organization. Any error means deny for callers.
	Check(ctx context.Context, userID, organizationID uuid.UUID, capabilityKey string, required accessDomain.AccessLevel) (bool, error)

	// GetEffective resolves the user's full capability set within the
	// organization. Bypass roles see the entire catalog at each
	// capability's maximum allowed level.
	GetEffective(ctx context.Context, userID, organizationID uuid.UUID) (map[string]accessDomain.EffectiveCapability, error)
}

// GrantUseCase defines the interface for capability grant mutations.
type GrantUseCase interface {
	Grant(ctx context.Context, roleID uuid.UUID, capabilityKey string, level accessDomain.AccessLevel, constraints map[string]any, grantedBy *uuid.UUID) (*accessDomain.Grant, error)
	Revoke(ctx context.Context, roleID uuid.UUID, capabilityKey string) (bool, error)
	// BulkGrant commits each item in its own transaction and collects
	// per-item failures instead of aborting the batch.
	BulkGrant(ctx context.Context, roleID uuid.UUID, items []accessDomain.BulkGrantItem, grantedBy *uuid.UUID) (*accessDomain.BulkGrantResult, error)
}

// TemplateUseCase defines the interface for role template reads and the
// merge preview.
type TemplateUseCase interface {
	// SeedBuiltins inserts every built-in template that is not already
	// present and returns the number of rows inserted.
	SeedBuiltins(ctx context.Context) (int, error)
	ListTemplates(ctx context.Context) ([]*accessDomain.Template, error)
	GetTemplate(ctx context.Context, templateKey string) (*accessDomain.Template, error)
	// Preview resolves the template keys and returns the merged and
	// customized capability map without persisting anything.
	Preview(ctx context.Context, templateKeys []string, strategy accessDomain.MergeStrategy, customizations map[string]accessDomain.Override) (map[string]accessDomain.AccessLevel, error)
}

// CustomRoleUseCase defines the interface for custom role lifecycle management.
type CustomRoleUseCase interface {
	CreateFromScratch(ctx context.Context, input *accessDomain.CreateCustomRoleInput) (*accessDomain.CustomRole, error)
	CreateFromTemplates(ctx context.Context, input *accessDomain.CreateFromTemplatesInput) (*accessDomain.CustomRole, error)
	// Clone snapshots the source role's resolved grants into a new role.
	// Later edits to the source never propagate to the clone.
	Clone(ctx context.Context, sourceID uuid.UUID, newName string, createdBy *uuid.UUID) (*accessDomain.CustomRole, error)
	// Update applies a partial patch. A present Capabilities map replaces
	// the entire grant set inside one transaction.
	Update(ctx context.Context, roleID uuid.UUID, patch *accessDomain.UpdateCustomRoleInput) (*accessDomain.CustomRole, error)
	AddCapability(ctx context.Context, roleID uuid.UUID, capabilityKey string, level accessDomain.AccessLevel, constraints map[string]any, grantedBy *uuid.UUID) (*accessDomain.Grant, error)
	RemoveCapability(ctx context.Context, roleID uuid.UUID, capabilityKey string) (bool, error)
	// Delete refuses when active assignments still reference the role,
	// reporting the count via RoleInUseError. The usage check and the
	// delete share one transaction.
	Delete(ctx context.Context, roleID uuid.UUID) error
	// ImpactAnalysis reports how many users and organizations currently
	// depend on the role. Always computed live.
	ImpactAnalysis(ctx context.Context, roleID uuid.UUID) (*accessDomain.ImpactAnalysis, error)
	// SaveAsTemplate snapshots the role's current grants into an immutable
	// promoted template.
	SaveAsTemplate(ctx context.Context, roleID uuid.UUID, templateKey, name, description string) (*accessDomain.Template, error)
	Get(ctx context.Context, roleID uuid.UUID) (*accessDomain.CustomRole, error)
	List(ctx context.Context, offset, limit int) ([]*accessDomain.CustomRole, error)
}
