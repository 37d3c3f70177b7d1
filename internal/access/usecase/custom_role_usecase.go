package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	accessDomain "github.com/allisson/authz/internal/access/domain"
	"github.com/allisson/authz/internal/database"
	apperrors "github.com/allisson/authz/internal/errors"
)

// customRoleUseCase implements the CustomRoleUseCase interface.
type customRoleUseCase struct {
	txManager      database.TxManager
	roleRepo       RoleRepository
	grantRepo      GrantRepository
	capabilityRepo CapabilityRepository
	templateRepo   TemplateRepository
	assignmentRepo AssignmentRepository
}

// CreateFromScratch creates a custom role from an explicit capability map.
// Every key must exist in the catalog and every level must be one the
// capability allows; nothing is persisted otherwise.
func (c *customRoleUseCase) CreateFromScratch(
	ctx context.Context,
	input *accessDomain.CreateCustomRoleInput,
) (*accessDomain.CustomRole, error) {
	if err := c.validateCapabilities(ctx, input.Capabilities); err != nil {
		return nil, err
	}

	meta := accessDomain.CustomRoleMeta{
		TemplateSources: []string{},
		Customizations:  map[string]accessDomain.Override{},
	}

	return c.persistCustomRole(ctx, input.Name, input.Description, input.Capabilities, meta, input.CreatedBy)
}

// CreateFromTemplates creates a custom role by merging templates and applying
// customization overrides. The merged result is a snapshot: later template
// changes never propagate to the role.
func (c *customRoleUseCase) CreateFromTemplates(
	ctx context.Context,
	input *accessDomain.CreateFromTemplatesInput,
) (*accessDomain.CustomRole, error) {
	templates := make([]*accessDomain.Template, 0, len(input.TemplateKeys))
	for _, key := range input.TemplateKeys {
		template, err := c.templateRepo.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		templates = append(templates, template)
	}

	merged := accessDomain.MergeTemplates(templates, input.Strategy)
	capabilities := accessDomain.ApplyCustomizations(merged, input.Customizations)

	if err := c.validateCapabilities(ctx, capabilities); err != nil {
		return nil, err
	}

	customizations := input.Customizations
	if customizations == nil {
		customizations = map[string]accessDomain.Override{}
	}
	meta := accessDomain.CustomRoleMeta{
		TemplateSources: append([]string{}, input.TemplateKeys...),
		Customizations:  customizations,
	}

	return c.persistCustomRole(ctx, input.Name, input.Description, capabilities, meta, input.CreatedBy)
}

// Clone creates a new custom role carrying a snapshot of the source role's
// resolved grants. Grants are copied whole, constraints included, so the
// clone matches the source exactly at clone time.
func (c *customRoleUseCase) Clone(
	ctx context.Context,
	sourceID uuid.UUID,
	newName string,
	createdBy *uuid.UUID,
) (*accessDomain.CustomRole, error) {
	source, err := c.resolveCustomRole(ctx, sourceID)
	if err != nil {
		return nil, err
	}

	sourceMeta, err := c.roleRepo.GetMeta(ctx, sourceID)
	if err != nil {
		return nil, err
	}

	sourceGrants, err := c.grantRepo.ListByRole(ctx, sourceID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	role := &accessDomain.Role{
		ID:          uuid.Must(uuid.NewV7()),
		RoleKey:     generateRoleKey(newName),
		Name:        newName,
		Description: source.Description,
		IsSystem:    false,
		CreatedAt:   now,
	}
	meta := accessDomain.CustomRoleMeta{
		RoleID:          role.ID,
		TemplateSources: append([]string{}, sourceMeta.TemplateSources...),
		Customizations:  map[string]accessDomain.Override{},
		CreatedAt:       now,
	}

	capabilities := make(map[string]accessDomain.AccessLevel, len(sourceGrants))
	err = c.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if err := c.roleRepo.Create(txCtx, role); err != nil {
			return err
		}
		if err := c.roleRepo.CreateMeta(txCtx, &meta); err != nil {
			return err
		}
		for _, sourceGrant := range sourceGrants {
			grant := &accessDomain.Grant{
				RoleID:        role.ID,
				CapabilityKey: sourceGrant.CapabilityKey,
				AccessLevel:   sourceGrant.AccessLevel,
				Constraints:   sourceGrant.Constraints,
				GrantedAt:     now,
				GrantedBy:     createdBy,
			}
			if err := c.grantRepo.Upsert(txCtx, grant); err != nil {
				return err
			}
			capabilities[grant.CapabilityKey] = grant.AccessLevel
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &accessDomain.CustomRole{
		Role:         *role,
		Meta:         meta,
		Capabilities: capabilities,
	}, nil
}

// Update applies a partial patch to a custom role. A present Capabilities
// map replaces the whole grant set; the delete and reinsert share one
// transaction so readers never observe a half-replaced role.
func (c *customRoleUseCase) Update(
	ctx context.Context,
	roleID uuid.UUID,
	patch *accessDomain.UpdateCustomRoleInput,
) (*accessDomain.CustomRole, error) {
	role, err := c.resolveCustomRole(ctx, roleID)
	if err != nil {
		return nil, err
	}

	if patch.Capabilities != nil {
		if err := c.validateCapabilities(ctx, patch.Capabilities); err != nil {
			return nil, err
		}
	}

	err = c.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if patch.Name != nil || patch.Description != nil {
			if patch.Name != nil {
				role.Name = *patch.Name
			}
			if patch.Description != nil {
				role.Description = *patch.Description
			}
			if err := c.roleRepo.UpdateDetails(txCtx, role); err != nil {
				return err
			}
		}

		if patch.Capabilities != nil {
			if err := c.grantRepo.DeleteAllForRole(txCtx, roleID); err != nil {
				return err
			}
			if err := c.insertGrants(txCtx, roleID, patch.Capabilities, nil); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return c.Get(ctx, roleID)
}

// AddCapability grants a single capability to a custom role.
func (c *customRoleUseCase) AddCapability(
	ctx context.Context,
	roleID uuid.UUID,
	capabilityKey string,
	level accessDomain.AccessLevel,
	constraints map[string]any,
	grantedBy *uuid.UUID,
) (*accessDomain.Grant, error) {
	if _, err := c.resolveCustomRole(ctx, roleID); err != nil {
		return nil, err
	}

	capability, err := c.capabilityRepo.Get(ctx, capabilityKey)
	if err != nil {
		return nil, err
	}
	if !capability.Allows(level) {
		return nil, &accessDomain.InvalidAccessLevelError{
			CapabilityKey: capabilityKey,
			Level:         level,
			Allowed:       capability.AllowedLevels,
		}
	}

	grant := &accessDomain.Grant{
		RoleID:        roleID,
		CapabilityKey: capabilityKey,
		AccessLevel:   level,
		Constraints:   constraints,
		GrantedAt:     time.Now().UTC(),
		GrantedBy:     grantedBy,
	}
	if err := c.grantRepo.Upsert(ctx, grant); err != nil {
		return nil, err
	}

	return grant, nil
}

// RemoveCapability revokes a single capability from a custom role. Revoking
// an absent grant reports existed=false without failing.
func (c *customRoleUseCase) RemoveCapability(
	ctx context.Context,
	roleID uuid.UUID,
	capabilityKey string,
) (bool, error) {
	if _, err := c.resolveCustomRole(ctx, roleID); err != nil {
		return false, err
	}
	return c.grantRepo.Delete(ctx, roleID, capabilityKey)
}

// Delete removes a custom role. The usage check and the delete run in one
// transaction, so the role cannot gain assignments between the check and the
// removal.
func (c *customRoleUseCase) Delete(ctx context.Context, roleID uuid.UUID) error {
	if _, err := c.resolveCustomRole(ctx, roleID); err != nil {
		return err
	}

	return c.txManager.WithTx(ctx, func(txCtx context.Context) error {
		count, err := c.assignmentRepo.CountByRole(txCtx, roleID)
		if err != nil {
			return err
		}
		if count > 0 {
			return &accessDomain.RoleInUseError{Count: count}
		}
		return c.roleRepo.Delete(txCtx, roleID)
	})
}

// ImpactAnalysis reports the live assignment footprint of a custom role.
func (c *customRoleUseCase) ImpactAnalysis(
	ctx context.Context,
	roleID uuid.UUID,
) (*accessDomain.ImpactAnalysis, error) {
	if _, err := c.resolveCustomRole(ctx, roleID); err != nil {
		return nil, err
	}

	breakdown, err := c.assignmentRepo.BreakdownByRole(ctx, roleID)
	if err != nil {
		return nil, err
	}

	analysis := &accessDomain.ImpactAnalysis{
		RoleID:                roleID,
		OrganizationsAffected: len(breakdown),
		Breakdown:             breakdown,
	}
	for _, impact := range breakdown {
		analysis.TotalUsersAffected += impact.UserCount
	}

	return analysis, nil
}

// SaveAsTemplate snapshots the role's current grants into a promoted
// template. Constraints are not part of templates; only levels carry over.
func (c *customRoleUseCase) SaveAsTemplate(
	ctx context.Context,
	roleID uuid.UUID,
	templateKey, name, description string,
) (*accessDomain.Template, error) {
	if _, err := c.resolveCustomRole(ctx, roleID); err != nil {
		return nil, err
	}

	grants, err := c.grantRepo.ListByRole(ctx, roleID)
	if err != nil {
		return nil, err
	}

	capabilities := make(map[string]accessDomain.AccessLevel, len(grants))
	for _, grant := range grants {
		capabilities[grant.CapabilityKey] = grant.AccessLevel
	}

	template := &accessDomain.Template{
		TemplateKey:  templateKey,
		Name:         name,
		Description:  description,
		Capabilities: capabilities,
		IsBuiltin:    false,
		CreatedAt:    time.Now().UTC(),
	}

	err = c.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if err := c.templateRepo.Create(txCtx, template); err != nil {
			return err
		}
		return c.roleRepo.SetMetaIsTemplate(txCtx, roleID, true)
	})
	if err != nil {
		return nil, err
	}

	return template, nil
}

// Get retrieves a custom role with its metadata and resolved grants.
func (c *customRoleUseCase) Get(ctx context.Context, roleID uuid.UUID) (*accessDomain.CustomRole, error) {
	role, err := c.resolveCustomRole(ctx, roleID)
	if err != nil {
		return nil, err
	}
	return c.loadCustomRole(ctx, role)
}

// List retrieves custom roles ordered by creation descending.
func (c *customRoleUseCase) List(ctx context.Context, offset, limit int) ([]*accessDomain.CustomRole, error) {
	roles, err := c.roleRepo.ListCustom(ctx, offset, limit)
	if err != nil {
		return nil, err
	}

	customRoles := make([]*accessDomain.CustomRole, 0, len(roles))
	for _, role := range roles {
		customRole, err := c.loadCustomRole(ctx, role)
		if err != nil {
			return nil, err
		}
		customRoles = append(customRoles, customRole)
	}

	return customRoles, nil
}

// resolveCustomRole fetches a role and verifies it is a custom role. System
// roles resolve to ErrCustomRoleNotFound through this surface so lookups
// cannot probe which system role IDs exist.
func (c *customRoleUseCase) resolveCustomRole(ctx context.Context, roleID uuid.UUID) (*accessDomain.Role, error) {
	role, err := c.roleRepo.Get(ctx, roleID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, accessDomain.ErrCustomRoleNotFound
		}
		return nil, err
	}
	if role.IsSystem {
		return nil, accessDomain.ErrCustomRoleNotFound
	}
	return role, nil
}

// loadCustomRole assembles the full CustomRole view for a resolved role.
func (c *customRoleUseCase) loadCustomRole(
	ctx context.Context,
	role *accessDomain.Role,
) (*accessDomain.CustomRole, error) {
	meta, err := c.roleRepo.GetMeta(ctx, role.ID)
	if err != nil {
		return nil, err
	}

	grants, err := c.grantRepo.ListByRole(ctx, role.ID)
	if err != nil {
		return nil, err
	}

	capabilities := make(map[string]accessDomain.AccessLevel, len(grants))
	for _, grant := range grants {
		capabilities[grant.CapabilityKey] = grant.AccessLevel
	}

	return &accessDomain.CustomRole{
		Role:         *role,
		Meta:         *meta,
		Capabilities: capabilities,
	}, nil
}

// validateCapabilities checks every entry of a capability map against the
// catalog. Fails on the first unknown key or disallowed level, keys in
// deterministic order so errors are stable.
func (c *customRoleUseCase) validateCapabilities(
	ctx context.Context,
	capabilities map[string]accessDomain.AccessLevel,
) error {
	keys := make([]string, 0, len(capabilities))
	for key := range capabilities {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		capability, err := c.capabilityRepo.Get(ctx, key)
		if err != nil {
			return err
		}
		level := capabilities[key]
		if !capability.Allows(level) {
			return &accessDomain.InvalidAccessLevelError{
				CapabilityKey: key,
				Level:         level,
				Allowed:       capability.AllowedLevels,
			}
		}
	}

	return nil
}

// persistCustomRole creates the role, its metadata, and its grants in one
// transaction.
func (c *customRoleUseCase) persistCustomRole(
	ctx context.Context,
	name, description string,
	capabilities map[string]accessDomain.AccessLevel,
	meta accessDomain.CustomRoleMeta,
	createdBy *uuid.UUID,
) (*accessDomain.CustomRole, error) {
	now := time.Now().UTC()
	role := &accessDomain.Role{
		ID:          uuid.Must(uuid.NewV7()),
		RoleKey:     generateRoleKey(name),
		Name:        name,
		Description: description,
		IsSystem:    false,
		CreatedAt:   now,
	}
	meta.RoleID = role.ID
	meta.CreatedAt = now

	err := c.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if err := c.roleRepo.Create(txCtx, role); err != nil {
			return err
		}
		if err := c.roleRepo.CreateMeta(txCtx, &meta); err != nil {
			return err
		}
		return c.insertGrants(txCtx, role.ID, capabilities, createdBy)
	})
	if err != nil {
		return nil, err
	}

	return &accessDomain.CustomRole{
		Role:         *role,
		Meta:         meta,
		Capabilities: capabilities,
	}, nil
}

// insertGrants writes one grant per capability map entry.
func (c *customRoleUseCase) insertGrants(
	ctx context.Context,
	roleID uuid.UUID,
	capabilities map[string]accessDomain.AccessLevel,
	grantedBy *uuid.UUID,
) error {
	now := time.Now().UTC()
	for key, level := range capabilities {
		grant := &accessDomain.Grant{
			RoleID:        roleID,
			CapabilityKey: key,
			AccessLevel:   level,
			GrantedAt:     now,
			GrantedBy:     grantedBy,
		}
		if err := c.grantRepo.Upsert(ctx, grant); err != nil {
			return err
		}
	}
	return nil
}

// generateRoleKey derives a unique immutable role key from the display name.
// The random suffix keeps keys unique even when names repeat, and deleted
// keys are never reused.
func generateRoleKey(name string) string {
	var b strings.Builder
	lastUnderscore := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	slug := strings.Trim(b.String(), "_")
	if slug == "" {
		slug = "role"
	}

	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return "custom_" + slug + "_" + suffix
}

// NewCustomRoleUseCase creates a new custom role use case instance.
func NewCustomRoleUseCase(
	txManager database.TxManager,
	roleRepo RoleRepository,
	grantRepo GrantRepository,
	capabilityRepo CapabilityRepository,
	templateRepo TemplateRepository,
	assignmentRepo AssignmentRepository,
) CustomRoleUseCase {
	return &customRoleUseCase{
		txManager:      txManager,
		roleRepo:       roleRepo,
		grantRepo:      grantRepo,
		capabilityRepo: capabilityRepo,
		templateRepo:   templateRepo,
		assignmentRepo: assignmentRepo,
	}
}
