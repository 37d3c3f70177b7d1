package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	accessDomain "github.com/allisson/authz/internal/access/domain"
	"github.com/allisson/authz/internal/database"
)

// grantUseCase implements the GrantUseCase interface.
type grantUseCase struct {
	txManager      database.TxManager
	capabilityRepo CapabilityRepository
	grantRepo      GrantRepository
}

// Grant assigns a capability to a role at the given level. The capability
// must exist and the level must be one it allows. Re-granting replaces the
// previous grant outright.
func (g *grantUseCase) Grant(
	ctx context.Context,
	roleID uuid.UUID,
	capabilityKey string,
	level accessDomain.AccessLevel,
	constraints map[string]any,
	grantedBy *uuid.UUID,
) (*accessDomain.Grant, error) {
	capability, err := g.capabilityRepo.Get(ctx, capabilityKey)
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

	if err := g.grantRepo.Upsert(ctx, grant); err != nil {
		return nil, err
	}

	return grant, nil
}

// Revoke removes a capability grant from a role. Revoking an absent grant is
// not an error; the returned flag reports whether a grant existed.
func (g *grantUseCase) Revoke(ctx context.Context, roleID uuid.UUID, capabilityKey string) (bool, error) {
	return g.grantRepo.Delete(ctx, roleID, capabilityKey)
}

// BulkGrant applies each item in its own transaction. One bad item never
// rolls back its siblings; failures are collected with their capability key
// so the caller sees exactly what happened.
func (g *grantUseCase) BulkGrant(
	ctx context.Context,
	roleID uuid.UUID,
	items []accessDomain.BulkGrantItem,
	grantedBy *uuid.UUID,
) (*accessDomain.BulkGrantResult, error) {
	result := &accessDomain.BulkGrantResult{}

	for _, item := range items {
		var grant *accessDomain.Grant
		err := g.txManager.WithTx(ctx, func(txCtx context.Context) error {
			var txErr error
			grant, txErr = g.Grant(txCtx, roleID, item.CapabilityKey, item.AccessLevel, item.Constraints, grantedBy)
			return txErr
		})
		if err != nil {
			result.Failed = append(result.Failed, accessDomain.BulkGrantFailure{
				CapabilityKey: item.CapabilityKey,
				Err:           err,
			})
			continue
		}
		result.Succeeded = append(result.Succeeded, grant)
	}

	return result, nil
}

// NewGrantUseCase creates a new grant use case instance.
func NewGrantUseCase(
	txManager database.TxManager,
	capabilityRepo CapabilityRepository,
	grantRepo GrantRepository,
) GrantUseCase {
	return &grantUseCase{
		txManager:      txManager,
		capabilityRepo: capabilityRepo,
		grantRepo:      grantRepo,
	}
}
