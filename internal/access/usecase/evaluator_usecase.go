package usecase

import (
	"context"
	"errors"

	"github.com/google/uuid"

	accessDomain "github.com/allisson/authz/internal/access/domain"
	apperrors "github.com/allisson/authz/internal/errors"
)

// evaluatorUseCase implements the EvaluatorUseCase interface. Read-only by
// construction: evaluation never writes and never caches, so permission
// changes are visible on the next check.
type evaluatorUseCase struct {
	assignmentRepo AssignmentRepository
	grantRepo      GrantRepository
	capabilityRepo CapabilityRepository
}

// Check reports whether the user holds the capability at the required level
// within the organization. Missing assignment or missing grant is a plain
// deny; storage failures surface as errors so callers deny on error.
func (e *evaluatorUseCase) Check(
	ctx context.Context,
	userID, organizationID uuid.UUID,
	capabilityKey string,
	required accessDomain.AccessLevel,
) (bool, error) {
	assignment, err := e.assignmentRepo.GetActive(ctx, userID, organizationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	if accessDomain.IsBypassRole(assignment.RoleKey) {
		return true, nil
	}

	grant, err := e.grantRepo.Get(ctx, assignment.RoleID, capabilityKey)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	return grant.AccessLevel.Satisfies(required), nil
}

// GetEffective resolves the user's full capability set within the
// organization. A user without an active assignment has no capabilities.
func (e *evaluatorUseCase) GetEffective(
	ctx context.Context,
	userID, organizationID uuid.UUID,
) (map[string]accessDomain.EffectiveCapability, error) {
	effective := make(map[string]accessDomain.EffectiveCapability)

	assignment, err := e.assignmentRepo.GetActive(ctx, userID, organizationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return effective, nil
		}
		return nil, err
	}

	if accessDomain.IsBypassRole(assignment.RoleKey) {
		capabilities, err := e.capabilityRepo.List(ctx)
		if err != nil {
			return nil, err
		}
		for _, capability := range capabilities {
			effective[capability.Key] = accessDomain.EffectiveCapability{
				AccessLevel: capability.MaxAllowedLevel(),
			}
		}
		return effective, nil
	}

	grants, err := e.grantRepo.ListByRole(ctx, assignment.RoleID)
	if err != nil {
		return nil, err
	}
	for _, grant := range grants {
		effective[grant.CapabilityKey] = accessDomain.EffectiveCapability{
			AccessLevel: grant.AccessLevel,
			Constraints: grant.Constraints,
		}
	}

	return effective, nil
}

// NewEvaluatorUseCase creates a new evaluator use case instance.
func NewEvaluatorUseCase(
	assignmentRepo AssignmentRepository,
	grantRepo GrantRepository,
	capabilityRepo CapabilityRepository,
) EvaluatorUseCase {
	return &evaluatorUseCase{
		assignmentRepo: assignmentRepo,
		grantRepo:      grantRepo,
		capabilityRepo: capabilityRepo,
	}
}
