package domain

import (
	"fmt"

	"github.com/allisson/authz/internal/errors"
)

// Authorization domain errors.
var (
	// ErrRoleNotFound indicates a role with the specified ID was not found.
	ErrRoleNotFound = errors.Wrap(errors.ErrNotFound, "role not found")

	// ErrCustomRoleNotFound indicates a custom role was not found. System
	// roles resolve to the same error through the custom-role surface so the
	// management API never leaks which role keys exist.
	ErrCustomRoleNotFound = errors.Wrap(errors.ErrNotFound, "custom role not found")

	// ErrCapabilityNotFound indicates a capability key is not in the catalog.
	ErrCapabilityNotFound = errors.Wrap(errors.ErrNotFound, "capability not found")

	// ErrTemplateNotFound indicates a template with the specified key was not found.
	ErrTemplateNotFound = errors.Wrap(errors.ErrNotFound, "template not found")

	// ErrGrantNotFound indicates no active grant exists for a (role, capability) pair.
	ErrGrantNotFound = errors.Wrap(errors.ErrNotFound, "grant not found")

	// ErrAssignmentNotFound indicates a user has no active role assignment
	// within the organization. The evaluator maps this to a plain deny.
	ErrAssignmentNotFound = errors.Wrap(errors.ErrNotFound, "role assignment not found")

	// ErrTemplateExists indicates a template with the specified key already exists.
	ErrTemplateExists = errors.Wrap(errors.ErrConflict, "template already exists")

	// ErrRoleKeyExists indicates a role with the specified key already exists.
	// Role keys are never reused.
	ErrRoleKeyExists = errors.Wrap(errors.ErrConflict, "role key already exists")

	// ErrSystemRoleImmutable indicates an attempt to mutate a predefined system role.
	ErrSystemRoleImmutable = errors.Wrap(errors.ErrInvalidInput, "system roles cannot be modified")
)

// InvalidAccessLevelError indicates a grant level outside the capability's
// legal levels. Carries enough context for audit logging.
type InvalidAccessLevelError struct {
	CapabilityKey string
	Level         AccessLevel
	Allowed       []AccessLevel
}

// Error implements the error interface.
func (e *InvalidAccessLevelError) Error() string {
	return fmt.Sprintf(
		"access level %q is not allowed for capability %q (allowed: %v)",
		e.Level, e.CapabilityKey, e.Allowed,
	)
}

// Unwrap makes the error match ErrInvalidInput for HTTP status mapping.
func (e *InvalidAccessLevelError) Unwrap() error {
	return errors.ErrInvalidInput
}

// RoleInUseError indicates a role deletion was refused because active user
// assignments still reference the role.
type RoleInUseError struct {
	Count int
}

// Error implements the error interface.
func (e *RoleInUseError) Error() string {
	return fmt.Sprintf("role is in use by %d active assignment(s)", e.Count)
}

// Unwrap makes the error match ErrConflict for HTTP status mapping.
func (e *RoleInUseError) Unwrap() error {
	return errors.ErrConflict
}
