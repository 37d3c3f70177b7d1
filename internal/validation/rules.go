// Package validation provides custom validation rules for the application.
package validation

import (
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/authz/internal/errors"
)

var (
	// capabilityKeyRegex matches dotted lowercase capability keys like "vehicle.create"
	capabilityKeyRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*(\.[a-z][a-z0-9_]*)+$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// CapabilityKey validates that a string is a well-formed dotted capability key
// (e.g. "vehicle.create", "report.financial.view")
var CapabilityKey = validation.NewStringRuleWithError(
	func(s string) bool {
		return capabilityKeyRegex.MatchString(s)
	},
	validation.NewError(
		"validation_capability_key",
		"must be a dotted lowercase capability key (e.g. vehicle.create)",
	),
)

// AccessLevelName validates that a string names a known access level
var AccessLevelName = validation.NewStringRuleWithError(
	func(s string) bool {
		switch strings.ToLower(s) {
		case "none", "view", "limited", "full":
			return true
		}
		return false
	},
	validation.NewError("validation_access_level", "must be one of: none, view, limited, full"),
)

// MergeStrategyName validates that a string names a known template merge strategy
var MergeStrategyName = validation.NewStringRuleWithError(
	func(s string) bool {
		switch strings.ToLower(s) {
		case "union", "intersection":
			return true
		}
		return false
	},
	validation.NewError("validation_merge_strategy", "must be one of: union, intersection"),
)

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)
