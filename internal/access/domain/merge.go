package domain

import (
	"encoding/json"
	"fmt"
	"strings"

	apperrors "github.com/allisson/authz/internal/errors"
)

// MergeStrategy selects how capability maps from multiple templates combine.
type MergeStrategy string

const (
	// MergeStrategyUnion keeps every key from any template at the highest
	// level seen. Commutative and associative.
	MergeStrategyUnion MergeStrategy = "union"

	// MergeStrategyIntersection keeps only keys present in every template at
	// the lowest level seen (the most conservative common ground).
	MergeStrategyIntersection MergeStrategy = "intersection"
)

// ParseMergeStrategy converts a strategy name to a MergeStrategy
// (case-insensitive). Returns ErrInvalidInput for unknown names.
func ParseMergeStrategy(name string) (MergeStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "union":
		return MergeStrategyUnion, nil
	case "intersection":
		return MergeStrategyIntersection, nil
	}
	return "", apperrors.Wrapf(apperrors.ErrInvalidInput, "unknown merge strategy %q", name)
}

// OverrideAction discriminates the customization override variants.
type OverrideAction string

const (
	// OverrideActionSet adds or replaces a capability at a given level.
	OverrideActionSet OverrideAction = "set"

	// OverrideActionRemove deletes a capability from the merged map, even if
	// the base granted it at a high level.
	OverrideActionRemove OverrideAction = "remove"
)

// Override is a tagged customization applied on top of a merged template
// capability map: either Set(level) or Remove. Removal is an explicit
// variant, never a sentinel level value.
type Override struct {
	Action OverrideAction
	Level  AccessLevel
}

// SetOverride builds an override that grants the capability at the level.
func SetOverride(level AccessLevel) Override {
	return Override{Action: OverrideActionSet, Level: level}
}

// RemoveOverride builds an override that removes the capability.
func RemoveOverride() Override {
	return Override{Action: OverrideActionRemove}
}

// overrideJSON is the persisted shape of an Override.
type overrideJSON struct {
	Action OverrideAction `json:"action"`
	Level  *AccessLevel   `json:"level,omitempty"`
}

// MarshalJSON encodes the override as a tagged object.
func (o Override) MarshalJSON() ([]byte, error) {
	out := overrideJSON{Action: o.Action}
	if o.Action == OverrideActionSet {
		level := o.Level
		out.Level = &level
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a tagged override object, validating the variant.
func (o *Override) UnmarshalJSON(data []byte) error {
	var in overrideJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	switch in.Action {
	case OverrideActionSet:
		if in.Level == nil {
			return fmt.Errorf("set override requires a level")
		}
		*o = SetOverride(*in.Level)
	case OverrideActionRemove:
		*o = RemoveOverride()
	default:
		return fmt.Errorf("unknown override action %q", in.Action)
	}
	return nil
}

// MergeTemplates combines the capability maps of the given templates using
// the strategy. An empty template slice yields an empty map. Pure function:
// inputs are never mutated and the result is independent of template order.
func MergeTemplates(templates []*Template, strategy MergeStrategy) map[string]AccessLevel {
	merged := make(map[string]AccessLevel)
	if len(templates) == 0 {
		return merged
	}

	switch strategy {
	case MergeStrategyIntersection:
		// Count occurrences and track the minimum level per key; only keys
		// present in every template survive.
		counts := make(map[string]int)
		for _, template := range templates {
			for key, level := range template.Capabilities {
				count, seen := counts[key]
				counts[key] = count + 1
				if !seen || level < merged[key] {
					merged[key] = level
				}
			}
		}
		for key, count := range counts {
			if count != len(templates) {
				delete(merged, key)
			}
		}
	case MergeStrategyUnion:
		// Highest level seen per key.
		for _, template := range templates {
			for key, level := range template.Capabilities {
				if existing, ok := merged[key]; !ok || level > existing {
					merged[key] = level
				}
			}
		}
	default:
		// Unrecognized strategies grant nothing. Callers parse the strategy
		// before calling, so this branch only guards programming errors.
		return merged
	}

	return merged
}

// ApplyCustomizations applies overrides on top of a base capability map and
// returns a new map. An empty override map is the identity transform. The
// base map is never mutated.
func ApplyCustomizations(base map[string]AccessLevel, overrides map[string]Override) map[string]AccessLevel {
	result := make(map[string]AccessLevel, len(base))
	for key, level := range base {
		result[key] = level
	}

	for key, override := range overrides {
		switch override.Action {
		case OverrideActionSet:
			result[key] = override.Level
		case OverrideActionRemove:
			delete(result, key)
		}
	}

	return result
}
