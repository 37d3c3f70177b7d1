// Package domain defines authorization domain models.
// Implements capability-based access control with roles, grants, templates,
// and a totally ordered access level lattice.
package domain

import (
	"encoding/json"
	"fmt"
	"strings"

	apperrors "github.com/allisson/authz/internal/errors"
)

// AccessLevel represents the strength of a capability grant.
// Levels form a total order: None < View < Limited < Full.
type AccessLevel int

const (
	// AccessLevelNone grants no access.
	AccessLevelNone AccessLevel = iota

	// AccessLevelView grants read-only access.
	AccessLevelView

	// AccessLevelLimited grants restricted write access.
	AccessLevelLimited

	// AccessLevelFull grants unrestricted access.
	AccessLevelFull
)

// accessLevelNames maps levels to their canonical wire names.
var accessLevelNames = map[AccessLevel]string{
	AccessLevelNone:    "none",
	AccessLevelView:    "view",
	AccessLevelLimited: "limited",
	AccessLevelFull:    "full",
}

// String returns the canonical name of the access level.
func (l AccessLevel) String() string {
	if name, ok := accessLevelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("access_level(%d)", int(l))
}

// Valid reports whether the level is one of the defined constants.
func (l AccessLevel) Valid() bool {
	_, ok := accessLevelNames[l]
	return ok
}

// Satisfies reports whether this level meets the required level.
// A grant satisfies a requirement when its rank is greater than or equal.
func (l AccessLevel) Satisfies(required AccessLevel) bool {
	return l >= required
}

// MarshalJSON encodes the level as its canonical name.
func (l AccessLevel) MarshalJSON() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid access level %d", int(l))
	}
	return json.Marshal(l.String())
}

// UnmarshalJSON decodes a level from its canonical name.
func (l *AccessLevel) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	level, err := ParseAccessLevel(name)
	if err != nil {
		return err
	}
	*l = level
	return nil
}

// ParseAccessLevel converts a level name to an AccessLevel (case-insensitive).
// Returns ErrInvalidInput for unknown names.
func ParseAccessLevel(name string) (AccessLevel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "none":
		return AccessLevelNone, nil
	case "view":
		return AccessLevelView, nil
	case "limited":
		return AccessLevelLimited, nil
	case "full":
		return AccessLevelFull, nil
	}
	return AccessLevelNone, apperrors.Wrapf(apperrors.ErrInvalidInput, "unknown access level %q", name)
}
