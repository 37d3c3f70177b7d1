package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinCapabilities(t *testing.T) {
	capabilities := BuiltinCapabilities()
	require.NotEmpty(t, capabilities)

	seen := make(map[string]bool)
	for _, capability := range capabilities {
		assert.NotEmpty(t, capability.Key)
		assert.NotEmpty(t, capability.Category)
		assert.NotEmpty(t, capability.Name)
		assert.NotEmpty(t, capability.AllowedLevels, "capability %s must allow at least one level", capability.Key)
		assert.False(t, seen[capability.Key], "duplicate capability key %s", capability.Key)
		seen[capability.Key] = true

		for _, level := range capability.AllowedLevels {
			assert.True(t, level.Valid(), "capability %s has invalid level %d", capability.Key, level)
		}
	}

	// The management surface's own governing capabilities must be present.
	assert.True(t, seen[CapabilityCustomRoleCreate])
	assert.True(t, seen[CapabilityCustomRoleView])
	assert.True(t, seen[CapabilityCustomRoleEdit])
	assert.True(t, seen[CapabilityCustomRoleDelete])
	assert.True(t, seen[CapabilityCatalogView])
}

func TestBuiltinCapabilities_ReturnsCopies(t *testing.T) {
	first := BuiltinCapabilities()
	first[0].Key = "mutated"
	first[0].AllowedLevels[0] = AccessLevel(99)

	second := BuiltinCapabilities()
	assert.NotEqual(t, "mutated", second[0].Key)
	assert.True(t, second[0].AllowedLevels[0].Valid())
}

func TestBuiltinTemplates(t *testing.T) {
	templates := BuiltinTemplates()
	require.NotEmpty(t, templates)

	catalog := make(map[string]Capability)
	for _, capability := range BuiltinCapabilities() {
		catalog[capability.Key] = capability
	}

	seen := make(map[string]bool)
	for _, template := range templates {
		assert.NotEmpty(t, template.TemplateKey)
		assert.True(t, template.IsBuiltin)
		assert.NotEmpty(t, template.Capabilities)
		assert.False(t, seen[template.TemplateKey], "duplicate template key %s", template.TemplateKey)
		seen[template.TemplateKey] = true

		// Every template entry must reference a cataloged capability at a
		// level that capability allows.
		for key, level := range template.Capabilities {
			capability, ok := catalog[key]
			require.True(t, ok, "template %s references unknown capability %s", template.TemplateKey, key)
			assert.True(
				t,
				capability.Allows(level),
				"template %s grants %s at illegal level %s",
				template.TemplateKey, key, level,
			)
		}
	}
}

func TestBuiltinTemplates_ReturnsCopies(t *testing.T) {
	first := BuiltinTemplates()
	for key := range first[0].Capabilities {
		first[0].Capabilities[key] = AccessLevel(99)
	}

	second := BuiltinTemplates()
	for _, level := range second[0].Capabilities {
		assert.True(t, level.Valid())
	}
}
