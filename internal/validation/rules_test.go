package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCapabilityKey(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		shouldErr bool
	}{
		{
			name:      "simple dotted key",
			input:     "vehicle.create",
			shouldErr: false,
		},
		{
			name:      "three segments",
			input:     "report.financial.view",
			shouldErr: false,
		},
		{
			name:      "underscore segment",
			input:     "custom_role.create",
			shouldErr: false,
		},
		{
			name:      "single segment rejected",
			input:     "vehicle",
			shouldErr: true,
		},
		{
			name:      "uppercase rejected",
			input:     "Vehicle.Create",
			shouldErr: true,
		},
		{
			name:      "trailing dot rejected",
			input:     "vehicle.",
			shouldErr: true,
		},
		{
			name:      "leading digit rejected",
			input:     "1vehicle.create",
			shouldErr: true,
		},
		{
			// String rules skip empty values; Required must be chained
			// wherever an empty key is not acceptable.
			name:      "empty skipped",
			input:     "",
			shouldErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CapabilityKey.Validate(tt.input)
			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAccessLevelName(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		shouldErr bool
	}{
		{name: "none", input: "none", shouldErr: false},
		{name: "view", input: "view", shouldErr: false},
		{name: "limited", input: "limited", shouldErr: false},
		{name: "full", input: "full", shouldErr: false},
		{name: "mixed case accepted", input: "Full", shouldErr: false},
		{name: "unknown rejected", input: "admin", shouldErr: true},
		{name: "empty skipped", input: "", shouldErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := AccessLevelName.Validate(tt.input)
			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMergeStrategyName(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		shouldErr bool
	}{
		{name: "union", input: "union", shouldErr: false},
		{name: "intersection", input: "intersection", shouldErr: false},
		{name: "mixed case accepted", input: "Union", shouldErr: false},
		{name: "unknown rejected", input: "difference", shouldErr: true},
		{name: "empty skipped", input: "", shouldErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MergeStrategyName.Validate(tt.input)
			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNoWhitespace(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		shouldErr bool
	}{
		{
			name:      "no whitespace",
			input:     "validstring",
			shouldErr: false,
		},
		{
			name:      "leading whitespace",
			input:     " validstring",
			shouldErr: true,
		},
		{
			name:      "trailing whitespace",
			input:     "validstring ",
			shouldErr: true,
		},
		{
			name:      "both leading and trailing",
			input:     " validstring ",
			shouldErr: true,
		},
		{
			name:      "internal spaces allowed",
			input:     "valid string",
			shouldErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NoWhitespace.Validate(tt.input)
			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNotBlank(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		shouldErr bool
	}{
		{
			name:      "valid string",
			input:     "validstring",
			shouldErr: false,
		},
		{
			name:      "only spaces",
			input:     "   ",
			shouldErr: true,
		},
		{
			name:      "only tabs",
			input:     "\t\t",
			shouldErr: true,
		},
		{
			name:      "only newlines",
			input:     "\n\n",
			shouldErr: true,
		},
		{
			name:      "mixed whitespace",
			input:     " \t\n ",
			shouldErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NotBlank.Validate(tt.input)
			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWrapValidationError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "nil error returns nil",
			err:      nil,
			expected: false,
		},
		{
			name:     "wraps validation error",
			err:      assert.AnError,
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := WrapValidationError(tt.err)
			if tt.expected {
				assert.Error(t, result)
				assert.Contains(t, result.Error(), "invalid input")
			} else {
				assert.NoError(t, result)
			}
		})
	}
}
