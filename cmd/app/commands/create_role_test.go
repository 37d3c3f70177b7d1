package commands

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	accessDomain "github.com/allisson/authz/internal/access/domain"
)

func TestRunCreateRole(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()
	roleID := uuid.Must(uuid.NewV7())

	t.Run("non-interactive-text", func(t *testing.T) {
		mockUseCase := &mockCustomRoleUseCase{}
		input := &accessDomain.CreateCustomRoleInput{
			Name:        "Read Only Auditor",
			Description: "Audit access",
			Capabilities: map[string]accessDomain.AccessLevel{
				"vehicle.view": accessDomain.AccessLevelView,
			},
		}
		role := &accessDomain.CustomRole{
			Role: accessDomain.Role{
				ID:      roleID,
				RoleKey: "custom_read_only_auditor_a1b2c3d4",
				Name:    "Read Only Auditor",
			},
			Capabilities: input.Capabilities,
		}

		mockUseCase.On("CreateFromScratch", ctx, input).Return(role, nil)

		var out bytes.Buffer
		io := IOTuple{
			Reader: nil,
			Writer: &out,
		}

		err := RunCreateRole(
			ctx,
			mockUseCase,
			logger,
			"Read Only Auditor",
			"Audit access",
			`{"vehicle.view":"view"}`,
			"text",
			io,
		)

		require.NoError(t, err)
		require.Contains(t, out.String(), roleID.String())
		require.Contains(t, out.String(), "custom_read_only_auditor_a1b2c3d4")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("interactive-json", func(t *testing.T) {
		mockUseCase := &mockCustomRoleUseCase{}
		input := &accessDomain.CreateCustomRoleInput{
			Name: "Dispatcher",
			Capabilities: map[string]accessDomain.AccessLevel{
				"trip.edit": accessDomain.AccessLevelFull,
			},
		}
		role := &accessDomain.CustomRole{
			Role: accessDomain.Role{
				ID:      roleID,
				RoleKey: "custom_dispatcher_b2c3d4e5",
				Name:    "Dispatcher",
			},
			Capabilities: input.Capabilities,
		}

		mockUseCase.On("CreateFromScratch", ctx, input).Return(role, nil)

		// Simulate interactive input:
		// 1. Key: trip.edit
		// 2. Level: full
		// 3. Add another: n
		userInput := "trip.edit\nfull\nn\n"
		var out bytes.Buffer
		io := IOTuple{
			Reader: bytes.NewBufferString(userInput),
			Writer: &out,
		}

		err := RunCreateRole(ctx, mockUseCase, logger, "Dispatcher", "", "", "json", io)

		require.NoError(t, err)
		require.Contains(t, out.String(), roleID.String())
		require.Contains(t, out.String(), "custom_dispatcher_b2c3d4e5")
		require.Contains(t, out.String(), "{") // Should be JSON
		mockUseCase.AssertExpectations(t)
	})

	t.Run("invalid-capabilities-json", func(t *testing.T) {
		mockUseCase := &mockCustomRoleUseCase{}
		io := IOTuple{
			Reader: nil,
			Writer: &bytes.Buffer{},
		}

		err := RunCreateRole(ctx, mockUseCase, logger, "Broken", "", `invalid-json`, "text", io)

		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to parse capabilities JSON")
	})

	t.Run("unknown-access-level-name", func(t *testing.T) {
		mockUseCase := &mockCustomRoleUseCase{}
		io := IOTuple{
			Reader: nil,
			Writer: &bytes.Buffer{},
		}

		err := RunCreateRole(ctx, mockUseCase, logger, "Broken", "", `{"vehicle.view":"admin"}`, "text", io)

		require.Error(t, err)
		mockUseCase.AssertNotCalled(t, "CreateFromScratch")
	})

	t.Run("empty-capabilities", func(t *testing.T) {
		mockUseCase := &mockCustomRoleUseCase{}
		io := IOTuple{
			Reader: nil,
			Writer: &bytes.Buffer{},
		}

		err := RunCreateRole(ctx, mockUseCase, logger, "Broken", "", `{}`, "text", io)

		require.Error(t, err)
		require.Contains(t, err.Error(), "at least one capability is required")
	})
}
