package commands

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/authz/internal/errors"
)

func TestRunSeedTemplates(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	t.Run("text", func(t *testing.T) {
		mockUseCase := &mockTemplateUseCase{}
		mockUseCase.On("SeedBuiltins", ctx).Return(4, nil)

		var out bytes.Buffer
		err := RunSeedTemplates(ctx, mockUseCase, logger, &out, "text")

		require.NoError(t, err)
		require.Contains(t, out.String(), "Inserted 4 built-in templates")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("json", func(t *testing.T) {
		mockUseCase := &mockTemplateUseCase{}
		mockUseCase.On("SeedBuiltins", ctx).Return(0, nil)

		var out bytes.Buffer
		err := RunSeedTemplates(ctx, mockUseCase, logger, &out, "json")

		require.NoError(t, err)
		require.Contains(t, out.String(), `"inserted": 0`)
		require.Contains(t, out.String(), `"kind": "templates"`)
	})

	t.Run("seed-error", func(t *testing.T) {
		mockUseCase := &mockTemplateUseCase{}
		mockUseCase.On("SeedBuiltins", ctx).Return(0, apperrors.New("db down"))

		var out bytes.Buffer
		err := RunSeedTemplates(ctx, mockUseCase, logger, &out, "text")

		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to seed templates")
	})
}
