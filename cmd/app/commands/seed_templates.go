package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	accessUseCase "github.com/allisson/authz/internal/access/usecase"
)

// RunSeedTemplates inserts every built-in role template that is not already
// present. Templates are immutable once stored, so existing rows are left
// untouched. Outputs the inserted count in either text or JSON format.
//
// Requirements: Database must be migrated and accessible.
func RunSeedTemplates(
	ctx context.Context,
	templateUseCase accessUseCase.TemplateUseCase,
	logger *slog.Logger,
	writer io.Writer,
	format string,
) error {
	logger.Info("seeding built-in role templates")

	inserted, err := templateUseCase.SeedBuiltins(ctx)
	if err != nil {
		return fmt.Errorf("failed to seed templates: %w", err)
	}

	// Output result based on format
	if format == "json" {
		outputSeedJSON("templates", inserted, writer)
	} else {
		outputSeedText("templates", inserted, writer)
	}

	logger.Info("built-in templates seeded",
		slog.Int("inserted", inserted),
	)

	return nil
}
