package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	accessUseCase "github.com/allisson/authz/internal/access/usecase"
)

// RunSeedCapabilities inserts every built-in capability that is not already
// present in the catalog. Existing rows are never mutated, so the command is
// safe to run on every deploy. Outputs the inserted count in either text or
// JSON format.
//
// Requirements: Database must be migrated and accessible.
func RunSeedCapabilities(
	ctx context.Context,
	catalogUseCase accessUseCase.CatalogUseCase,
	logger *slog.Logger,
	writer io.Writer,
	format string,
) error {
	logger.Info("seeding capability catalog")

	inserted, err := catalogUseCase.Seed(ctx)
	if err != nil {
		return fmt.Errorf("failed to seed capabilities: %w", err)
	}

	// Output result based on format
	if format == "json" {
		outputSeedJSON("capabilities", inserted, writer)
	} else {
		outputSeedText("capabilities", inserted, writer)
	}

	logger.Info("capability catalog seeded",
		slog.Int("inserted", inserted),
	)

	return nil
}

// outputSeedText outputs the result in human-readable text format.
func outputSeedText(kind string, inserted int, writer io.Writer) {
	if inserted == 0 {
		_, _ = fmt.Fprintf(writer, "All built-in %s are already present\n", kind)
	} else {
		_, _ = fmt.Fprintf(writer, "Inserted %d built-in %s\n", inserted, kind)
	}
}

// outputSeedJSON outputs the result in JSON format for machine consumption.
func outputSeedJSON(kind string, inserted int, writer io.Writer) {
	result := map[string]interface{}{
		"kind":     kind,
		"inserted": inserted,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
		return
	}

	_, _ = fmt.Fprintln(writer, string(jsonBytes))
}
