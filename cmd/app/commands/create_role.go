package commands

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	accessDomain "github.com/allisson/authz/internal/access/domain"
	accessUseCase "github.com/allisson/authz/internal/access/usecase"
)

// RunCreateRole creates a new custom role from an explicit capability map.
// Supports both interactive mode (when capabilitiesJSON is empty) and
// non-interactive mode (when capabilitiesJSON is provided). Outputs the role
// ID and generated role key in either text or JSON format.
//
// Requirements: Database must be migrated and the capability catalog seeded.
func RunCreateRole(
	ctx context.Context,
	customRoleUseCase accessUseCase.CustomRoleUseCase,
	logger *slog.Logger,
	name string,
	description string,
	capabilitiesJSON string,
	format string,
	io IOTuple,
) error {
	logger.Info("creating new custom role", slog.String("name", name))

	// Parse or prompt for capabilities
	var capabilities map[string]accessDomain.AccessLevel
	var err error

	if capabilitiesJSON == "" {
		// Interactive mode
		capabilities, err = promptForCapabilities(io)
		if err != nil {
			return fmt.Errorf("failed to get capabilities: %w", err)
		}
	} else {
		// Non-interactive mode: parse JSON
		if err := json.Unmarshal([]byte(capabilitiesJSON), &capabilities); err != nil {
			return fmt.Errorf("failed to parse capabilities JSON: %w", err)
		}
	}

	// Validate that at least one capability was provided
	if len(capabilities) == 0 {
		return fmt.Errorf("at least one capability is required")
	}

	// Create input
	input := &accessDomain.CreateCustomRoleInput{
		Name:         name,
		Description:  description,
		Capabilities: capabilities,
	}

	// Create the role
	role, err := customRoleUseCase.CreateFromScratch(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to create custom role: %w", err)
	}

	// Output result based on format
	if format == "json" {
		outputRoleJSON(role, io.Writer)
	} else {
		outputRoleText(role, io.Writer)
	}

	logger.Info("custom role created successfully",
		slog.String("role_id", role.ID.String()),
		slog.String("role_key", role.RoleKey),
		slog.String("name", name),
	)

	return nil
}

// promptForCapabilities interactively prompts the user to enter capability
// grants. Accepts multiple grants until the user declines.
func promptForCapabilities(io IOTuple) (map[string]accessDomain.AccessLevel, error) {
	reader := bufio.NewReader(io.Reader)
	writer := io.Writer
	capabilities := make(map[string]accessDomain.AccessLevel)

	_, _ = fmt.Fprintln(writer, "\nEnter capabilities for the role")
	_, _ = fmt.Fprintln(writer, "Available levels: none, view, limited, full")
	_, _ = fmt.Fprintln(writer)

	grantNum := 1
	for {
		_, _ = fmt.Fprintf(writer, "Capability #%d\n", grantNum)

		// Get capability key
		_, _ = fmt.Fprint(writer, "Enter capability key (e.g., 'vehicle.view'): ")
		key, err := reader.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("failed to read capability key: %w", err)
		}
		key = strings.TrimSpace(key)

		if key == "" {
			return nil, fmt.Errorf("capability key cannot be empty")
		}

		// Get access level
		_, _ = fmt.Fprint(writer, "Enter access level (none, view, limited, full): ")
		levelInput, err := reader.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("failed to read access level: %w", err)
		}

		level, err := accessDomain.ParseAccessLevel(strings.TrimSpace(levelInput))
		if err != nil {
			return nil, err
		}

		capabilities[key] = level

		// Ask if user wants to add another
		_, _ = fmt.Fprint(writer, "Add another capability? (y/n): ")
		addAnother, err := reader.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("failed to read input: %w", err)
		}
		addAnother = strings.ToLower(strings.TrimSpace(addAnother))

		if addAnother != "y" && addAnother != "yes" {
			break
		}

		_, _ = fmt.Fprintln(writer)
		grantNum++
	}

	return capabilities, nil
}

// outputRoleText outputs the result in human-readable text format.
func outputRoleText(role *accessDomain.CustomRole, writer io.Writer) {
	_, _ = fmt.Fprintln(writer, "\nCustom role created successfully!")
	_, _ = fmt.Fprintf(writer, "Role ID: %s\n", role.ID.String())
	_, _ = fmt.Fprintf(writer, "Role key: %s\n", role.RoleKey)
	_, _ = fmt.Fprintf(writer, "Capabilities: %d\n", len(role.Capabilities))
}

// outputRoleJSON outputs the result in JSON format for machine consumption.
func outputRoleJSON(role *accessDomain.CustomRole, writer io.Writer) {
	result := map[string]interface{}{
		"role_id":      role.ID.String(),
		"role_key":     role.RoleKey,
		"capabilities": len(role.Capabilities),
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
		return
	}

	_, _ = fmt.Fprintln(writer, string(jsonBytes))
}
