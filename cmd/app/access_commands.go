package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/authz/cmd/app/commands"
	"github.com/allisson/authz/internal/app"
	"github.com/allisson/authz/internal/config"
)

func getAccessCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "seed-capabilities",
			Usage: "Insert any missing built-in capabilities into the catalog",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				catalogUseCase, err := container.CatalogUseCase()
				if err != nil {
					return err
				}

				return commands.RunSeedCapabilities(
					ctx,
					catalogUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "seed-templates",
			Usage: "Insert any missing built-in role templates",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				templateUseCase, err := container.TemplateUseCase()
				if err != nil {
					return err
				}

				return commands.RunSeedTemplates(
					ctx,
					templateUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "create-role",
			Usage: "Create a new custom role from a capability map",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "name",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "Human-readable role name",
				},
				&cli.StringFlag{
					Name:    "description",
					Aliases: []string{"d"},
					Usage:   "Role description",
				},
				&cli.StringFlag{
					Name:    "capabilities",
					Aliases: []string{"c"},
					Usage:   "JSON object of capability key to access level (omit for interactive mode)",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				customRoleUseCase, err := container.CustomRoleUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateRole(
					ctx,
					customRoleUseCase,
					container.Logger(),
					cmd.String("name"),
					cmd.String("description"),
					cmd.String("capabilities"),
					cmd.String("format"),
					commands.DefaultIO(),
				)
			},
		},
	}
}
