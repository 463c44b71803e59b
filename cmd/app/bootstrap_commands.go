package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/strichliste/bootstrap/cmd/app/commands"
	"github.com/strichliste/bootstrap/internal/app"
	"github.com/strichliste/bootstrap/internal/config"
)

func getBootstrapCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "bootstrap",
			Usage: "Generate fresh secrets, mint role tokens and write the gateway config",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "mode",
					Aliases: []string{"m"},
					Usage:   "Bootstrap mode: 'generated' or 'operator' (defaults to BOOTSTRAP_MODE)",
				},
				&cli.StringFlag{
					Name:    "location",
					Aliases: []string{"l"},
					Usage:   "Also write the setup page for this device location",
				},
				&cli.StringFlag{
					Name:    "password-file",
					Aliases: []string{"p"},
					Usage:   "Operator password file, '-' for stdin (omit for interactive prompt)",
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

				useCase, err := container.BootstrapUseCase()
				if err != nil {
					return err
				}

				mode := cmd.String("mode")
				if mode == "" {
					mode = cfg.Mode
				}

				io := commands.DefaultIO()
				return commands.RunBootstrap(
					ctx,
					useCase,
					container.Logger(),
					mode,
					cmd.String("location"),
					commands.NewPasswordSource(cmd.String("password-file"), io),
					cmd.String("format"),
					io,
				)
			},
		},
		{
			Name:  "device-setup",
			Usage: "Write the setup page for one ordering device from the stored secrets",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "location",
					Aliases:  []string{"l"},
					Required: true,
					Usage:    "Device location (letters, digits, '-' and '_')",
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

				useCase, err := container.BootstrapUseCase()
				if err != nil {
					return err
				}

				return commands.RunDeviceSetup(
					ctx,
					useCase,
					container.Logger(),
					cmd.String("location"),
					cmd.String("format"),
					commands.DefaultIO(),
				)
			},
		},
		{
			Name:  "render-schema",
			Usage: "Substitute the stored gateway password into a schema template",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "template",
					Aliases:  []string{"t"},
					Required: true,
					Usage:    "Schema template containing the $PASSWORD placeholder",
				},
				&cli.StringFlag{
					Name:     "output",
					Aliases:  []string{"o"},
					Required: true,
					Usage:    "Path of the rendered script",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)

				useCase, err := container.BootstrapUseCase()
				if err != nil {
					return err
				}

				return commands.RunRenderSchema(
					ctx,
					useCase,
					container.Logger(),
					cmd.String("template"),
					cmd.String("output"),
					commands.DefaultIO(),
				)
			},
		},
	}
}
