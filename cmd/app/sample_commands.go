package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/sampletrack/cmd/app/commands"
	"github.com/allisson/sampletrack/internal/app"
	"github.com/allisson/sampletrack/internal/config"
)

func actorFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "actor-id",
			Required: true,
			Usage:    "Identifier of the user performing the operation",
		},
		&cli.StringFlag{
			Name:  "actor-name",
			Usage: "Display name of the user",
		},
		&cli.StringFlag{
			Name:  "actor-role",
			Usage: "Role of the user (e.g., technician)",
		},
		&cli.StringFlag{
			Name:  "actor-document",
			Usage: "Document number of the user",
		},
	}
}

func actorFromFlags(cmd *cli.Command) commands.ActorArgs {
	return commands.ActorArgs{
		ID:       cmd.String("actor-id"),
		Name:     cmd.String("actor-name"),
		Role:     cmd.String("actor-role"),
		Document: cmd.String("actor-document"),
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   "text",
		Usage:   "Output format: 'text' or 'json'",
	}
}

func getSampleCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-sample",
			Usage: "Register a new sample in the received status",
			Flags: append([]cli.Flag{
				&cli.StringFlag{
					Name:     "client-id",
					Aliases:  []string{"c"},
					Required: true,
					Usage:    "Owning client ID (UUID)",
				},
				formatFlag(),
			}, actorFlags()...),
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				sampleUseCase, err := container.SampleUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateSample(
					ctx,
					sampleUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("client-id"),
					actorFromFlags(cmd),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "change-status",
			Usage: "Move a sample to another status, recording the audit entry and notifying devices",
			Flags: append([]cli.Flag{
				&cli.StringFlag{
					Name:     "sample-id",
					Aliases:  []string{"i"},
					Required: true,
					Usage:    "Sample ID (UUID)",
				},
				&cli.StringFlag{
					Name:     "status",
					Aliases:  []string{"s"},
					Required: true,
					Usage:    "Target status (received, in_analysis, finalized, in_quotation, rejected, accepted)",
				},
				formatFlag(),
			}, actorFlags()...),
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				statusUseCase, err := container.StatusUseCase()
				if err != nil {
					return err
				}

				return commands.RunChangeStatus(
					ctx,
					statusUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("sample-id"),
					cmd.String("status"),
					actorFromFlags(cmd),
					cmd.String("format"),
				)
			},
		},
	}
}
