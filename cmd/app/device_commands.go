package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/sampletrack/cmd/app/commands"
	"github.com/allisson/sampletrack/internal/app"
	"github.com/allisson/sampletrack/internal/config"
)

func getDeviceCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "register-device",
			Usage: "Register a push-capable device for a client",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "client-id",
					Aliases:  []string{"c"},
					Required: true,
					Usage:    "Client ID (UUID)",
				},
				&cli.StringFlag{
					Name:     "token",
					Aliases:  []string{"t"},
					Required: true,
					Usage:    "Push token issued to the device",
				},
				&cli.StringFlag{
					Name:     "platform",
					Aliases:  []string{"p"},
					Required: true,
					Usage:    "Device platform: 'ios', 'android' or 'web'",
				},
				&cli.StringFlag{
					Name:  "device-info",
					Usage: "JSON object with free-form device details",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				deviceUseCase, err := container.DeviceUseCase()
				if err != nil {
					return err
				}

				return commands.RunRegisterDevice(
					ctx,
					deviceUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("client-id"),
					cmd.String("token"),
					cmd.String("platform"),
					cmd.String("device-info"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "deactivate-device",
			Usage: "Stop sending notifications to a device token",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "token",
					Aliases:  []string{"t"},
					Required: true,
					Usage:    "Push token to deactivate",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				deviceUseCase, err := container.DeviceUseCase()
				if err != nil {
					return err
				}

				return commands.RunDeactivateDevice(
					ctx,
					deviceUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("token"),
				)
			},
		},
	}
}
