package main

import (
	"context"
	"fmt"

	cli "github.com/urfave/cli/v3"
)

func settingsCommand() *cli.Command {
	return &cli.Command{
		Name:  "settings",
		Usage: "Show or change the push service settings",
		Commands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Print the backend URL and whether an API key is set",
				Action: withApp(showSettings),
			},
			{
				Name:  "set",
				Usage: "Save the backend URL and/or API key",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "backend-url", Usage: "Push service base URL"},
					&cli.StringFlag{Name: "api-key", Usage: "Push service API key"},
				},
				Action: withApp(setSettings),
			},
		},
	}
}

func showSettings(ctx context.Context, _ *cli.Command, a *app) error {
	settings, err := a.settings.Load(ctx)
	if err != nil {
		return err
	}

	apiKey := "(not set)"
	if settings.APIKey != "" {
		apiKey = mask(settings.APIKey)
	}

	fmt.Fprintf(a.out, "backend url: %s\napi key:     %s\n", settings.BackendURL, apiKey)

	return nil
}

func setSettings(ctx context.Context, command *cli.Command, a *app) error {
	if !command.IsSet("backend-url") && !command.IsSet("api-key") {
		return cli.Exit("nothing to change, pass --backend-url and/or --api-key", 2)
	}

	if !command.IsSet("backend-url") {
		return a.settings.SetAPIKey(ctx, command.String("api-key"))
	}

	settings, err := a.settings.Load(ctx)
	if err != nil {
		return err
	}

	settings.BackendURL = command.String("backend-url")
	if command.IsSet("api-key") {
		settings.APIKey = command.String("api-key")
	}

	return a.settings.Save(ctx, settings)
}

// mask keeps the last four characters of secret.
func mask(secret string) string {
	if len(secret) <= 4 {
		return "****"
	}

	return "****" + secret[len(secret)-4:]
}
