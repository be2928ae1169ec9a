package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dukex/timely/pkg/canvas"
	cli "github.com/urfave/cli/v3"
)

func canvasCommand() *cli.Command {
	return &cli.Command{
		Name:  "canvas",
		Usage: "Drive the canvas controller",
		Commands: []*cli.Command{
			{
				Name:      "replay",
				Usage:     "Feed recorded pointer and key events to a scenario's canvas",
				ArgsUsage: "<scenario-id> <events.json>",
				Flags: []cli.Flag{
					&cli.Float64Flag{
						Name:  "pan-sensitivity",
						Usage: "Scroll distance per pointer pixel while panning",
						Value: canvas.DefaultPanSensitivity,
					},
				},
				Action: withApp(replayCanvas),
			},
		},
	}
}

func replayCanvas(ctx context.Context, command *cli.Command, a *app) error {
	positional, err := args(command, 2)
	if err != nil {
		return err
	}

	file, err := os.Open(positional[1])
	if err != nil {
		return fmt.Errorf("failed to open events file: %w", err)
	}
	defer file.Close()

	recorded, err := canvas.DecodeEvents(file)
	if err != nil {
		return err
	}

	session, err := a.editor.Open(ctx, positional[0], canvas.WithPanSensitivity(command.Float64("pan-sensitivity")))
	if err != nil {
		return err
	}

	controller := session.Canvas()

	err = controller.Replay(ctx, recorded)
	if err != nil {
		return err
	}

	scroll := controller.Scroll()
	fmt.Fprintf(a.out, "state: %s\nscroll: (%g, %g)\n", controller.State(), scroll.X, scroll.Y)

	if selected := controller.Selected(); selected != "" {
		fmt.Fprintf(a.out, "selected: %s\n", selected)
	}

	if request, ok := session.PendingConfig(); ok {
		fmt.Fprintf(a.out, "open config: %s (%s)\n", request.NodeID, request.Type)
	}

	for _, node := range session.Graph().Nodes() {
		fmt.Fprintf(a.out, "%s\t%s\t(%g, %g)\n", node.ID, node.Type, node.Position.X, node.Position.Y)
	}

	return nil
}
