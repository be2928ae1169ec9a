package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dukex/timely/pkg/models"
	"github.com/dukex/timely/pkg/services"
	"github.com/go-playground/validator/v10"
	cli "github.com/urfave/cli/v3"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func nodeCommand() *cli.Command {
	return &cli.Command{
		Name:    "node",
		Aliases: []string{"n"},
		Usage:   "Edit the nodes of a scenario",
		Commands: []*cli.Command{
			{
				Name:   "types",
				Usage:  "List the available node types",
				Action: withApp(listNodeTypes),
			},
			{
				Name:      "add",
				Usage:     "Add a node (now, condition, mobile_push)",
				ArgsUsage: "<scenario-id> <type>",
				Action:    withApp(addNode),
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "Delete a node",
				ArgsUsage: "<scenario-id> <node-id>",
				Action:    withApp(deleteNode),
			},
			{
				Name:      "config",
				Usage:     "Change node configuration fields",
				ArgsUsage: "<scenario-id> <node-id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Usage: "Push notification title"},
					&cli.StringFlag{Name: "body", Usage: "Push notification body"},
					&cli.StringFlag{Name: "tokens", Usage: `Device tokens separated by commas or "\n"`},
				},
				Action: withApp(configureNode),
			},
			{
				Name:      "move",
				Usage:     "Place a node at absolute canvas coordinates",
				ArgsUsage: "<scenario-id> <node-id> <x> <y>",
				Action:    withApp(moveNode),
			},
		},
	}
}

func listNodeTypes(_ context.Context, _ *cli.Command, a *app) error {
	for _, factory := range a.registry.Factories() {
		fmt.Fprintf(a.out, "%-12s %-8s %-24s %s\n", factory.ID(), factory.Label(), factory.Name(), factory.Description())
	}

	return nil
}

func addNode(ctx context.Context, command *cli.Command, a *app) error {
	positional, err := args(command, 2)
	if err != nil {
		return err
	}

	err = validate.Var(positional[1], "required,oneof=now condition mobile_push")
	if err != nil {
		return cli.Exit("unknown node type "+strconv.Quote(positional[1]), 2)
	}

	session, err := a.editor.Open(ctx, positional[0])
	if err != nil {
		return err
	}

	node, err := session.Graph().AddNode(ctx, models.NodeType(positional[1]))
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s\t%s\t(%g, %g)\n", node.ID, node.Title, node.Position.X, node.Position.Y)

	return nil
}

func deleteNode(ctx context.Context, command *cli.Command, a *app) error {
	positional, err := args(command, 2)
	if err != nil {
		return err
	}

	session, err := a.editor.Open(ctx, positional[0])
	if err != nil {
		return err
	}

	if _, ok := session.Graph().Node(positional[1]); !ok {
		return services.ErrNodeNotFound
	}

	session.Graph().DeleteNode(ctx, positional[1])
	fmt.Fprintln(a.out, "deleted", positional[1])

	return nil
}

func configureNode(ctx context.Context, command *cli.Command, a *app) error {
	positional, err := args(command, 2)
	if err != nil {
		return err
	}

	changes := configChanges(command)
	if len(changes) == 0 {
		return cli.Exit("nothing to change, pass --title, --body or --tokens", 2)
	}

	session, err := a.editor.Open(ctx, positional[0])
	if err != nil {
		return err
	}

	node, err := session.EditNodeConfig(ctx, positional[1], changes)
	if err != nil {
		return err
	}

	for key, value := range node.Config {
		fmt.Fprintf(a.out, "%s=%v\n", key, value)
	}

	return nil
}

func moveNode(ctx context.Context, command *cli.Command, a *app) error {
	positional, err := args(command, 4)
	if err != nil {
		return err
	}

	x, err := strconv.ParseFloat(positional[2], 64)
	if err != nil {
		return cli.Exit("x must be a number", 2)
	}

	y, err := strconv.ParseFloat(positional[3], 64)
	if err != nil {
		return cli.Exit("y must be a number", 2)
	}

	session, err := a.editor.Open(ctx, positional[0])
	if err != nil {
		return err
	}

	if _, ok := session.Graph().Node(positional[1]); !ok {
		return services.ErrNodeNotFound
	}

	session.Graph().UpdateNodePosition(ctx, positional[1], x, y)
	fmt.Fprintf(a.out, "%s\t(%g, %g)\n", positional[1], x, y)

	return nil
}

// configChanges collects the config fields given on the command line. A
// literal "\n" in a value becomes a newline so token lists can be typed.
func configChanges(command *cli.Command) map[string]any {
	changes := make(map[string]any)

	for _, field := range []string{"title", "body", "tokens"} {
		if command.IsSet(field) {
			changes[field] = strings.ReplaceAll(command.String(field), `\n`, "\n")
		}
	}

	return changes
}
