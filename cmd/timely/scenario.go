package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dukex/timely/pkg/models"
	"github.com/dukex/timely/pkg/services"
	cli "github.com/urfave/cli/v3"
)

func scenarioCommand() *cli.Command {
	return &cli.Command{
		Name:    "scenario",
		Aliases: []string{"s"},
		Usage:   "Manage scenarios",
		Commands: []*cli.Command{
			{
				Name:   "create",
				Usage:  "Create a draft scenario",
				Action: withApp(createScenario),
			},
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List scenarios, newest first",
				Action:  withApp(listScenarios),
			},
			{
				Name:      "rename",
				Usage:     "Rename a scenario",
				ArgsUsage: "<scenario-id> <name>",
				Action:    withApp(renameScenario),
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "Delete a scenario and its nodes",
				ArgsUsage: "<scenario-id>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "yes",
						Aliases: []string{"y"},
						Usage:   "Skip the confirmation prompt",
					},
				},
				Action: withApp(deleteScenario),
			},
			{
				Name:      "show",
				Usage:     "Print a scenario and its nodes as JSON",
				ArgsUsage: "<scenario-id>",
				Action:    withApp(showScenario),
			},
		},
	}
}

func createScenario(ctx context.Context, _ *cli.Command, a *app) error {
	scenario, err := a.scenarios.Create(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s\t%s\n", scenario.ID, scenario.Name)

	return nil
}

func listScenarios(ctx context.Context, _ *cli.Command, a *app) error {
	scenarios, err := a.scenarios.List(ctx)
	if err != nil {
		return err
	}

	stats, err := a.scenarios.Stats(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSTATUS\tCREATED")

	for _, scenario := range scenarios {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", scenario.ID, scenario.Name, scenario.Status, scenario.CreatedAt.Local().Format("1/2/2006"))
	}

	err = w.Flush()
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "\n%d scenarios, %d active\n", stats.Total, stats.Active)

	return nil
}

func renameScenario(ctx context.Context, command *cli.Command, a *app) error {
	if command.NArg() < 2 {
		_, err := args(command, 2)

		return err
	}

	id := command.Args().First()
	name := strings.Join(command.Args().Tail(), " ")

	scenario, err := a.scenarios.Rename(ctx, id, name)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s\t%s\n", scenario.ID, scenario.Name)

	return nil
}

func deleteScenario(ctx context.Context, command *cli.Command, a *app) error {
	positional, err := args(command, 1)
	if err != nil {
		return err
	}

	var confirmer services.Confirmer = promptConfirmer{in: a.in, out: a.out}
	if command.Bool("yes") {
		confirmer = services.ConfirmFunc(func(context.Context, string) bool { return true })
	}

	err = a.scenarios.Delete(ctx, positional[0], confirmer)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, "deleted", positional[0])

	return nil
}

type scenarioView struct {
	*models.Scenario

	Nodes []*models.Node `json:"nodes"`
}

func showScenario(ctx context.Context, command *cli.Command, a *app) error {
	positional, err := args(command, 1)
	if err != nil {
		return err
	}

	session, err := a.editor.Open(ctx, positional[0])
	if err != nil {
		return err
	}

	scenario := session.Scenario()
	if scenario == nil && session.Graph().Len() == 0 {
		return services.ErrScenarioNotFound
	}

	encoder := json.NewEncoder(a.out)
	encoder.SetIndent("", "  ")

	return encoder.Encode(scenarioView{Scenario: scenario, Nodes: session.Graph().Nodes()})
}

// promptConfirmer asks on out and reads a y/yes answer from in.
type promptConfirmer struct {
	in  io.Reader
	out io.Writer
}

func (p promptConfirmer) Confirm(_ context.Context, prompt string) bool {
	fmt.Fprintf(p.out, "%s [y/N] ", prompt)

	answer, err := bufio.NewReader(p.in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}

	answer = strings.ToLower(strings.TrimSpace(answer))

	return answer == "y" || answer == "yes"
}
