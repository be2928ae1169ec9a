package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dukex/timely/pkg/engine"
	"github.com/dukex/timely/pkg/events"
	cli "github.com/urfave/cli/v3"
)

// drainTimeout bounds the wait for the final run event after the engine returns.
const drainTimeout = 2 * time.Second

func runCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "Send the scenario's push notification to every token",
		ArgsUsage: "<scenario-id>",
		Action:    withApp(runScenario),
	}
}

func runScenario(ctx context.Context, command *cli.Command, a *app) error {
	positional, err := args(command, 1)
	if err != nil {
		return err
	}

	session, err := a.editor.Open(ctx, positional[0])
	if err != nil {
		return err
	}

	done, err := a.printProgress(ctx)
	if err != nil {
		return err
	}

	report, err := session.Run(ctx)

	select {
	case <-done:
	case <-time.After(drainTimeout):
		a.logger.DebugContext(ctx, "Run events not received in time")
	}

	if err != nil {
		if errors.Is(err, engine.ErrBusy) {
			return cli.Exit(err.Error(), 1)
		}

		return cli.Exit(engine.UserMessage(err), 1)
	}

	if !report.Succeeded() {
		return cli.Exit(report.Message, 1)
	}

	fmt.Fprintln(a.out, report.Message)

	if report.Promoted {
		fmt.Fprintln(a.out, "scenario is now active")
	}

	return nil
}

// printProgress prints run events as they arrive. The returned channel is
// closed once the run completed or failed.
func (a *app) printProgress(ctx context.Context) (<-chan struct{}, error) {
	done := make(chan struct{})
	finish := sync.OnceFunc(func() { close(done) })

	handlers := map[events.EventType]func(event any){
		events.ExecutionStartedEvent: func(event any) {
			if started, ok := event.(*events.ExecutionStarted); ok {
				fmt.Fprintf(a.out, "sending to %d devices\n", started.Total)
			}
		},
		events.NotificationDispatchedEvent: func(event any) {
			dispatched, ok := event.(*events.NotificationDispatched)
			if !ok {
				return
			}

			if dispatched.Success {
				fmt.Fprintf(a.out, "  #%d delivered\n", dispatched.TokenIndex+1)
			} else {
				fmt.Fprintf(a.out, "  #%d failed: %s\n", dispatched.TokenIndex+1, dispatched.Error)
			}
		},
		events.ExecutionCompletedEvent: func(any) { finish() },
		events.ExecutionFailedEvent:    func(any) { finish() },
	}

	for eventType, handle := range handlers {
		err := a.eventBus.Handle(eventType, func(_ context.Context, event any) error {
			handle(event)

			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	err := a.eventBus.Subscribe(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to run events: %w", err)
	}

	return done, nil
}
