package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dukex/timely/pkg/cmd"
	"github.com/dukex/timely/pkg/engine"
	"github.com/dukex/timely/pkg/eventbus"
	"github.com/dukex/timely/pkg/events"
	"github.com/dukex/timely/pkg/log"
	"github.com/dukex/timely/pkg/models"
	"github.com/dukex/timely/pkg/otelhelper"
	"github.com/dukex/timely/pkg/persistence"
	"github.com/dukex/timely/pkg/registry"
	"github.com/dukex/timely/pkg/services"
	"github.com/dukex/timely/pkg/status"
	cli "github.com/urfave/cli/v3"
	"go.opentelemetry.io/otel/trace"
)

// app holds the services one command invocation works with.
type app struct {
	logger      *slog.Logger
	persistence *persistence.Persistence
	eventBus    eventbus.EventBus
	board       *status.Board
	registry    *registry.Registry
	scenarios   *services.Scenarios
	settings    *services.Settings
	engine      *engine.Engine
	editor      *services.Editor

	out io.Writer
	in  io.Reader

	shutdownTracer otelhelper.ShutdownFunc
}

func newApp(ctx context.Context, command *cli.Command) (*app, error) {
	log.Setup(command.String("log-level"), command.String("log-format"))
	logger := log.WithModule("timely")

	a := &app{logger: logger, out: writer(command), in: reader(command)}

	var tracer trace.Tracer

	if command.Bool("otel") {
		t, shutdown, err := otelhelper.NewTracer(ctx, "timely")
		if err != nil {
			return nil, fmt.Errorf("failed to set up tracing: %w", err)
		}

		tracer = t
		a.shutdownTracer = shutdown
	}

	p, err := cmd.NewPersistence(ctx, logger, command.String("database-url"))
	if err != nil {
		a.Close(ctx)

		return nil, err
	}

	a.persistence = p

	bus, err := cmd.NewEventBus(command.String("event-bus"), logger)
	if err != nil {
		a.Close(ctx)

		return nil, err
	}

	a.eventBus = bus
	a.board = status.NewBoard(status.WithListener(a.publishStatus))
	a.registry = cmd.NewRegistry(logger)
	a.scenarios = services.NewScenarios(p, logger.With("service", "scenarios"))
	a.settings = services.NewSettings(p)

	opts := []engine.Option{
		engine.WithPromoter(a.scenarios),
		engine.WithPublisher(bus),
		engine.WithStatus(a.board),
		engine.WithLogger(logger.With("service", "engine")),
	}
	if tracer != nil {
		opts = append(opts, engine.WithTracer(tracer))
	}

	a.engine = engine.New(engine.NewHTTPDispatcher(command.Duration("request-timeout")), opts...)
	a.editor = services.NewEditor(p, a.scenarios, a.settings, a.registry, a.engine, logger)

	return a, nil
}

func (a *app) publishStatus(current models.ExecutionStatus) {
	if a.eventBus == nil {
		return
	}

	err := a.eventBus.Publish(context.Background(), "", events.StatusChanged{
		BaseEvent: events.NewBaseEvent(events.StatusChangedEvent, ""),
		Kind:      string(current.Kind),
		Message:   current.Message,
	})
	if err != nil {
		a.logger.Warn("Failed to publish status", "error", err)
	}
}

// Close releases everything newApp opened.
func (a *app) Close(ctx context.Context) {
	if a.board != nil {
		a.board.Dismiss()
	}

	if a.eventBus != nil {
		err := a.eventBus.Close()
		if err != nil {
			a.logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
		}
	}

	if a.persistence != nil {
		err := a.persistence.Close(ctx)
		if err != nil {
			a.logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
		}
	}

	if a.shutdownTracer != nil {
		err := a.shutdownTracer(ctx)
		if err != nil {
			a.logger.ErrorContext(ctx, "Failed to flush traces", "error", err)
		}
	}
}

// withApp runs fn with a freshly wired app.
func withApp(fn func(ctx context.Context, command *cli.Command, a *app) error) cli.ActionFunc {
	return func(ctx context.Context, command *cli.Command) error {
		a, err := newApp(ctx, command)
		if err != nil {
			return err
		}
		defer a.Close(ctx)

		return fn(ctx, command, a)
	}
}

func writer(command *cli.Command) io.Writer {
	if w := command.Root().Writer; w != nil {
		return w
	}

	return os.Stdout
}

func reader(command *cli.Command) io.Reader {
	if r := command.Root().Reader; r != nil {
		return r
	}

	return os.Stdin
}

// args returns exactly n positional arguments or a usage error.
func args(command *cli.Command, n int) ([]string, error) {
	if command.NArg() != n {
		return nil, cli.Exit(fmt.Sprintf("usage: %s %s", command.FullName(), command.ArgsUsage), 2)
	}

	return command.Args().Slice(), nil
}
