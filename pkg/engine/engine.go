// Package engine runs a scenario: it checks the flow, then sends one push
// notification per device token, in order, through the push service.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/dukex/timely/pkg/eventbus"
	"github.com/dukex/timely/pkg/events"
	"github.com/dukex/timely/pkg/models"
	"github.com/dukex/timely/pkg/nodes/condition"
	"github.com/dukex/timely/pkg/otelhelper"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// NodeFinder looks nodes up by type. *graph.Graph implements it.
type NodeFinder interface {
	FindByType(nodeType models.NodeType) (*models.Node, bool)
}

// Promoter marks a scenario active after its first successful run.
type Promoter interface {
	PromoteToActive(ctx context.Context, scenarioID string) error
}

// StatusSink receives user-visible progress and outcome messages.
// *status.Board implements it.
type StatusSink interface {
	Success(message string)
	Error(message string)
}

// RunRequest is everything a run reads. Settings are passed per call.
type RunRequest struct {
	Scenario *models.Scenario // nil when the record is missing; promotion is then skipped
	Flow     NodeFinder
	Settings models.Settings
}

// Report is the outcome of a run that reached the dispatch phase.
type Report struct {
	ScenarioID string
	Total      int
	Sent       int
	Failure    error // most specific dispatch failure, nil when every token succeeded
	Promoted   bool
	Message    string
}

// Succeeded reports whether at least one notification was delivered.
func (r *Report) Succeeded() bool {
	return r.Sent > 0
}

// Engine executes scenarios. Only one run is in flight per engine.
type Engine struct {
	dispatcher Dispatcher
	promoter   Promoter
	publisher  eventbus.EventPublisher
	status     StatusSink
	tracer     trace.Tracer
	logger     *slog.Logger

	running atomic.Bool
}

// Option configures an Engine.
type Option func(*Engine)

func WithPromoter(promoter Promoter) Option {
	return func(e *Engine) { e.promoter = promoter }
}

func WithPublisher(publisher eventbus.EventPublisher) Option {
	return func(e *Engine) { e.publisher = publisher }
}

func WithStatus(sink StatusSink) Option {
	return func(e *Engine) { e.status = sink }
}

func WithTracer(tracer trace.Tracer) Option {
	return func(e *Engine) { e.tracer = tracer }
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// New creates an engine sending through dispatcher.
func New(dispatcher Dispatcher, opts ...Option) *Engine {
	e := &Engine{
		dispatcher: dispatcher,
		tracer:     otelhelper.Tracer("github.com/dukex/timely/pkg/engine"),
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Running reports whether a run is in flight.
func (e *Engine) Running() bool {
	return e.running.Load()
}

// Run executes req. It returns ErrBusy while another run is in flight and a
// precondition error when the flow cannot run; in both cases nothing is sent.
// Otherwise it returns a Report, even when every dispatch failed.
func (e *Engine) Run(ctx context.Context, req RunRequest) (*Report, error) {
	if !e.running.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer e.running.Store(false)

	scenarioID := ""
	if req.Scenario != nil {
		scenarioID = req.Scenario.ID
	}

	logger := e.logger.With("scenario_id", scenarioID)

	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "scenario.run", attribute.String(otelhelper.ScenarioIDKey, scenarioID))
	defer span.End()

	notification, tokens, err := prepare(req)
	if err != nil {
		otelhelper.SetError(span, err, attribute.String(otelhelper.FailureKindKey, Reason(err)))
		logger.WarnContext(ctx, "Scenario cannot run", "reason", Reason(err))

		e.showError(UserMessage(err))
		e.publish(ctx, scenarioID, events.ExecutionFailed{
			BaseEvent: events.NewBaseEvent(events.ExecutionFailedEvent, scenarioID),
			Reason:    Reason(err),
			Message:   UserMessage(err),
		})

		return nil, err
	}

	span.SetAttributes(attribute.Int(otelhelper.TokenCountKey, len(tokens)))
	logger.InfoContext(ctx, "Starting scenario run", "tokens", len(tokens))

	e.showSuccess(fmt.Sprintf("Triggering %d devices...", len(tokens)))
	e.publish(ctx, scenarioID, events.ExecutionStarted{
		BaseEvent: events.NewBaseEvent(events.ExecutionStartedEvent, scenarioID),
		Total:     len(tokens),
	})

	started := time.Now()
	report := e.dispatchAll(ctx, logger, scenarioID, req.Settings, notification, tokens)

	span.SetAttributes(attribute.Int(otelhelper.SentCountKey, report.Sent))

	if report.Succeeded() {
		report.Message = fmt.Sprintf("%d/%d notifications sent", report.Sent, report.Total)
		report.Promoted = e.promote(ctx, logger, req.Scenario)

		logger.InfoContext(ctx, "Scenario run finished", "sent", report.Sent, "total", report.Total, "promoted", report.Promoted)

		e.showSuccess(report.Message)
		e.publish(ctx, scenarioID, events.ExecutionCompleted{
			BaseEvent: events.NewBaseEvent(events.ExecutionCompletedEvent, scenarioID),
			Sent:      report.Sent,
			Total:     report.Total,
			Message:   report.Message,
			Duration:  time.Since(started),
		})

		return report, nil
	}

	report.Message = UserMessage(report.Failure)
	if report.Failure != nil {
		otelhelper.SetError(span, report.Failure, attribute.String(otelhelper.FailureKindKey, Reason(report.Failure)))
	}

	logger.ErrorContext(ctx, "Scenario run delivered nothing", "total", report.Total, "error", report.Failure)

	e.showError(report.Message)
	e.publish(ctx, scenarioID, events.ExecutionFailed{
		BaseEvent: events.NewBaseEvent(events.ExecutionFailedEvent, scenarioID),
		Reason:    Reason(report.Failure),
		Message:   report.Message,
		Total:     report.Total,
	})

	return report, nil
}

// prepare checks the preconditions in order and builds the request payload.
// The Trigger node is not required.
func prepare(req RunRequest) (Notification, []string, error) {
	if !req.Settings.Complete() {
		return Notification{}, nil, ErrMissingConfiguration
	}

	if req.Flow == nil {
		return Notification{}, nil, ErrIncompleteFlow
	}

	conditionNode, hasCondition := req.Flow.FindByType(models.NodeTypeCondition)
	pushNode, hasPush := req.Flow.FindByType(models.NodeTypePush)

	if !hasCondition || !hasPush {
		return Notification{}, nil, ErrIncompleteFlow
	}

	tokens := condition.ParseTokens(conditionNode.ConditionConfig().Tokens)
	if len(tokens) == 0 {
		return Notification{}, nil, ErrNoTokens
	}

	push := pushNode.PushConfig()

	return Notification{Title: push.Title, Body: push.Body}, tokens, nil
}

func (e *Engine) dispatchAll(ctx context.Context, logger *slog.Logger, scenarioID string, settings models.Settings, notification Notification, tokens []string) *Report {
	report := &Report{ScenarioID: scenarioID, Total: len(tokens)}

	for index, token := range tokens {
		notification.Token = token

		err := e.dispatchOne(ctx, index, settings, notification)

		dispatched := events.NotificationDispatched{
			BaseEvent:  events.NewBaseEvent(events.NotificationDispatchedEvent, scenarioID),
			TokenIndex: index,
			Success:    err == nil,
		}

		if err == nil {
			report.Sent++
			e.publish(ctx, scenarioID, dispatched)

			continue
		}

		report.Failure = err
		dispatched.Error = err.Error()

		var dispatchErr *DispatchError
		if errors.As(err, &dispatchErr) {
			dispatched.StatusCode = dispatchErr.StatusCode
		}

		e.publish(ctx, scenarioID, dispatched)
		logger.WarnContext(ctx, "Notification not delivered", "token_index", index, "error", err)

		if dispatchErr == nil || dispatchErr.Aborts() {
			break
		}
	}

	return report
}

func (e *Engine) dispatchOne(ctx context.Context, index int, settings models.Settings, notification Notification) error {
	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "notification.send", attribute.Int(otelhelper.TokenIndexKey, index))
	defer span.End()

	err := e.dispatcher.Send(ctx, settings.BackendURL, settings.APIKey, notification)
	if err != nil {
		otelhelper.SetError(span, err, attribute.String(otelhelper.FailureKindKey, Reason(err)))
	}

	return err
}

// promote flips a draft scenario to active. Failures are logged; the run
// outcome stands.
func (e *Engine) promote(ctx context.Context, logger *slog.Logger, scenario *models.Scenario) bool {
	if scenario == nil || !scenario.IsDraft() || e.promoter == nil {
		return false
	}

	err := e.promoter.PromoteToActive(ctx, scenario.ID)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to promote scenario", "error", err)

		return false
	}

	e.publish(ctx, scenario.ID, events.ScenarioPromoted{
		BaseEvent: events.NewBaseEvent(events.ScenarioPromotedEvent, scenario.ID),
	})

	return true
}

func (e *Engine) showSuccess(message string) {
	if e.status != nil {
		e.status.Success(message)
	}
}

func (e *Engine) showError(message string) {
	if e.status != nil {
		e.status.Error(message)
	}
}

func (e *Engine) publish(ctx context.Context, scenarioID string, event eventbus.Event) {
	if e.publisher == nil {
		return
	}

	err := e.publisher.Publish(ctx, scenarioID, event)
	if err != nil {
		e.logger.WarnContext(ctx, "Failed to publish event", "event_type", event.GetType(), "error", err)
	}
}
