package main

import (
	"context"
	"log/slog"

	"github.com/dukex/postforge/pkg/eventbus"
	"github.com/dukex/postforge/pkg/events"
)

// RunListener consumes generation lifecycle events and writes an audit trail
// for them. It gives operators a per-run timeline independent of the request
// log.
type RunListener struct {
	eventBus eventbus.EventBus
	logger   *slog.Logger
}

func NewRunListener(eventBus eventbus.EventBus, logger *slog.Logger) *RunListener {
	return &RunListener{
		eventBus: eventBus,
		logger:   logger.With("module", "run_listener"),
	}
}

// Start registers the lifecycle handlers and begins consuming.
func (l *RunListener) Start(ctx context.Context) error {
	err := l.eventBus.Handle(events.GenerationStartedEvent, l.handleStarted)
	if err != nil {
		return err
	}

	err = l.eventBus.Handle(events.GenerationSourceCompletedEvent, l.handleSourceCompleted)
	if err != nil {
		return err
	}

	err = l.eventBus.Handle(events.GenerationCompletedEvent, l.handleCompleted)
	if err != nil {
		return err
	}

	err = l.eventBus.Handle(events.GenerationFailedEvent, l.handleFailed)
	if err != nil {
		return err
	}

	err = l.eventBus.Subscribe(ctx)
	if err != nil {
		l.logger.ErrorContext(ctx, "Failed to subscribe to event bus", "error", err)

		return err
	}

	return nil
}

func (l *RunListener) handleStarted(ctx context.Context, event any) error {
	started, ok := event.(*events.GenerationStarted)
	if !ok {
		l.logger.ErrorContext(ctx, "Invalid event type for GenerationStarted")

		return nil
	}

	l.logger.InfoContext(ctx, "Run started",
		"run_id", started.RunID,
		"business_id", started.BusinessID,
		"target", started.TargetCount,
		"sources", started.EnabledSources,
	)

	return nil
}

func (l *RunListener) handleSourceCompleted(ctx context.Context, event any) error {
	completed, ok := event.(*events.GenerationSourceCompleted)
	if !ok {
		l.logger.ErrorContext(ctx, "Invalid event type for GenerationSourceCompleted")

		return nil
	}

	l.logger.InfoContext(ctx, "Run source completed",
		"run_id", completed.RunID,
		"source", completed.Source,
		"quota", completed.Quota,
		"realized", completed.Realized,
		"failed_draft", completed.FailedDraft,
	)

	return nil
}

func (l *RunListener) handleCompleted(ctx context.Context, event any) error {
	completed, ok := event.(*events.GenerationCompleted)
	if !ok {
		l.logger.ErrorContext(ctx, "Invalid event type for GenerationCompleted")

		return nil
	}

	l.logger.InfoContext(ctx, "Run completed",
		"run_id", completed.RunID,
		"business_id", completed.BusinessID,
		"posts", completed.PostCount,
		"duration", completed.Duration,
	)

	return nil
}

func (l *RunListener) handleFailed(ctx context.Context, event any) error {
	failed, ok := event.(*events.GenerationFailed)
	if !ok {
		l.logger.ErrorContext(ctx, "Invalid event type for GenerationFailed")

		return nil
	}

	l.logger.ErrorContext(ctx, "Run failed",
		"run_id", failed.RunID,
		"business_id", failed.BusinessID,
		"error", failed.Error,
	)

	return nil
}
