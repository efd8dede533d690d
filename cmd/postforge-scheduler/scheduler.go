// Package main provides the Postforge scheduler daemon. It reads a JSON
// schedule and runs the generation workflow on each cron tick.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dukex/postforge/pkg/cmd"
	"github.com/dukex/postforge/pkg/enrich"
	"github.com/dukex/postforge/pkg/eventbus"
	"github.com/dukex/postforge/pkg/models"
	"github.com/dukex/postforge/pkg/persistence"
	"github.com/dukex/postforge/pkg/registry"
	"github.com/dukex/postforge/pkg/slots"
	"github.com/dukex/postforge/pkg/workflow"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel/trace"
)

// ScheduleEntry pairs a cron expression with the request to run on each
// tick.
type ScheduleEntry struct {
	Cron    string                   `json:"cron"`
	Request models.GenerationRequest `json:"request"`
}

type Scheduler struct {
	logger      *slog.Logger
	persistence persistence.Persistence
	generator   *workflow.Generator
}

func NewScheduler(
	logger *slog.Logger,
	persist persistence.Persistence,
	reg *registry.Registry,
	fetchers *cmd.Fetchers,
	eventBus eventbus.EventBus,
	tracer trace.Tracer,
) *Scheduler {
	combiner := enrich.NewCombiner(fetchers.Images, enrich.DefaultWorkers, logger)
	slotter := slots.NewAssigner(fetchers.Slots, logger)

	return &Scheduler{
		logger:      logger,
		persistence: persist,
		generator: workflow.NewGenerator(
			reg,
			combiner,
			slotter,
			eventBus,
			tracer,
			logger,
			workflow.Config{},
		),
	}
}

// Run loads the schedule, starts the cron loop, and blocks until the context
// is cancelled or a termination signal arrives.
func (s *Scheduler) Run(ctx context.Context, scheduleFile string) error {
	entries, err := loadSchedule(scheduleFile)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		return fmt.Errorf("schedule file %s contains no entries", scheduleFile)
	}

	runner := cron.New()

	for _, entry := range entries {
		_, err := runner.AddFunc(entry.Cron, func() {
			s.runOnce(ctx, entry.Request)
		})
		if err != nil {
			return fmt.Errorf("invalid cron expression %q: %w", entry.Cron, err)
		}

		s.logger.InfoContext(ctx, "Scheduled generation",
			"cron", entry.Cron,
			"business_id", entry.Request.Business.SmallID,
			"target", entry.Request.TargetCount,
		)
	}

	runner.Start()
	defer runner.Stop()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-ctx.Done():
	case sig := <-signals:
		s.logger.InfoContext(ctx, "Shutting down", "signal", sig.String())
	}

	return nil
}

func (s *Scheduler) runOnce(ctx context.Context, request models.GenerationRequest) {
	run := &models.GenerationRun{
		ID:          uuid.New().String(),
		BusinessID:  request.Business.SmallID,
		TargetCount: request.TargetCount,
		Status:      models.RunStatusRunning,
		Request:     &request,
		CreatedAt:   time.Now().UTC(),
	}

	err := s.persistence.SaveRun(ctx, run)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to persist run", "run_id", run.ID, "error", err)

		return
	}

	posts, err := s.generator.Generate(ctx, request)

	completed := time.Now().UTC()
	run.CompletedAt = &completed

	if err != nil {
		run.Status = models.RunStatusFailed
		run.Error = err.Error()
		s.logger.ErrorContext(ctx, "Scheduled generation failed", "run_id", run.ID, "error", err)
	} else {
		run.Status = models.RunStatusCompleted
		run.Posts = posts
		s.logger.InfoContext(ctx, "Scheduled generation completed", "run_id", run.ID, "posts", len(posts))
	}

	err = s.persistence.SaveRun(ctx, run)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to persist finished run", "run_id", run.ID, "error", err)
	}
}

func loadSchedule(path string) ([]ScheduleEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schedule file: %w", err)
	}

	var entries []ScheduleEntry

	err = json.Unmarshal(data, &entries)
	if err != nil {
		return nil, fmt.Errorf("failed to parse schedule file: %w", err)
	}

	return entries, nil
}
