// Package workflow orchestrates a generation run: quota allocation, the
// agent graph, combination, and scheduling.
package workflow

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dukex/postforge/pkg/enrich"
	"github.com/dukex/postforge/pkg/eventbus"
	"github.com/dukex/postforge/pkg/events"
	"github.com/dukex/postforge/pkg/models"
	"github.com/dukex/postforge/pkg/otelhelper"
	"github.com/dukex/postforge/pkg/protocol"
	"github.com/dukex/postforge/pkg/quota"
	"github.com/dukex/postforge/pkg/registry"
	"github.com/dukex/postforge/pkg/slots"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// DefaultAgentTimeout bounds a single agent's run, tool calls included.
const DefaultAgentTimeout = 5 * time.Minute

type Config struct {
	AgentTimeout time.Duration
}

// Generator runs the fixed agent graph for a generation request.
//
// The stages are: holiday first (it also resolves the business profile),
// then quota allocation, then repurpose, competitor and trending in
// parallel, then business idea with whatever quota remains unrealized, then
// combination and optional scheduling.
type Generator struct {
	registry *registry.Registry
	combiner *enrich.Combiner
	slotter  *slots.Assigner
	eventBus eventbus.EventPublisher
	tracer   trace.Tracer
	validate *validator.Validate
	logger   *slog.Logger
	cfg      Config
}

func NewGenerator(
	reg *registry.Registry,
	combiner *enrich.Combiner,
	slotter *slots.Assigner,
	eventBus eventbus.EventPublisher,
	tracer trace.Tracer,
	logger *slog.Logger,
	cfg Config,
) *Generator {
	if cfg.AgentTimeout <= 0 {
		cfg.AgentTimeout = DefaultAgentTimeout
	}

	return &Generator{
		registry: reg,
		combiner: combiner,
		slotter:  slotter,
		eventBus: eventBus,
		tracer:   tracer,
		validate: validator.New(),
		logger:   logger.With("module", "workflow"),
		cfg:      cfg,
	}
}

// Generate runs the whole graph and returns the final post list. A request
// with nothing to do (no target, no known sources) yields an empty list and
// no error. Individual source failures surface as error-flagged posts, not
// as a failed run.
func (g *Generator) Generate(ctx context.Context, request models.GenerationRequest) ([]models.EnrichedPost, error) {
	enabled := request.EnabledSet()
	if request.TargetCount <= 0 || len(enabled) == 0 {
		return []models.EnrichedPost{}, nil
	}

	state := newRunState()

	err := g.validate.Struct(request)
	if err != nil {
		g.publish(ctx, state.runID, events.GenerationFailed{
			BaseEvent: events.NewBaseEvent(events.GenerationFailedEvent, state.runID, request.Business.SmallID),
			Error:     err.Error(),
		})

		return nil, err
	}

	logger := g.logger.With("run_id", state.runID, "business_id", request.Business.SmallID)
	started := time.Now()

	ctx, span := otelhelper.StartSpan(ctx, g.tracer, "workflow.generate",
		attribute.String(otelhelper.RunIDKey, state.runID),
		attribute.String(otelhelper.BusinessIDKey, request.Business.SmallID),
		attribute.Int(otelhelper.TargetKey, request.TargetCount),
	)
	defer span.End()

	g.publish(ctx, state.runID, events.GenerationStarted{
		BaseEvent:      events.NewBaseEvent(events.GenerationStartedEvent, state.runID, request.Business.SmallID),
		TargetCount:    request.TargetCount,
		EnabledSources: request.EnabledSources,
	})

	logger.InfoContext(ctx, "Generation started", "target", request.TargetCount)

	// Holiday runs first with the full target as its cap. Its realized count
	// shrinks what the allocator hands to the other sources, and it resolves
	// the business profile the later agents reuse.
	if enabled[models.SourceHoliday] {
		result := g.runAgent(ctx, state, request, models.SourceHoliday, request.TargetCount)
		state.holiday = result.Drafts

		if result.BusinessCategory != "" {
			state.businessCategory = result.BusinessCategory
			state.businessInfo = result.BusinessInfo
		}
	}

	state.quota = quota.Allocate(request.TargetCount, enabled, models.CountRealized(state.holiday))

	logger.InfoContext(ctx, "Quota allocated",
		"holiday", models.CountRealized(state.holiday),
		"repurpose", state.quota.Repurpose,
		"competitor", state.quota.Competitor,
		"trending", state.quota.Trending,
	)

	var wg sync.WaitGroup

	parallel := []struct {
		source models.Source
		quota  int
		dest   *[]models.PostDraft
	}{
		{models.SourceRepurpose, state.quota.Repurpose, &state.repurpose},
		{models.SourceCompetitor, state.quota.Competitor, &state.competitor},
		{models.SourceTrending, state.quota.Trending, &state.trending},
	}

	for _, stage := range parallel {
		if stage.quota <= 0 {
			continue
		}

		wg.Add(1)

		go func() {
			defer wg.Done()

			result := g.runAgent(ctx, state, request, stage.source, stage.quota)
			*stage.dest = result.Drafts
		}()
	}

	wg.Wait()

	// Business idea backfills whatever the other sources could not realize,
	// measured by actual non-error output rather than planned quota.
	if enabled[models.SourceBusinessIdea] {
		backfill := request.TargetCount - state.realized()
		if backfill > 0 {
			result := g.runAgent(ctx, state, request, models.SourceBusinessIdea, backfill)
			state.businessIdea = result.Drafts
		}
	}

	enrichCtx, enrichSpan := otelhelper.StartSpan(ctx, g.tracer, "workflow.combine",
		attribute.String(otelhelper.RunIDKey, state.runID),
	)
	posts := g.combiner.Combine(enrichCtx, state.bySource())
	enrichSpan.End()

	if request.IncludeSchedule {
		posts = g.slotter.Assign(ctx, request.Business.SmallID, posts)
	}

	g.publish(ctx, state.runID, events.GenerationCompleted{
		BaseEvent: events.NewBaseEvent(events.GenerationCompletedEvent, state.runID, request.Business.SmallID),
		PostCount: len(posts),
		Duration:  time.Since(started),
	})

	logger.InfoContext(ctx, "Generation completed", "posts", len(posts), "duration", time.Since(started))

	return posts, nil
}

// runAgent creates and runs one source agent under the agent timeout. Any
// boundary failure (unregistered source, construction error, run error,
// timeout) degrades to a single error draft for that source.
func (g *Generator) runAgent(ctx context.Context, state *runState, request models.GenerationRequest, source models.Source, agentQuota int) protocol.SourceResult {
	ctx, span := otelhelper.StartSpan(ctx, g.tracer, "workflow.source",
		attribute.String(otelhelper.RunIDKey, state.runID),
		attribute.String(otelhelper.SourceKey, string(source)),
		attribute.Int(otelhelper.QuotaKey, agentQuota),
	)
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, g.cfg.AgentTimeout)
	defer cancel()

	result, err := g.runAgentOnce(ctx, state, request, source, agentQuota)
	if err != nil {
		g.logger.ErrorContext(ctx, "Source agent failed", "run_id", state.runID, "source", source, "error", err)
		otelhelper.SetError(span, err)

		result = protocol.SourceResult{
			Drafts: []models.PostDraft{models.FailureDraft(string(source), err)},
		}
	}

	failed := err != nil
	for _, draft := range result.Drafts {
		if draft.Failed() {
			failed = true
		}
	}

	g.publish(ctx, state.runID, events.GenerationSourceCompleted{
		BaseEvent:   events.NewBaseEvent(events.GenerationSourceCompletedEvent, state.runID, request.Business.SmallID),
		Source:      source,
		Quota:       agentQuota,
		Realized:    models.CountRealized(result.Drafts),
		FailedDraft: failed,
	})

	return result
}

func (g *Generator) runAgentOnce(ctx context.Context, state *runState, request models.GenerationRequest, source models.Source, agentQuota int) (protocol.SourceResult, error) {
	agent, err := g.registry.CreateAgent(ctx, source, request.ToolsFor(source))
	if err != nil {
		return protocol.SourceResult{}, err
	}

	// The holiday stage fills these before the later stages start, so the
	// parallel readers never race the writer.
	return agent.Run(ctx, agentQuota, protocol.RunContext{
		Request:          &request,
		BusinessCategory: state.businessCategory,
		BusinessInfo:     state.businessInfo,
	})
}

func (g *Generator) publish(ctx context.Context, runID string, event eventbus.Event) {
	if g.eventBus == nil {
		return
	}

	err := g.eventBus.Publish(ctx, runID, event)
	if err != nil {
		g.logger.WarnContext(ctx, "Event publish failed", "run_id", runID, "event", event.GetType(), "error", err)
	}
}
