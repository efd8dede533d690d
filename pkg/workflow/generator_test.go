package workflow_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/dukex/postforge/pkg/enrich"
	"github.com/dukex/postforge/pkg/models"
	"github.com/dukex/postforge/pkg/protocol"
	"github.com/dukex/postforge/pkg/registry"
	"github.com/dukex/postforge/pkg/slots"
	"github.com/dukex/postforge/pkg/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

type stubAgent struct {
	source models.Source
	run    func(quota int, runCtx protocol.RunContext) (protocol.SourceResult, error)

	mu     sync.Mutex
	calls  int
	quotas []int
}

func (a *stubAgent) Source() models.Source { return a.source }

func (a *stubAgent) Run(_ context.Context, quota int, runCtx protocol.RunContext) (protocol.SourceResult, error) {
	a.mu.Lock()
	a.calls++
	a.quotas = append(a.quotas, quota)
	a.mu.Unlock()

	if a.run == nil {
		return protocol.SourceResult{}, nil
	}

	return a.run(quota, runCtx)
}

type stubFactory struct {
	agent *stubAgent
}

func (f *stubFactory) Source() models.Source { return f.agent.source }
func (f *stubFactory) Description() string   { return "stub" }

func (f *stubFactory) Create(_ context.Context, _ []models.ToolConfig) (protocol.SourceAgent, error) {
	return f.agent, nil
}

type noImages struct{}

func (noImages) SearchImages(_ context.Context, _ string) ([]string, error) {
	return nil, nil
}

type noSlots struct{}

func (noSlots) RecommendedSlots(_ context.Context, _ string) (map[string][]string, error) {
	return map[string][]string{}, nil
}

func realizedDrafts(source models.Source, n int) func(int, protocol.RunContext) (protocol.SourceResult, error) {
	return func(_ int, _ protocol.RunContext) (protocol.SourceResult, error) {
		drafts := make([]models.PostDraft, 0, n)
		for range n {
			drafts = append(drafts, models.PostDraft{Body: string(source) + " post", Keywords: "kw"})
		}

		return protocol.SourceResult{Drafts: drafts}, nil
	}
}

type generatorFixture struct {
	generator *workflow.Generator
	agents    map[models.Source]*stubAgent
}

func newFixture(t *testing.T, runs map[models.Source]func(int, protocol.RunContext) (protocol.SourceResult, error)) *generatorFixture {
	t.Helper()

	logger := slog.Default()
	reg := registry.NewRegistry(logger)
	agents := make(map[models.Source]*stubAgent)

	for _, source := range []models.Source{
		models.SourceHoliday,
		models.SourceBusinessIdea,
		models.SourceRepurpose,
		models.SourceCompetitor,
		models.SourceTrending,
	} {
		agent := &stubAgent{source: source, run: runs[source]}
		agents[source] = agent
		reg.Register(&stubFactory{agent: agent})
	}

	generator := workflow.NewGenerator(
		reg,
		enrich.NewCombiner(noImages{}, 2, logger),
		slots.NewAssigner(noSlots{}, logger),
		nil,
		noop.NewTracerProvider().Tracer("test"),
		logger,
		workflow.Config{},
	)

	return &generatorFixture{generator: generator, agents: agents}
}

func allSources() []models.Source {
	return []models.Source{
		models.SourceHoliday,
		models.SourceBusinessIdea,
		models.SourceRepurpose,
		models.SourceCompetitor,
		models.SourceTrending,
	}
}

func request(target int, sources ...models.Source) models.GenerationRequest {
	return models.GenerationRequest{
		TargetCount:    target,
		EnabledSources: sources,
		Business:       models.BusinessIdentity{SmallID: "biz-1", Name: "Corner Bakery"},
		LookbackDays:   30,
	}
}

func TestGenerateEndToEndOrdering(t *testing.T) {
	t.Parallel()

	// Target 6: holiday realizes 2 and the other sources realize 2, 1 and 1,
	// leaving nothing for business idea to backfill.
	fixture := newFixture(t, map[models.Source]func(int, protocol.RunContext) (protocol.SourceResult, error){
		models.SourceHoliday:      realizedDrafts(models.SourceHoliday, 2),
		models.SourceBusinessIdea: realizedDrafts(models.SourceBusinessIdea, 5),
		models.SourceRepurpose:    realizedDrafts(models.SourceRepurpose, 2),
		models.SourceCompetitor:   realizedDrafts(models.SourceCompetitor, 1),
		models.SourceTrending:     realizedDrafts(models.SourceTrending, 1),
	})

	posts, err := fixture.generator.Generate(context.Background(), request(6, allSources()...))
	require.NoError(t, err)
	require.Len(t, posts, 6)

	got := make([]models.Source, 0, len(posts))
	for _, post := range posts {
		got = append(got, post.Source)
	}

	assert.Equal(t, []models.Source{
		models.SourceHoliday,
		models.SourceHoliday,
		models.SourceRepurpose,
		models.SourceRepurpose,
		models.SourceCompetitor,
		models.SourceTrending,
	}, got)

	// Business idea had nothing to backfill.
	assert.Zero(t, fixture.agents[models.SourceBusinessIdea].calls)
}

func TestGenerateBackfillsUnrealizedQuota(t *testing.T) {
	t.Parallel()

	// Target 7, holiday 2. The allocator plans repurpose 2, competitor 1,
	// trending 1 but repurpose realizes 0 and trending 1, so business idea
	// gets 7 - (2+0+1+1) = 3.
	fixture := newFixture(t, map[models.Source]func(int, protocol.RunContext) (protocol.SourceResult, error){
		models.SourceHoliday:      realizedDrafts(models.SourceHoliday, 2),
		models.SourceBusinessIdea: realizedDrafts(models.SourceBusinessIdea, 3),
		models.SourceRepurpose:    realizedDrafts(models.SourceRepurpose, 0),
		models.SourceCompetitor:   realizedDrafts(models.SourceCompetitor, 1),
		models.SourceTrending:     realizedDrafts(models.SourceTrending, 1),
	})

	posts, err := fixture.generator.Generate(context.Background(), request(7, allSources()...))
	require.NoError(t, err)
	assert.Len(t, posts, 7)

	business := fixture.agents[models.SourceBusinessIdea]
	require.Equal(t, 1, business.calls)
	assert.Equal(t, []int{3}, business.quotas)
}

func TestGenerateFailureIsolation(t *testing.T) {
	t.Parallel()

	fixture := newFixture(t, map[models.Source]func(int, protocol.RunContext) (protocol.SourceResult, error){
		models.SourceHoliday: realizedDrafts(models.SourceHoliday, 1),
		models.SourceCompetitor: func(_ int, _ protocol.RunContext) (protocol.SourceResult, error) {
			return protocol.SourceResult{}, errors.New("collaborator down")
		},
		models.SourceRepurpose: realizedDrafts(models.SourceRepurpose, 2),
		models.SourceTrending:  realizedDrafts(models.SourceTrending, 2),
	})

	posts, err := fixture.generator.Generate(context.Background(), request(6,
		models.SourceHoliday,
		models.SourceRepurpose,
		models.SourceCompetitor,
		models.SourceTrending,
	))
	require.NoError(t, err)

	failed := 0
	realized := 0

	for _, post := range posts {
		if post.Failed() {
			failed++
			assert.Equal(t, models.SourceCompetitor, post.Source)
			assert.Empty(t, post.Body)
		} else {
			realized++
		}
	}

	assert.Equal(t, 1, failed)
	assert.Equal(t, 5, realized)
}

func TestGenerateBenignEmptyRequests(t *testing.T) {
	t.Parallel()

	fixture := newFixture(t, nil)

	// Zero target.
	posts, err := fixture.generator.Generate(context.Background(), request(0, allSources()...))
	require.NoError(t, err)
	assert.Empty(t, posts)

	// No known sources.
	posts, err = fixture.generator.Generate(context.Background(), request(5, models.Source("MYSTERY")))
	require.NoError(t, err)
	assert.Empty(t, posts)

	for _, agent := range fixture.agents {
		assert.Zero(t, agent.calls, "agent %s should not run", agent.source)
	}
}

func TestGenerateValidatesRequest(t *testing.T) {
	t.Parallel()

	fixture := newFixture(t, nil)

	req := request(5, allSources()...)
	req.Business.Name = ""

	_, err := fixture.generator.Generate(context.Background(), req)
	require.Error(t, err)
}

func TestGenerateHolidayDisabled(t *testing.T) {
	t.Parallel()

	fixture := newFixture(t, map[models.Source]func(int, protocol.RunContext) (protocol.SourceResult, error){
		models.SourceBusinessIdea: realizedDrafts(models.SourceBusinessIdea, 2),
		models.SourceRepurpose:    realizedDrafts(models.SourceRepurpose, 2),
	})

	posts, err := fixture.generator.Generate(context.Background(), request(4,
		models.SourceBusinessIdea,
		models.SourceRepurpose,
	))
	require.NoError(t, err)
	assert.Len(t, posts, 4)
	assert.Zero(t, fixture.agents[models.SourceHoliday].calls)
}
