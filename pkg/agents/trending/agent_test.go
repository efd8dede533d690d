package trending_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/dukex/postforge/pkg/agents/trending"
	"github.com/dukex/postforge/pkg/fetch"
	"github.com/dukex/postforge/pkg/llm"
	"github.com/dukex/postforge/pkg/models"
	"github.com/dukex/postforge/pkg/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// toolCallingLLM drives the registered tool once and then answers, the way
// the real completion loop does.
type toolCallingLLM struct {
	response string
	err      error
}

func (s *toolCallingLLM) Complete(ctx context.Context, req llm.Request) (string, error) {
	if len(req.Tools) > 0 {
		_, toolErr := req.Tools[0].Handler(ctx, map[string]any{"industry": "food"})
		if toolErr != nil {
			return "", toolErr
		}
	}

	if s.err != nil {
		return "", s.err
	}

	return s.response, nil
}

type stubFeed struct {
	report fetch.TrendReport
	err    error

	queries []fetch.TrendQuery
}

func (s *stubFeed) TrendingTopics(_ context.Context, query fetch.TrendQuery) (fetch.TrendReport, error) {
	s.queries = append(s.queries, query)

	return s.report, s.err
}

func runContext() protocol.RunContext {
	return protocol.RunContext{
		Request: &models.GenerationRequest{
			TargetCount:    5,
			EnabledSources: []models.Source{models.SourceTrending},
			Business:       models.BusinessIdentity{SmallID: "biz-1", Name: "Corner Bakery"},
			LookbackDays:   7,
		},
	}
}

func someTrends() fetch.TrendReport {
	return fetch.TrendReport{
		SelectedTopics: []fetch.TrendTopic{
			{Topic: "sourdough revival", Description: "Home baking is trending again"},
		},
	}
}

func TestRunZeroQuotaShortCircuits(t *testing.T) {
	t.Parallel()

	feed := &stubFeed{report: someTrends()}
	agent := trending.NewAgent(&toolCallingLLM{}, feed, nil, slog.Default())

	result, err := agent.Run(context.Background(), 0, runContext())
	require.NoError(t, err)
	assert.Empty(t, result.Drafts)
	assert.Empty(t, feed.queries)
}

func TestRunNoTrendsIsEmptyNotFailed(t *testing.T) {
	t.Parallel()

	client := &toolCallingLLM{response: `{"posts": []}`}
	agent := trending.NewAgent(client, &stubFeed{}, nil, slog.Default())

	result, err := agent.Run(context.Background(), 3, runContext())
	require.NoError(t, err)
	assert.Empty(t, result.Drafts)
}

func TestRunGeneratesFromTrendTopics(t *testing.T) {
	t.Parallel()

	client := &toolCallingLLM{response: `{"posts": [
		{"post": "Sourdough is having a moment, and so are we.", "keywords": "bakery sourdough", "topic": "sourdough revival"}
	]}`}
	feed := &stubFeed{report: someTrends()}
	agent := trending.NewAgent(client, feed, nil, slog.Default())

	result, err := agent.Run(context.Background(), 3, runContext())
	require.NoError(t, err)
	require.Len(t, result.Drafts, 1)
	assert.False(t, result.Drafts[0].Failed())
	assert.Equal(t, "sourdough revival", result.Drafts[0].Origin)
	require.Len(t, feed.queries, 1)
	assert.Equal(t, "Corner Bakery", feed.queries[0].BusinessName)
	assert.Equal(t, "food", feed.queries[0].Industry)
	assert.Equal(t, 7, feed.queries[0].WindowDays)
}

func TestRunFailureAfterDataYieldsErrorDraft(t *testing.T) {
	t.Parallel()

	client := &toolCallingLLM{err: errors.New("model overloaded")}
	agent := trending.NewAgent(client, &stubFeed{report: someTrends()}, nil, slog.Default())

	result, err := agent.Run(context.Background(), 3, runContext())
	require.NoError(t, err)
	require.Len(t, result.Drafts, 1)
	assert.True(t, result.Drafts[0].Failed())
}

func TestRunFeedFailureBeforeDataIsEmpty(t *testing.T) {
	t.Parallel()

	feed := &stubFeed{err: errors.New("feed unavailable")}
	agent := trending.NewAgent(&toolCallingLLM{}, feed, nil, slog.Default())

	result, err := agent.Run(context.Background(), 3, runContext())
	require.NoError(t, err)
	assert.Empty(t, result.Drafts)
}

func TestRunTruncatesToQuota(t *testing.T) {
	t.Parallel()

	client := &toolCallingLLM{response: `{"posts": [
		{"post": "one", "keywords": "a"},
		{"post": "two", "keywords": "b"},
		{"post": "three", "keywords": "c"}
	]}`}
	agent := trending.NewAgent(client, &stubFeed{report: someTrends()}, nil, slog.Default())

	result, err := agent.Run(context.Background(), 2, runContext())
	require.NoError(t, err)
	assert.Len(t, result.Drafts, 2)
}

func TestToolConfigScopesQueryLocation(t *testing.T) {
	t.Parallel()

	feed := &stubFeed{report: someTrends()}
	tools := []models.ToolConfig{{
		Name: "trend_topics",
		Config: map[string]any{
			"country": "US",
			"city":    "Portland",
			"state":   "OR",
		},
	}}
	client := &toolCallingLLM{response: `{"posts": [{"post": "p", "keywords": "k"}]}`}
	agent := trending.NewAgent(client, feed, tools, slog.Default())

	_, err := agent.Run(context.Background(), 1, runContext())
	require.NoError(t, err)
	require.Len(t, feed.queries, 1)
	assert.Equal(t, "US", feed.queries[0].Country)
	assert.Equal(t, "Portland", feed.queries[0].City)
	assert.Equal(t, "OR", feed.queries[0].State)
}

func TestRunNoDataIgnoresModelOutput(t *testing.T) {
	t.Parallel()

	// The model may hallucinate posts even when the tool found nothing; they
	// must not ship.
	client := &toolCallingLLM{response: `{"posts": [{"post": "made up", "keywords": "x"}]}`}
	agent := trending.NewAgent(client, &stubFeed{}, nil, slog.Default())

	result, err := agent.Run(context.Background(), 3, runContext())
	require.NoError(t, err)
	assert.Empty(t, result.Drafts)
}
