package repurpose_test

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/dukex/postforge/pkg/agents/repurpose"
	"github.com/dukex/postforge/pkg/fetch"
	"github.com/dukex/postforge/pkg/llm"
	"github.com/dukex/postforge/pkg/locations"
	"github.com/dukex/postforge/pkg/models"
	"github.com/dukex/postforge/pkg/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLLM struct {
	respond func(req llm.Request) (string, error)
	calls   int
}

func (s *stubLLM) Complete(_ context.Context, req llm.Request) (string, error) {
	s.calls++

	return s.respond(req)
}

type stubArchive struct {
	posts []fetch.TopPost
	err   error
	calls int
}

func (s *stubArchive) TopPosts(_ context.Context, _ string, _, _ int) ([]fetch.TopPost, error) {
	s.calls++

	return s.posts, s.err
}

func runContext() protocol.RunContext {
	return protocol.RunContext{
		Request: &models.GenerationRequest{
			TargetCount:    5,
			EnabledSources: []models.Source{models.SourceRepurpose},
			Business:       models.BusinessIdentity{SmallID: "biz-1", LongID: "ent-1", Name: "Corner Bakery"},
			LookbackDays:   60,
		},
	}
}

func TestRunZeroQuotaShortCircuits(t *testing.T) {
	t.Parallel()

	archive := &stubArchive{}
	agent := repurpose.NewAgent(&stubLLM{}, archive, slog.Default())

	result, err := agent.Run(context.Background(), 0, runContext())
	require.NoError(t, err)
	assert.Empty(t, result.Drafts)
	assert.Zero(t, archive.calls)
}

func TestRunRewritesEachTopPost(t *testing.T) {
	t.Parallel()

	client := &stubLLM{respond: func(req llm.Request) (string, error) {
		if strings.Contains(req.User, "old post one") {
			return `{"post": "fresh one", "keywords": "bread"}`, nil
		}

		return `{"post": "fresh two", "keywords": "cake"}`, nil
	}}
	archive := &stubArchive{posts: []fetch.TopPost{
		{Text: "old post one", Channel: "facebook"},
		{Text: "old post two", Channel: "instagram"},
	}}
	agent := repurpose.NewAgent(client, archive, slog.Default())

	result, err := agent.Run(context.Background(), 5, runContext())
	require.NoError(t, err)
	require.Len(t, result.Drafts, 2)
	assert.Equal(t, "fresh one", result.Drafts[0].Body)
	assert.Equal(t, "old post one", result.Drafts[0].Origin)
	assert.Equal(t, 2, client.calls)
}

func TestRunNoHistoryIsEmptyNotFailed(t *testing.T) {
	t.Parallel()

	agent := repurpose.NewAgent(&stubLLM{}, &stubArchive{}, slog.Default())

	result, err := agent.Run(context.Background(), 3, runContext())
	require.NoError(t, err)
	assert.Empty(t, result.Drafts)
}

func TestRunUnknownBusinessIsEmptyNotFailed(t *testing.T) {
	t.Parallel()

	archive := &stubArchive{err: locations.ErrUnknownBusiness}
	agent := repurpose.NewAgent(&stubLLM{}, archive, slog.Default())

	result, err := agent.Run(context.Background(), 3, runContext())
	require.NoError(t, err)
	assert.Empty(t, result.Drafts)
}

func TestRunSingleRewriteFailureDoesNotAbortRest(t *testing.T) {
	t.Parallel()

	client := &stubLLM{respond: func(req llm.Request) (string, error) {
		if strings.Contains(req.User, "old post one") {
			return "", errors.New("model overloaded")
		}

		return `{"post": "fresh two", "keywords": "cake"}`, nil
	}}
	archive := &stubArchive{posts: []fetch.TopPost{
		{Text: "old post one"},
		{Text: "old post two"},
	}}
	agent := repurpose.NewAgent(client, archive, slog.Default())

	result, err := agent.Run(context.Background(), 5, runContext())
	require.NoError(t, err)
	require.Len(t, result.Drafts, 2)
	assert.True(t, result.Drafts[0].Failed())
	assert.Equal(t, "fresh two", result.Drafts[1].Body)
}

func TestRunTruncatesToQuota(t *testing.T) {
	t.Parallel()

	client := &stubLLM{respond: func(llm.Request) (string, error) {
		return `{"post": "fresh", "keywords": "kw"}`, nil
	}}
	archive := &stubArchive{posts: []fetch.TopPost{
		{Text: "one"}, {Text: "two"}, {Text: "three"},
	}}
	agent := repurpose.NewAgent(client, archive, slog.Default())

	result, err := agent.Run(context.Background(), 2, runContext())
	require.NoError(t, err)
	assert.Len(t, result.Drafts, 2)
}
