package businessidea_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/dukex/postforge/pkg/agents/businessidea"
	"github.com/dukex/postforge/pkg/llm"
	"github.com/dukex/postforge/pkg/models"
	"github.com/dukex/postforge/pkg/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLLM struct {
	respond func(call int, req llm.Request) (string, error)
	calls   int
}

func (s *stubLLM) Complete(_ context.Context, req llm.Request) (string, error) {
	s.calls++

	return s.respond(s.calls, req)
}

func batchResponse(n int) string {
	posts := make([]string, 0, n)
	for i := range n {
		posts = append(posts, fmt.Sprintf(
			`{"post": "post %d", "keywords": "kw %d", "idea": "idea %d"}`, i, i, i))
	}

	return `{"posts": [` + strings.Join(posts, ",") + `]}`
}

func runContext() protocol.RunContext {
	return protocol.RunContext{
		Request: &models.GenerationRequest{
			TargetCount:    12,
			EnabledSources: []models.Source{models.SourceBusinessIdea},
			Business:       models.BusinessIdentity{SmallID: "biz-1", Name: "Corner Bakery"},
		},
		BusinessCategory: "Bakery",
	}
}

func TestRunZeroQuotaShortCircuits(t *testing.T) {
	t.Parallel()

	client := &stubLLM{respond: func(int, llm.Request) (string, error) {
		t.Fatal("model should not be called")

		return "", nil
	}}
	agent := businessidea.NewAgent(client, slog.Default())

	result, err := agent.Run(context.Background(), 0, runContext())
	require.NoError(t, err)
	assert.Empty(t, result.Drafts)
}

func TestRunSplitsQuotaIntoBatches(t *testing.T) {
	t.Parallel()

	var batchSizes []int

	client := &stubLLM{respond: func(_ int, req llm.Request) (string, error) {
		// The requested batch size appears in the prompt; derive it from the
		// response the stub returns instead.
		switch {
		case strings.Contains(req.System, "Number of posts to generate: 5"):
			batchSizes = append(batchSizes, 5)

			return batchResponse(5), nil
		case strings.Contains(req.System, "Number of posts to generate: 2"):
			batchSizes = append(batchSizes, 2)

			return batchResponse(2), nil
		default:
			return "", errors.New("unexpected batch size")
		}
	}}
	agent := businessidea.NewAgent(client, slog.Default())

	result, err := agent.Run(context.Background(), 12, runContext())
	require.NoError(t, err)
	assert.Len(t, result.Drafts, 12)
	assert.Equal(t, 3, client.calls)
	assert.Equal(t, []int{5, 5, 2}, batchSizes)
}

func TestRunFailedBatchYieldsSingleErrorDraft(t *testing.T) {
	t.Parallel()

	client := &stubLLM{respond: func(call int, _ llm.Request) (string, error) {
		if call == 1 {
			return "", errors.New("model overloaded")
		}

		return batchResponse(2), nil
	}}
	agent := businessidea.NewAgent(client, slog.Default())

	result, err := agent.Run(context.Background(), 7, runContext())
	require.NoError(t, err)
	require.Len(t, result.Drafts, 3)
	assert.True(t, result.Drafts[0].Failed())
	assert.Equal(t, 2, models.CountRealized(result.Drafts))
}

func TestRunTruncatesOverdelivery(t *testing.T) {
	t.Parallel()

	client := &stubLLM{respond: func(int, llm.Request) (string, error) {
		return batchResponse(5), nil
	}}
	agent := businessidea.NewAgent(client, slog.Default())

	result, err := agent.Run(context.Background(), 3, runContext())
	require.NoError(t, err)
	assert.Len(t, result.Drafts, 3)
}
