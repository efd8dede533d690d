// Package businessidea implements the fallback source agent. It receives
// whatever quota the other sources could not realize and generates generic
// business-promotion posts in batches.
package businessidea

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"

	"github.com/dukex/postforge/pkg/agents/prompts"
	"github.com/dukex/postforge/pkg/llm"
	"github.com/dukex/postforge/pkg/models"
	"github.com/dukex/postforge/pkg/protocol"
)

// batchSize bounds the number of posts requested per completion. Large
// single-shot batches degrade output quality, so the quota is split.
const batchSize = 5

// Agent generates business-promotion posts from the business profile alone.
type Agent struct {
	llm    llm.Client
	logger *slog.Logger
}

func NewAgent(client llm.Client, logger *slog.Logger) *Agent {
	return &Agent{
		llm:    client,
		logger: logger.With("module", "business_idea_agent"),
	}
}

func (a *Agent) Source() models.Source {
	return models.SourceBusinessIdea
}

type batchPost struct {
	Post     string `json:"post"`
	Keywords string `json:"keywords"`
	Idea     string `json:"idea"`
}

type ideaBatch struct {
	Posts []batchPost `json:"posts"`
}

var batchSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"posts": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"post":     map[string]any{"type": "string"},
					"keywords": map[string]any{"type": "string"},
					"idea":     map[string]any{"type": "string"},
				},
				"required": []string{"post", "keywords"},
			},
		},
	},
	"required": []string{"posts"},
}

// Run generates quota posts in batches of at most batchSize. A failed batch
// contributes a single error draft and does not abort the remaining batches.
func (a *Agent) Run(ctx context.Context, quota int, runCtx protocol.RunContext) (protocol.SourceResult, error) {
	if quota <= 0 {
		return protocol.SourceResult{}, nil
	}

	request := runCtx.Request
	logger := a.logger.With("business_id", request.Business.SmallID)

	drafts := make([]models.PostDraft, 0, quota)

	for remaining := quota; remaining > 0; remaining -= batchSize {
		size := remaining
		if size > batchSize {
			size = batchSize
		}

		batch, err := a.generateBatch(ctx, size, runCtx)
		if err != nil {
			logger.ErrorContext(ctx, "Business idea batch failed", "batch_size", size, "error", err)
			drafts = append(drafts, models.FailureDraft(string(models.SourceBusinessIdea), err))

			continue
		}

		if len(batch) > size {
			batch = batch[:size]
		}

		drafts = append(drafts, batch...)
	}

	logger.InfoContext(ctx, "Business idea posts generated", "count", len(drafts), "quota", quota)

	return protocol.SourceResult{Drafts: drafts}, nil
}

func (a *Agent) generateBatch(ctx context.Context, count int, runCtx protocol.RunContext) ([]models.PostDraft, error) {
	request := runCtx.Request

	raw, err := a.llm.Complete(ctx, llm.Request{
		System: a.systemPrompt(count, runCtx),
		User: prompts.WithUserInstructions(
			"Generate the posts.",
			request.InstructionsFor(models.SourceBusinessIdea),
		),
	})
	if err != nil {
		return nil, err
	}

	var batch ideaBatch

	err = llm.DecodeValidated(batchSchema, raw, &batch)
	if err != nil {
		return nil, err
	}

	drafts := make([]models.PostDraft, 0, len(batch.Posts))
	for _, post := range batch.Posts {
		drafts = append(drafts, models.PostDraft{
			Body:     post.Post,
			Keywords: post.Keywords,
			Origin:   post.Idea,
		})
	}

	return drafts, nil
}

func (a *Agent) systemPrompt(count int, runCtx protocol.RunContext) string {
	var b strings.Builder

	b.WriteString("You are a social media manager for the business below.\n")
	b.WriteString("Generate distinct promotional post ideas and write one post per idea.\n")
	b.WriteString("Cover different angles: offerings, values, customer benefits, behind the scenes.\n")
	b.WriteString("Posts must be in English only and must not reference specific dates.\n\n")

	b.WriteString("<business>\nName: " + runCtx.Request.Business.Name + "\n")

	if runCtx.BusinessCategory != "" {
		b.WriteString("Category: " + runCtx.BusinessCategory + "\n")
	}

	if len(runCtx.BusinessInfo) > 0 {
		if encoded, err := json.Marshal(runCtx.BusinessInfo); err == nil {
			b.WriteString("Details: " + string(encoded) + "\n")
		}
	}

	b.WriteString("</business>\n\n")
	b.WriteString("Number of posts to generate: ")
	b.WriteString(strconv.Itoa(count))
	b.WriteString("\n")
	b.WriteString(prompts.KeywordGuidance)
	b.WriteString("\nReturn JSON: {\"posts\": [{\"post\": ..., \"keywords\": ..., \"idea\": ...}]}")

	return b.String()
}
