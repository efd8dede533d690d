// Package repurpose implements the source agent that rewrites the business's
// best performing past posts into fresh drafts.
package repurpose

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dukex/postforge/pkg/agents/prompts"
	"github.com/dukex/postforge/pkg/fetch"
	"github.com/dukex/postforge/pkg/llm"
	"github.com/dukex/postforge/pkg/locations"
	"github.com/dukex/postforge/pkg/models"
	"github.com/dukex/postforge/pkg/protocol"
)

// Agent rewrites top historical posts, one completion per post.
type Agent struct {
	llm     llm.Client
	archive fetch.TopPostArchive
	logger  *slog.Logger
}

func NewAgent(client llm.Client, archive fetch.TopPostArchive, logger *slog.Logger) *Agent {
	return &Agent{
		llm:     client,
		archive: archive,
		logger:  logger.With("module", "repurpose_agent"),
	}
}

func (a *Agent) Source() models.Source {
	return models.SourceRepurpose
}

type rewrite struct {
	Post     string `json:"post"`
	Keywords string `json:"keywords"`
}

var rewriteSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"post":     map[string]any{"type": "string"},
		"keywords": map[string]any{"type": "string"},
	},
	"required": []string{"post", "keywords"},
}

// Run fetches up to quota top posts from the archive and rewrites each one.
// A business with no posting history yields an empty result, not an error.
// A single rewrite failure is recorded as an error draft and the rest
// continue.
func (a *Agent) Run(ctx context.Context, quota int, runCtx protocol.RunContext) (protocol.SourceResult, error) {
	if quota <= 0 {
		return protocol.SourceResult{}, nil
	}

	request := runCtx.Request
	logger := a.logger.With("business_id", request.Business.SmallID)

	topPosts, err := a.archive.TopPosts(ctx, request.Business.LongID, request.LookbackDays, quota)
	if err != nil {
		if errors.Is(err, locations.ErrUnknownBusiness) {
			logger.InfoContext(ctx, "Business has no location mapping, skipping repurpose")

			return protocol.SourceResult{}, nil
		}

		logger.ErrorContext(ctx, "Top post lookup failed", "error", err)

		return protocol.SourceResult{
			Drafts: []models.PostDraft{models.FailureDraft(string(models.SourceRepurpose),
				fmt.Errorf("top post lookup failed: %w", err))},
		}, nil
	}

	if len(topPosts) == 0 {
		logger.InfoContext(ctx, "No historical posts to repurpose", "window_days", request.LookbackDays)

		return protocol.SourceResult{}, nil
	}

	if len(topPosts) > quota {
		topPosts = topPosts[:quota]
	}

	drafts := make([]models.PostDraft, 0, len(topPosts))

	for _, top := range topPosts {
		draft, err := a.rewritePost(ctx, top, runCtx)
		if err != nil {
			logger.ErrorContext(ctx, "Post rewrite failed", "channel", top.Channel, "error", err)
			drafts = append(drafts, models.FailureDraft(top.Text, err))

			continue
		}

		drafts = append(drafts, draft)
	}

	logger.InfoContext(ctx, "Posts repurposed", "count", len(drafts))

	return protocol.SourceResult{Drafts: drafts}, nil
}

func (a *Agent) rewritePost(ctx context.Context, top fetch.TopPost, runCtx protocol.RunContext) (models.PostDraft, error) {
	request := runCtx.Request

	raw, err := a.llm.Complete(ctx, llm.Request{
		System: a.systemPrompt(runCtx),
		User: prompts.WithUserInstructions(
			"Rewrite this post:\n\n"+top.Text,
			request.InstructionsFor(models.SourceRepurpose),
		),
	})
	if err != nil {
		return models.PostDraft{}, err
	}

	var out rewrite

	err = llm.DecodeValidated(rewriteSchema, raw, &out)
	if err != nil {
		return models.PostDraft{}, err
	}

	return models.PostDraft{
		Body:     out.Post,
		Keywords: out.Keywords,
		Origin:   top.Text,
	}, nil
}

func (a *Agent) systemPrompt(runCtx protocol.RunContext) string {
	var b strings.Builder

	b.WriteString("You rewrite a past social media post of the business below into a fresh post.\n")
	b.WriteString("Keep the theme and intent, change the wording and structure so it reads new.\n")
	b.WriteString("Remove stale references such as past dates, expired offers, or event announcements.\n")
	b.WriteString("The post must be in English only.\n\n")

	b.WriteString("<business>\nName: " + runCtx.Request.Business.Name + "\n")

	if runCtx.BusinessCategory != "" {
		b.WriteString("Category: " + runCtx.BusinessCategory + "\n")
	}

	b.WriteString("</business>\n")
	b.WriteString(prompts.KeywordGuidance)
	b.WriteString("\nReturn JSON: {\"post\": ..., \"keywords\": ...}")

	return b.String()
}
