// Package competitor implements the source agent that drafts posts inspired
// by high engagement competitor content. The model pulls competitor posts
// through a function call, which lets it refine the query before writing.
package competitor

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"

	"github.com/dukex/postforge/pkg/agents/prompts"
	"github.com/dukex/postforge/pkg/fetch"
	"github.com/dukex/postforge/pkg/llm"
	"github.com/dukex/postforge/pkg/models"
	"github.com/dukex/postforge/pkg/protocol"
)

// Agent generates posts inspired by competitor content.
type Agent struct {
	llm    llm.Client
	feed   fetch.CompetitorFeed
	config competitorConfig
	logger *slog.Logger
}

type competitorConfig struct {
	Channel       string
	MinEngagement int
}

func NewAgent(client llm.Client, feed fetch.CompetitorFeed, tools []models.ToolConfig, logger *slog.Logger) *Agent {
	agent := &Agent{
		llm:    client,
		feed:   feed,
		logger: logger.With("module", "competitor_agent"),
	}

	for _, tool := range tools {
		if tool.Name != "competitor_posts" {
			continue
		}

		if channel, ok := tool.Config["channel"].(string); ok {
			agent.config.Channel = channel
		}

		if minEng, ok := tool.Config["min_engagement"].(float64); ok {
			agent.config.MinEngagement = int(minEng)
		}
	}

	return agent
}

func (a *Agent) Source() models.Source {
	return models.SourceCompetitor
}

type batchPost struct {
	Post       string `json:"post"`
	Keywords   string `json:"keywords"`
	InspiredBy string `json:"inspired_by"`
}

type competitorBatch struct {
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
					"post":        map[string]any{"type": "string"},
					"keywords":    map[string]any{"type": "string"},
					"inspired_by": map[string]any{"type": "string"},
				},
				"required": []string{"post", "keywords"},
			},
		},
	},
	"required": []string{"posts"},
}

// Run asks the model to fetch competitor posts via the tool and write up to
// quota posts inspired by them. A window with no competitor activity yields
// an empty result, while a completion error after data was found yields an
// error draft.
func (a *Agent) Run(ctx context.Context, quota int, runCtx protocol.RunContext) (protocol.SourceResult, error) {
	if quota <= 0 {
		return protocol.SourceResult{}, nil
	}

	request := runCtx.Request
	logger := a.logger.With("business_id", request.Business.SmallID)

	dataFound := false
	tool := llm.Tool{
		Name:        "fetch_competitor_posts",
		Description: "Fetch recent high engagement posts from competitors of the business",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"window_days": map[string]any{
					"type":        "integer",
					"description": "How many days back to search",
				},
			},
		},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			windowDays := request.LookbackDays
			if days, ok := args["window_days"].(float64); ok && days > 0 {
				windowDays = int(days)
			}

			posts, err := a.feed.CompetitorPosts(ctx, fetch.CompetitorQuery{
				BusinessName:  request.Business.Name,
				Channel:       a.config.Channel,
				WindowDays:    windowDays,
				MinEngagement: a.config.MinEngagement,
			})
			if err != nil {
				return "", err
			}

			if len(posts) == 0 {
				return `{"posts": [], "note": "no competitor posts found in window"}`, nil
			}

			dataFound = true

			encoded, err := json.Marshal(map[string]any{"posts": posts})
			if err != nil {
				return "", err
			}

			return string(encoded), nil
		},
	}

	raw, err := a.llm.Complete(ctx, llm.Request{
		System: a.systemPrompt(quota, runCtx),
		User: prompts.WithUserInstructions(
			"Fetch competitor posts, then write the posts.",
			request.InstructionsFor(models.SourceCompetitor),
		),
		Tools: []llm.Tool{tool},
	})
	if err != nil {
		if !dataFound {
			// The tool never produced data, treat the whole source as empty
			// rather than failed.
			logger.WarnContext(ctx, "Competitor generation aborted before any data", "error", err)

			return protocol.SourceResult{}, nil
		}

		logger.ErrorContext(ctx, "Competitor generation failed", "error", err)

		return protocol.SourceResult{
			Drafts: []models.PostDraft{models.FailureDraft(string(models.SourceCompetitor), err)},
		}, nil
	}

	if !dataFound {
		logger.InfoContext(ctx, "No competitor posts in window", "window_days", request.LookbackDays)

		return protocol.SourceResult{}, nil
	}

	var batch competitorBatch

	err = llm.DecodeValidated(batchSchema, raw, &batch)
	if err != nil {
		logger.ErrorContext(ctx, "Competitor output rejected", "error", err)

		return protocol.SourceResult{
			Drafts: []models.PostDraft{models.FailureDraft(string(models.SourceCompetitor), err)},
		}, nil
	}

	if len(batch.Posts) > quota {
		batch.Posts = batch.Posts[:quota]
	}

	drafts := make([]models.PostDraft, 0, len(batch.Posts))
	for _, post := range batch.Posts {
		drafts = append(drafts, models.PostDraft{
			Body:     post.Post,
			Keywords: post.Keywords,
			Origin:   post.InspiredBy,
		})
	}

	logger.InfoContext(ctx, "Competitor posts generated", "count", len(drafts))

	return protocol.SourceResult{Drafts: drafts}, nil
}

func (a *Agent) systemPrompt(quota int, runCtx protocol.RunContext) string {
	var b strings.Builder

	b.WriteString("You write social media posts for the business below, inspired by what its competitors post.\n")
	b.WriteString("First call fetch_competitor_posts to see recent competitor content.\n")
	b.WriteString("Then write original posts for this business that compete with the strongest themes you see.\n")
	b.WriteString("Never copy competitor text and never mention competitors by name.\n")
	b.WriteString("Posts must be in English only.\n\n")

	b.WriteString("<business>\nName: " + runCtx.Request.Business.Name + "\n")

	if runCtx.BusinessCategory != "" {
		b.WriteString("Category: " + runCtx.BusinessCategory + "\n")
	}

	b.WriteString("</business>\n\n")
	b.WriteString("Number of posts to generate: " + strconv.Itoa(quota) + "\n")
	b.WriteString(prompts.KeywordGuidance)
	b.WriteString("\nReturn JSON: {\"posts\": [{\"post\": ..., \"keywords\": ..., \"inspired_by\": ...}]}")

	return b.String()
}
