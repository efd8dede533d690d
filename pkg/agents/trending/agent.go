// Package trending implements the source agent that drafts posts around
// industry trends. Trend topics are pulled through a function call so the
// model can scope the query by industry and location.
package trending

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

// Agent generates posts around trending topics for the business's industry.
type Agent struct {
	llm    llm.Client
	feed   fetch.TrendFeed
	config trendConfig
	logger *slog.Logger
}

type trendConfig struct {
	Country string
	City    string
	State   string
}

func NewAgent(client llm.Client, feed fetch.TrendFeed, tools []models.ToolConfig, logger *slog.Logger) *Agent {
	agent := &Agent{
		llm:    client,
		feed:   feed,
		logger: logger.With("module", "trending_agent"),
	}

	for _, tool := range tools {
		if tool.Name != "trend_topics" {
			continue
		}

		if country, ok := tool.Config["country"].(string); ok {
			agent.config.Country = country
		}

		if city, ok := tool.Config["city"].(string); ok {
			agent.config.City = city
		}

		if state, ok := tool.Config["state"].(string); ok {
			agent.config.State = state
		}
	}

	return agent
}

func (a *Agent) Source() models.Source {
	return models.SourceTrending
}

type batchPost struct {
	Post     string `json:"post"`
	Keywords string `json:"keywords"`
	Topic    string `json:"topic"`
}

type trendBatch struct {
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
					"topic":    map[string]any{"type": "string"},
				},
				"required": []string{"post", "keywords"},
			},
		},
	},
	"required": []string{"posts"},
}

// Run asks the model to fetch trend topics via the tool and write up to quota
// posts tying the business to them. No trends in the window yields an empty
// result.
func (a *Agent) Run(ctx context.Context, quota int, runCtx protocol.RunContext) (protocol.SourceResult, error) {
	if quota <= 0 {
		return protocol.SourceResult{}, nil
	}

	request := runCtx.Request
	logger := a.logger.With("business_id", request.Business.SmallID)

	dataFound := false
	tool := llm.Tool{
		Name:        "fetch_trend_topics",
		Description: "Fetch trending topics relevant to the business's industry and location",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"industry": map[string]any{
					"type":        "string",
					"description": "Industry to search trends for",
				},
				"sub_industry": map[string]any{
					"type":        "string",
					"description": "Optional narrower industry segment",
				},
			},
			"required": []string{"industry"},
		},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			industry, _ := args["industry"].(string)
			subIndustry, _ := args["sub_industry"].(string)

			report, err := a.feed.TrendingTopics(ctx, fetch.TrendQuery{
				BusinessName: request.Business.Name,
				Industry:     industry,
				SubIndustry:  subIndustry,
				WindowDays:   request.LookbackDays,
				Country:      a.config.Country,
				City:         a.config.City,
				State:        a.config.State,
			})
			if err != nil {
				return "", err
			}

			if len(report.SelectedTopics) == 0 {
				return `{"selected_topics": [], "note": "no trends found"}`, nil
			}

			dataFound = true

			encoded, err := json.Marshal(report)
			if err != nil {
				return "", err
			}

			return string(encoded), nil
		},
	}

	raw, err := a.llm.Complete(ctx, llm.Request{
		System: a.systemPrompt(quota, runCtx),
		User: prompts.WithUserInstructions(
			"Fetch trend topics for this business, then write the posts.",
			request.InstructionsFor(models.SourceTrending),
		),
		Tools: []llm.Tool{tool},
	})
	if err != nil {
		if !dataFound {
			logger.WarnContext(ctx, "Trend generation aborted before any data", "error", err)

			return protocol.SourceResult{}, nil
		}

		logger.ErrorContext(ctx, "Trend generation failed", "error", err)

		return protocol.SourceResult{
			Drafts: []models.PostDraft{models.FailureDraft(string(models.SourceTrending), err)},
		}, nil
	}

	if !dataFound {
		logger.InfoContext(ctx, "No trend topics in window", "window_days", request.LookbackDays)

		return protocol.SourceResult{}, nil
	}

	var batch trendBatch

	err = llm.DecodeValidated(batchSchema, raw, &batch)
	if err != nil {
		logger.ErrorContext(ctx, "Trend output rejected", "error", err)

		return protocol.SourceResult{
			Drafts: []models.PostDraft{models.FailureDraft(string(models.SourceTrending), err)},
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
			Origin:   post.Topic,
		})
	}

	logger.InfoContext(ctx, "Trend posts generated", "count", len(drafts))

	return protocol.SourceResult{Drafts: drafts}, nil
}

func (a *Agent) systemPrompt(quota int, runCtx protocol.RunContext) string {
	var b strings.Builder

	b.WriteString("You write social media posts for the business below, tied to current industry trends.\n")
	b.WriteString("First decide the business's industry from its profile, then call fetch_trend_topics.\n")
	b.WriteString("Write one post per strong topic, connecting the trend back to the business.\n")
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
	b.WriteString("Number of posts to generate: " + strconv.Itoa(quota) + "\n")
	b.WriteString(prompts.KeywordGuidance)
	b.WriteString("\nReturn JSON: {\"posts\": [{\"post\": ..., \"keywords\": ..., \"topic\": ...}]}")

	return b.String()
}
