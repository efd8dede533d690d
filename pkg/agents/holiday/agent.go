// Package holiday implements the source agent that generates posts for
// upcoming holidays. It runs first in every workflow and also resolves the
// business category and profile consumed by the trending agent.
package holiday

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dukex/postforge/pkg/agents/prompts"
	"github.com/dukex/postforge/pkg/fetch"
	"github.com/dukex/postforge/pkg/llm"
	"github.com/dukex/postforge/pkg/models"
	"github.com/dukex/postforge/pkg/protocol"
)

// Agent generates one post per upcoming holiday, bounded by its quota.
type Agent struct {
	llm       llm.Client
	calendar  fetch.HolidayCalendar
	directory fetch.BusinessDirectory
	logger    *slog.Logger
}

// NewAgent creates a holiday agent.
func NewAgent(client llm.Client, calendar fetch.HolidayCalendar, directory fetch.BusinessDirectory, logger *slog.Logger) *Agent {
	return &Agent{
		llm:       client,
		calendar:  calendar,
		directory: directory,
		logger:    logger.With("module", "holiday_agent"),
	}
}

// Source returns the source tag of this agent.
func (a *Agent) Source() models.Source {
	return models.SourceHoliday
}

type batchPost struct {
	Post     string `json:"post"`
	Keywords string `json:"keywords"`
	Event    string `json:"event"`
}

type holidayBatch struct {
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
					"event":    map[string]any{"type": "string"},
				},
				"required": []string{"post", "keywords", "event"},
			},
		},
	},
	"required": []string{"posts"},
}

// Run fetches the upcoming holidays and generates one post per holiday, up to
// quota. The resolved business meta is returned as a side channel even when
// no holiday is upcoming, so later agents can still use it.
func (a *Agent) Run(ctx context.Context, quota int, runCtx protocol.RunContext) (protocol.SourceResult, error) {
	if quota <= 0 {
		return protocol.SourceResult{}, nil
	}

	request := runCtx.Request
	logger := a.logger.With("business_id", request.Business.SmallID)

	holidays, err := a.calendar.UpcomingHolidays(ctx, request.Business.SmallID, request.LookbackDays)
	if err != nil {
		logger.ErrorContext(ctx, "Holiday lookup failed", "error", err)

		return protocol.SourceResult{
			Drafts: []models.PostDraft{models.FailureDraft(string(models.SourceHoliday),
				fmt.Errorf("holiday lookup failed: %w", err))},
		}, nil
	}

	result := protocol.SourceResult{}

	meta, err := a.directory.BusinessMeta(ctx, request.Business.SmallID)
	if err != nil {
		// Downstream consumers of the category degrade to empty output.
		logger.WarnContext(ctx, "Business meta lookup failed", "error", err)
	} else {
		result.BusinessCategory = meta.Category
		result.BusinessInfo = meta.Info
	}

	if len(holidays) == 0 {
		logger.InfoContext(ctx, "No upcoming holidays in window", "window_days", request.LookbackDays)

		return result, nil
	}

	if len(holidays) > quota {
		holidays = holidays[:quota]
	}

	raw, err := a.llm.Complete(ctx, llm.Request{
		System: a.systemPrompt(holidays, request.Business.Name, meta),
		User: prompts.WithUserInstructions(
			"Generate one post per listed event.",
			request.InstructionsFor(models.SourceHoliday),
		),
	})
	if err != nil {
		logger.ErrorContext(ctx, "Holiday generation failed", "error", err)
		result.Drafts = []models.PostDraft{models.FailureDraft(string(models.SourceHoliday), err)}

		return result, nil
	}

	var batch holidayBatch

	err = llm.DecodeValidated(batchSchema, raw, &batch)
	if err != nil {
		logger.ErrorContext(ctx, "Holiday output rejected", "error", err)
		result.Drafts = []models.PostDraft{models.FailureDraft(string(models.SourceHoliday), err)}

		return result, nil
	}

	drafts := make([]models.PostDraft, 0, len(batch.Posts))
	for _, post := range batch.Posts {
		drafts = append(drafts, models.PostDraft{
			Body:     post.Post,
			Keywords: post.Keywords,
			Origin:   post.Event,
		})
	}

	logger.InfoContext(ctx, "Holiday posts generated", "count", len(drafts))
	result.Drafts = drafts

	return result, nil
}

func (a *Agent) systemPrompt(holidays []fetch.Holiday, businessName string, meta fetch.BusinessMeta) string {
	var b strings.Builder

	b.WriteString("Use the business details to generate one event-themed social media post per upcoming event.\n")
	b.WriteString("Balance information about the business and the event, and connect the two.\n")
	b.WriteString("Posts must be in English only. Avoid time-specific language or references to specific dates.\n\n")

	b.WriteString("<business>\nName: " + businessName + "\n")

	if meta.Category != "" {
		b.WriteString("Category: " + meta.Category + "\n")
	}

	if len(meta.Info) > 0 {
		if encoded, err := json.Marshal(meta.Info); err == nil {
			b.WriteString("Details: " + string(encoded) + "\n")
		}
	}

	b.WriteString("</business>\n\n<events>\n")

	for _, h := range holidays {
		b.WriteString(fmt.Sprintf("- %s (%s)\n", h.Name, h.Date))
	}

	b.WriteString("</events>\n")
	b.WriteString(prompts.KeywordGuidance)
	b.WriteString("\nReturn JSON: {\"posts\": [{\"post\": ..., \"keywords\": ..., \"event\": ...}]}")

	return b.String()
}
