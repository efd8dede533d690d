// Package protocol defines the contracts between the workflow and its agents.
package protocol

import (
	"context"

	"github.com/dukex/postforge/pkg/models"
)

// RunContext is the read-only request context handed to every agent, plus the
// side-channel values discovered earlier in the same run.
type RunContext struct {
	Request *models.GenerationRequest

	// BusinessCategory and BusinessInfo are discovered by the Holiday agent
	// and consumed by the Trending agent. Empty when Holiday did not run or
	// could not resolve them; agents that need them degrade to empty output.
	BusinessCategory string
	BusinessInfo     map[string]any
}

// SourceResult is what one agent contributed to a run. Drafts may contain
// failure placeholders; Realized counts only deliverable posts.
type SourceResult struct {
	Drafts []models.PostDraft

	// Side-channel outputs, set by the Holiday agent only.
	BusinessCategory string
	BusinessInfo     map[string]any
}

// Realized returns the number of non-placeholder drafts.
func (r SourceResult) Realized() int {
	return models.CountRealized(r.Drafts)
}

// SourceAgent turns a requested count plus context into post drafts.
//
// Implementations must short-circuit on quota <= 0 without touching the LLM
// or any external fetch, return an empty result on legitimate no-data, and
// convert internal generation failures into a single failure-placeholder
// draft instead of returning an error. A returned error means the agent could
// not run at all; the workflow downgrades it to a placeholder draft.
type SourceAgent interface {
	Source() models.Source
	Run(ctx context.Context, quota int, runCtx RunContext) (SourceResult, error)
}

// AgentFactory creates agent instances configured with the caller's per-source
// tool configuration.
type AgentFactory interface {
	// Create builds a new agent instance for one run.
	Create(ctx context.Context, tools []models.ToolConfig) (SourceAgent, error)

	// Source returns the source this factory builds agents for.
	Source() models.Source

	// Description returns a human-readable description of the agent.
	Description() string
}
