package web

import (
	"time"

	"github.com/dukex/postforge/pkg/models"
)

// GenerationResponse is the API representation of a generation run.
type GenerationResponse struct {
	ID          string                `json:"id"`
	BusinessID  string                `json:"business_id"`
	TargetCount int                   `json:"target_count"`
	Status      models.RunStatus      `json:"status"`
	Posts       []models.EnrichedPost `json:"posts"`
	Error       string                `json:"error,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
	CompletedAt *time.Time            `json:"completed_at,omitempty"`
}

func toGenerationResponse(run *models.GenerationRun) GenerationResponse {
	posts := run.Posts
	if posts == nil {
		posts = []models.EnrichedPost{}
	}

	return GenerationResponse{
		ID:          run.ID,
		BusinessID:  run.BusinessID,
		TargetCount: run.TargetCount,
		Status:      run.Status,
		Posts:       posts,
		Error:       run.Error,
		CreatedAt:   run.CreatedAt,
		CompletedAt: run.CompletedAt,
	}
}
