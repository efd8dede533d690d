package models

import "time"

// RunStatus represents the lifecycle state of a generation run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// GenerationRun is the persisted record of one generation invocation.
type GenerationRun struct {
	ID          string             `json:"id"`
	BusinessID  string             `json:"business_id"`
	TargetCount int                `json:"target_count"`
	Status      RunStatus          `json:"status"`
	Request     *GenerationRequest `json:"request,omitempty"`
	Posts       []EnrichedPost     `json:"posts,omitempty"`
	Error       string             `json:"error,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	CompletedAt *time.Time         `json:"completed_at,omitempty"`
}
