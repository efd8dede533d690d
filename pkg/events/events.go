// Package events defines event types and structures for generation run
// lifecycle notifications.
package events

import (
	"time"

	"github.com/dukex/postforge/pkg/models"
	"github.com/google/uuid"
)

type EventType string

// Kafka topic.
const Topic = "postforge.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	GenerationStartedEvent         EventType = "generation.started"
	GenerationSourceCompletedEvent EventType = "generation.source.completed"
	GenerationCompletedEvent       EventType = "generation.completed"
	GenerationFailedEvent          EventType = "generation.failed"
)

type BaseEvent struct {
	ID         string         `json:"id"`
	Type       EventType      `json:"type"`
	Timestamp  time.Time      `json:"timestamp"`
	RunID      string         `json:"run_id"`
	BusinessID string         `json:"business_id"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

func NewBaseEvent(eventType EventType, runID, businessID string) BaseEvent {
	return BaseEvent{
		ID:         uuid.New().String(),
		Type:       eventType,
		Timestamp:  time.Now().UTC(),
		RunID:      runID,
		BusinessID: businessID,
	}
}

type GenerationStarted struct {
	BaseEvent

	TargetCount    int             `json:"target_count"`
	EnabledSources []models.Source `json:"enabled_sources"`
}

func (e GenerationStarted) GetType() EventType {
	return GenerationStartedEvent
}

type GenerationSourceCompleted struct {
	BaseEvent

	Source      models.Source `json:"source"`
	Quota       int           `json:"quota"`
	Realized    int           `json:"realized"`
	FailedDraft bool          `json:"failed_draft"`
}

func (e GenerationSourceCompleted) GetType() EventType {
	return GenerationSourceCompletedEvent
}

type GenerationCompleted struct {
	BaseEvent

	PostCount int           `json:"post_count"`
	Duration  time.Duration `json:"duration"`
}

func (e GenerationCompleted) GetType() EventType {
	return GenerationCompletedEvent
}

type GenerationFailed struct {
	BaseEvent

	Error string `json:"error"`
}

func (e GenerationFailed) GetType() EventType {
	return GenerationFailedEvent
}
