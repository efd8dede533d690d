// Package persistence provides the storage abstraction for generation runs.
package persistence

import (
	"context"

	"github.com/dukex/postforge/pkg/models"
)

type Persistence interface {
	Runs(ctx context.Context) ([]*models.GenerationRun, error)
	SaveRun(ctx context.Context, run *models.GenerationRun) error
	RunByID(ctx context.Context, id string) (*models.GenerationRun, error)
	HealthCheck(ctx context.Context) error

	Close(ctx context.Context) error
}
