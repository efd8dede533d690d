// Package web provides the REST API for creating and inspecting generation
// runs.
package web

import (
	"context"
	"log/slog"
	"time"

	"github.com/dukex/postforge/pkg/models"
	"github.com/dukex/postforge/pkg/persistence"
	"github.com/dukex/postforge/pkg/registry"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// PostGenerator runs the generation workflow for one request.
type PostGenerator interface {
	Generate(ctx context.Context, request models.GenerationRequest) ([]models.EnrichedPost, error)
}

type APIHandlers struct {
	generator   PostGenerator
	persistence persistence.Persistence
	validator   *validator.Validate
	registry    *registry.Registry
	logger      *slog.Logger
}

func NewAPIHandlers(
	generator PostGenerator,
	persist persistence.Persistence,
	validator *validator.Validate,
	reg *registry.Registry,
	logger *slog.Logger,
) *APIHandlers {
	return &APIHandlers{
		generator:   generator,
		persistence: persist,
		validator:   validator,
		registry:    reg,
		logger:      logger.With("module", "api"),
	}
}

// CreateGeneration runs the workflow synchronously and returns the finished
// run. Runs are persisted in the running state first so interrupted runs
// remain visible.
func (h *APIHandlers) CreateGeneration(c fiber.Ctx) error {
	var request models.GenerationRequest

	err := c.Bind().JSON(&request)
	if err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}

	if request.TargetCount > 0 {
		err = h.validator.Struct(request)
		if err != nil {
			return badRequest(c, err.Error())
		}
	}

	run := &models.GenerationRun{
		ID:          uuid.New().String(),
		BusinessID:  request.Business.SmallID,
		TargetCount: request.TargetCount,
		Status:      models.RunStatusRunning,
		Request:     &request,
		CreatedAt:   time.Now().UTC(),
	}

	err = h.persistence.SaveRun(c.Context(), run)
	if err != nil {
		return internalError(c, err)
	}

	posts, err := h.generator.Generate(c.Context(), request)

	completed := time.Now().UTC()
	run.CompletedAt = &completed

	if err != nil {
		run.Status = models.RunStatusFailed
		run.Error = err.Error()
	} else {
		run.Status = models.RunStatusCompleted
		run.Posts = posts
	}

	saveErr := h.persistence.SaveRun(c.Context(), run)
	if saveErr != nil {
		h.logger.ErrorContext(c.Context(), "Failed to persist finished run", "run_id", run.ID, "error", saveErr)
	}

	if err != nil {
		return badRequest(c, err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(toGenerationResponse(run))
}

func (h *APIHandlers) GetGenerations(c fiber.Ctx) error {
	runs, err := h.persistence.Runs(c.Context())
	if err != nil {
		return handlePersistenceError(c, err)
	}

	responses := make([]GenerationResponse, 0, len(runs))
	for _, run := range runs {
		responses = append(responses, toGenerationResponse(run))
	}

	return c.JSON(fiber.Map{
		"generations": responses,
		"total_count": len(responses),
	})
}

func (h *APIHandlers) GetGeneration(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Missing generation id")
	}

	run, err := h.persistence.RunByID(c.Context(), id)
	if err != nil {
		return handlePersistenceError(c, err)
	}

	return c.JSON(toGenerationResponse(run))
}

// GetSources lists the registered post sources and their descriptions.
func (h *APIHandlers) GetSources(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"sources": h.registry.SourceInfos(),
	})
}

func (h *APIHandlers) GetHealth(c fiber.Ctx) error {
	err := h.persistence.HealthCheck(c.Context())
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{"status": "ok"})
}
