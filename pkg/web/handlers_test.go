package web_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dukex/postforge/pkg/models"
	"github.com/dukex/postforge/pkg/persistence/file"
	"github.com/dukex/postforge/pkg/registry"
	"github.com/dukex/postforge/pkg/web"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	posts []models.EnrichedPost
	err   error
}

func (s *stubGenerator) Generate(_ context.Context, _ models.GenerationRequest) ([]models.EnrichedPost, error) {
	return s.posts, s.err
}

func newApp(t *testing.T, generator web.PostGenerator) *fiber.App {
	t.Helper()

	handlers := web.NewAPIHandlers(
		generator,
		file.NewPersistence(t.TempDir()),
		validator.New(validator.WithRequiredStructEnabled()),
		registry.NewRegistry(slog.Default()),
		slog.Default(),
	)

	app := fiber.New()
	app.Post("/generations", handlers.CreateGeneration)
	app.Get("/generations", handlers.GetGenerations)
	app.Get("/generations/:id", handlers.GetGeneration)
	app.Get("/sources", handlers.GetSources)
	app.Get("/health", handlers.GetHealth)

	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, payload any) *http.Response {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	return resp
}

func sampleRequest() models.GenerationRequest {
	return models.GenerationRequest{
		TargetCount:    3,
		EnabledSources: []models.Source{models.SourceHoliday, models.SourceBusinessIdea},
		Business:       models.BusinessIdentity{SmallID: "biz-1", Name: "Corner Bakery"},
	}
}

func TestCreateGeneration(t *testing.T) {
	t.Parallel()

	generator := &stubGenerator{posts: []models.EnrichedPost{
		{Source: models.SourceHoliday, Body: "a post", Keywords: "bread"},
	}}
	app := newApp(t, generator)

	resp := postJSON(t, app, "/generations", sampleRequest())
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created web.GenerationResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, models.RunStatusCompleted, created.Status)
	require.Len(t, created.Posts, 1)
	assert.Equal(t, models.SourceHoliday, created.Posts[0].Source)

	// The finished run is retrievable.
	req := httptest.NewRequest(http.MethodGet, "/generations/"+created.ID, nil)
	getResp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, getResp.StatusCode)
}

func TestCreateGenerationValidation(t *testing.T) {
	t.Parallel()

	app := newApp(t, &stubGenerator{})

	request := sampleRequest()
	request.Business.Name = ""

	resp := postJSON(t, app, "/generations", request)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateGenerationWorkflowFailure(t *testing.T) {
	t.Parallel()

	app := newApp(t, &stubGenerator{err: errors.New("invalid request")})

	resp := postJSON(t, app, "/generations", sampleRequest())
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetGenerationNotFound(t *testing.T) {
	t.Parallel()

	app := newApp(t, &stubGenerator{})

	req := httptest.NewRequest(http.MethodGet, "/generations/missing", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetGenerationsEmpty(t *testing.T) {
	t.Parallel()

	app := newApp(t, &stubGenerator{})

	req := httptest.NewRequest(http.MethodGet, "/generations", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Generations []web.GenerationResponse `json:"generations"`
		TotalCount  int                      `json:"total_count"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Zero(t, body.TotalCount)
	assert.Empty(t, body.Generations)
}

func TestGetSources(t *testing.T) {
	t.Parallel()

	app := newApp(t, &stubGenerator{})

	req := httptest.NewRequest(http.MethodGet, "/sources", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGetHealth(t *testing.T) {
	t.Parallel()

	app := newApp(t, &stubGenerator{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
