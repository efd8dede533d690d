// Package main provides the Postforge API server implementation.
package main

import (
	"log/slog"
	"strconv"

	"github.com/dukex/postforge/pkg/cmd"
	"github.com/dukex/postforge/pkg/enrich"
	"github.com/dukex/postforge/pkg/eventbus"
	"github.com/dukex/postforge/pkg/persistence"
	"github.com/dukex/postforge/pkg/registry"
	"github.com/dukex/postforge/pkg/slots"
	"github.com/dukex/postforge/pkg/web"
	"github.com/dukex/postforge/pkg/workflow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"go.opentelemetry.io/otel/trace"
)

type API struct {
	logger      *slog.Logger
	persistence persistence.Persistence
	registry    *registry.Registry
	fetchers    *cmd.Fetchers
	eventBus    eventbus.EventBus
	tracer      trace.Tracer
	validate    *validator.Validate
}

func NewAPI(
	logger *slog.Logger,
	persist persistence.Persistence,
	reg *registry.Registry,
	fetchers *cmd.Fetchers,
	eventBus eventbus.EventBus,
	tracer trace.Tracer,
) *API {
	return &API{
		logger:      logger,
		persistence: persist,
		registry:    reg,
		fetchers:    fetchers,
		eventBus:    eventBus,
		tracer:      tracer,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	combiner := enrich.NewCombiner(a.fetchers.Images, enrich.DefaultWorkers, a.logger)
	slotter := slots.NewAssigner(a.fetchers.Slots, a.logger)

	generator := workflow.NewGenerator(
		a.registry,
		combiner,
		slotter,
		a.eventBus,
		a.tracer,
		a.logger,
		workflow.Config{},
	)

	handlers := web.NewAPIHandlers(generator, a.persistence, a.validate, a.registry, a.logger)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Postforge API")
	})

	g := app.Group("/generations")
	g.Post("/", handlers.CreateGeneration)
	g.Get("/", handlers.GetGenerations)
	g.Get("/:id", handlers.GetGeneration)

	app.Get("/sources", handlers.GetSources)
	app.Get("/health", handlers.GetHealth)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	return app.Listen(":" + strconv.Itoa(port))
}
