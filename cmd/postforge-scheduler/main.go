package main

import (
	"context"
	"os"

	"github.com/dukex/postforge/pkg/cmd"
	"github.com/dukex/postforge/pkg/llm"
	"github.com/dukex/postforge/pkg/log"
	"github.com/dukex/postforge/pkg/otelhelper"
	cli "github.com/urfave/cli/v3"
)

func main() {
	logger := log.WithModule("scheduler")

	command := &cli.Command{
		Name:                  "postforge-scheduler",
		Usage:                 "Run recurring post generation on a cron schedule",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "schedule-file",
				Usage:    "Path to the JSON schedule definition",
				Required: true,
				Sources:  cli.EnvVars("SCHEDULE_FILE"),
			},
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Database connection URL for persistence",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus provider (kafka, memory)",
				Value:   "memory",
				Sources: cli.EnvVars("EVENT_BUS"),
			},
			&cli.StringFlag{
				Name:     "collaborator-url",
				Usage:    "Base URL of the business data services",
				Required: true,
				Sources:  cli.EnvVars("COLLABORATOR_URL"),
			},
			&cli.StringFlag{
				Name:    "pixabay-url",
				Usage:   "Pixabay API base URL",
				Value:   "https://pixabay.com",
				Sources: cli.EnvVars("PIXABAY_URL"),
			},
			&cli.StringFlag{
				Name:    "pixabay-key",
				Usage:   "Pixabay API key",
				Sources: cli.EnvVars("PIXABAY_API_KEY"),
			},
			&cli.StringFlag{
				Name:    "redis-url",
				Usage:   "Redis URL for caches and the location table",
				Sources: cli.EnvVars("REDIS_URL"),
			},
			&cli.StringFlag{
				Name:    "locations-file",
				Usage:   "Path to a JSON location table, used when Redis is not configured",
				Sources: cli.EnvVars("LOCATIONS_FILE"),
			},
			&cli.StringFlag{
				Name:     "openai-api-key",
				Usage:    "OpenAI API key",
				Required: true,
				Sources:  cli.EnvVars("OPENAI_API_KEY"),
			},
			&cli.StringFlag{
				Name:    "openai-model",
				Usage:   "OpenAI model for post generation",
				Value:   "gpt-4o",
				Sources: cli.EnvVars("OPENAI_MODEL"),
			},
			&cli.StringFlag{
				Name:    "openai-base-url",
				Usage:   "Override the OpenAI API base URL",
				Sources: cli.EnvVars("OPENAI_BASE_URL"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "log-format",
				Usage:   "Log format (text, json)",
				Value:   "text",
				Sources: cli.EnvVars("LOG_FORMAT"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"), command.String("log-format"))

			logger.InfoContext(ctx, "Initializing Postforge scheduler")

			tracer, err := otelhelper.NewTracer(ctx, "postforge-scheduler")
			if err != nil {
				return err
			}

			client, err := llm.NewOpenAIClient(llm.OpenAIConfig{
				Model:   command.String("openai-model"),
				APIKey:  command.String("openai-api-key"),
				BaseURL: command.String("openai-base-url"),
			}, logger)
			if err != nil {
				return err
			}

			fetchers, err := cmd.NewFetchers(logger, cmd.CollaboratorConfig{
				BaseURL:       command.String("collaborator-url"),
				PixabayURL:    command.String("pixabay-url"),
				PixabayKey:    command.String("pixabay-key"),
				RedisURL:      command.String("redis-url"),
				LocationsFile: command.String("locations-file"),
			})
			if err != nil {
				return err
			}

			registry := cmd.NewRegistry(logger, client, fetchers)
			persistence := cmd.NewPersistence(ctx, logger, command.String("database-url"))

			defer func() {
				err := persistence.Close(ctx)
				if err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			eventBus := cmd.NewEventBus(command.String("event-bus"), logger)
			defer func() {
				if err := eventBus.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			scheduler := NewScheduler(
				logger,
				persistence,
				registry,
				fetchers,
				eventBus,
				tracer,
			)

			return scheduler.Run(ctx, command.String("schedule-file"))
		},
	}

	err := command.Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}
