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

const defaultPort = 9092

func main() {
	logger := log.WithModule("api")

	command := &cli.Command{
		Name:                  "postforge-api",
		Usage:                 "Generate and inspect social media post batches",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
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

			logger.InfoContext(ctx, "Initializing Postforge API")

			tracer, err := otelhelper.NewTracer(ctx, "postforge-api")
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

			listener := NewRunListener(eventBus, logger)

			err = listener.Start(ctx)
			if err != nil {
				return err
			}

			api := NewAPI(
				logger,
				persistence,
				registry,
				fetchers,
				eventBus,
				tracer,
			)

			err = api.Start(command.Int("port"))
			if err != nil {
				logger.ErrorContext(ctx, "Failed to start API server", "error", err)
			}

			return nil
		},
	}

	err := command.Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}
