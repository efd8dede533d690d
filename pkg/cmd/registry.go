// Package cmd provides common initialization functions for the command-line
// applications.
package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dukex/postforge/pkg/agents/businessidea"
	"github.com/dukex/postforge/pkg/agents/competitor"
	"github.com/dukex/postforge/pkg/agents/holiday"
	"github.com/dukex/postforge/pkg/agents/repurpose"
	"github.com/dukex/postforge/pkg/agents/trending"
	"github.com/dukex/postforge/pkg/fetch"
	"github.com/dukex/postforge/pkg/llm"
	"github.com/dukex/postforge/pkg/locations"
	"github.com/dukex/postforge/pkg/registry"
	"github.com/redis/go-redis/v9"
)

const collaboratorTimeout = 30 * time.Second
const cacheTTL = 12 * time.Hour

// CollaboratorConfig holds the endpoints of the external services the agents
// pull data from.
type CollaboratorConfig struct {
	BaseURL       string
	PixabayURL    string
	PixabayKey    string
	RedisURL      string
	LocationsFile string
}

// Fetchers bundles the collaborator clients shared between the registry and
// the enrichment stages.
type Fetchers struct {
	Calendar  fetch.HolidayCalendar
	Directory fetch.BusinessDirectory
	Archive   fetch.TopPostArchive
	Feed      fetch.CompetitorFeed
	Trends    fetch.TrendFeed
	Images    fetch.ImageSearcher
	Slots     fetch.SlotSource
}

// NewFetchers builds the collaborator clients. When a Redis URL is given,
// the business directory and image searcher are wrapped in read-through
// caches. The location table comes from Redis when available, otherwise
// from a local file.
func NewFetchers(logger *slog.Logger, cfg CollaboratorConfig) (*Fetchers, error) {
	var table locations.Table

	var redisClient redis.UniversalClient

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
		}

		redisClient = redis.NewClient(opts)
		table = locations.NewRedisTable(redisClient)
	} else if cfg.LocationsFile != "" {
		fileTable, err := locations.NewFileTable(cfg.LocationsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load location table: %w", err)
		}

		table = fileTable
	} else {
		table = locations.NewStaticTable(nil)
	}

	fetchers := &Fetchers{
		Calendar:  fetch.NewRESTHolidayCalendar(cfg.BaseURL, collaboratorTimeout),
		Directory: fetch.NewRESTBusinessDirectory(cfg.BaseURL, collaboratorTimeout),
		Archive:   fetch.NewRESTTopPostArchive(cfg.BaseURL, collaboratorTimeout, table),
		Feed:      fetch.NewRESTCompetitorFeed(cfg.BaseURL, collaboratorTimeout),
		Trends:    fetch.NewRESTTrendFeed(cfg.BaseURL, collaboratorTimeout),
		Images:    fetch.NewPixabayImageSearch(cfg.PixabayURL, cfg.PixabayKey, collaboratorTimeout),
		Slots:     fetch.NewRESTSlotSource(cfg.BaseURL, collaboratorTimeout),
	}

	if redisClient != nil {
		fetchers.Directory = fetch.NewCachedBusinessDirectory(fetchers.Directory, redisClient, cacheTTL, logger)
		fetchers.Images = fetch.NewCachedImageSearcher(fetchers.Images, redisClient, cacheTTL, logger)
	}

	return fetchers, nil
}

// NewRegistry registers one factory per post source.
func NewRegistry(logger *slog.Logger, client llm.Client, fetchers *Fetchers) *registry.Registry {
	reg := registry.NewRegistry(logger)

	reg.Register(holiday.NewFactory(client, fetchers.Calendar, fetchers.Directory, logger))
	reg.Register(businessidea.NewFactory(client, logger))
	reg.Register(repurpose.NewFactory(client, fetchers.Archive, logger))
	reg.Register(competitor.NewFactory(client, fetchers.Feed, logger))
	reg.Register(trending.NewFactory(client, fetchers.Trends, logger))

	return reg
}
