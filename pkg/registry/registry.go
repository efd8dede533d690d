// Package registry holds the available source agent factories and builds
// agents on demand for a generation run.
package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/dukex/postforge/pkg/models"
	"github.com/dukex/postforge/pkg/protocol"
)

type Registry struct {
	logger    *slog.Logger
	factories map[models.Source]protocol.AgentFactory
}

func NewRegistry(log *slog.Logger) *Registry {
	return &Registry{
		logger:    log,
		factories: make(map[models.Source]protocol.AgentFactory),
	}
}

func (r *Registry) Register(factory protocol.AgentFactory) {
	r.factories[factory.Source()] = factory
}

// CreateAgent builds an agent for the given source, passing through any tool
// configuration from the request.
func (r *Registry) CreateAgent(ctx context.Context, source models.Source, tools []models.ToolConfig) (protocol.SourceAgent, error) {
	factory, ok := r.factories[source]
	if !ok {
		return nil, fmt.Errorf("source '%s' not registered", source)
	}

	return factory.Create(ctx, tools)
}

// AvailableSources lists the registered sources in a stable order.
func (r *Registry) AvailableSources() []models.Source {
	sources := make([]models.Source, 0, len(r.factories))
	for source := range r.factories {
		sources = append(sources, source)
	}

	sort.Slice(sources, func(i, j int) bool { return sources[i] < sources[j] })

	return sources
}

// SourceInfo describes a registered source for API consumers.
type SourceInfo struct {
	Source      models.Source `json:"source"`
	Description string        `json:"description"`
}

func (r *Registry) SourceInfos() []SourceInfo {
	infos := make([]SourceInfo, 0, len(r.factories))
	for _, source := range r.AvailableSources() {
		infos = append(infos, SourceInfo{
			Source:      source,
			Description: r.factories[source].Description(),
		})
	}

	return infos
}
