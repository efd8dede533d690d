package repurpose

import (
	"context"
	"log/slog"

	"github.com/dukex/postforge/pkg/fetch"
	"github.com/dukex/postforge/pkg/llm"
	"github.com/dukex/postforge/pkg/models"
	"github.com/dukex/postforge/pkg/protocol"
)

// Factory builds repurpose agents.
type Factory struct {
	llm     llm.Client
	archive fetch.TopPostArchive
	logger  *slog.Logger
}

func NewFactory(client llm.Client, archive fetch.TopPostArchive, logger *slog.Logger) *Factory {
	return &Factory{llm: client, archive: archive, logger: logger}
}

func (f *Factory) Source() models.Source {
	return models.SourceRepurpose
}

func (f *Factory) Description() string {
	return "Rewrites top performing past posts into fresh drafts"
}

func (f *Factory) Create(_ context.Context, _ []models.ToolConfig) (protocol.SourceAgent, error) {
	return NewAgent(f.llm, f.archive, f.logger), nil
}
