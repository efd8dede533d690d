package trending

import (
	"context"
	"log/slog"

	"github.com/dukex/postforge/pkg/fetch"
	"github.com/dukex/postforge/pkg/llm"
	"github.com/dukex/postforge/pkg/models"
	"github.com/dukex/postforge/pkg/protocol"
)

// Factory builds trending agents.
type Factory struct {
	llm    llm.Client
	feed   fetch.TrendFeed
	logger *slog.Logger
}

func NewFactory(client llm.Client, feed fetch.TrendFeed, logger *slog.Logger) *Factory {
	return &Factory{llm: client, feed: feed, logger: logger}
}

func (f *Factory) Source() models.Source {
	return models.SourceTrending
}

func (f *Factory) Description() string {
	return "Writes posts tied to current trends in the business's industry"
}

func (f *Factory) Create(_ context.Context, tools []models.ToolConfig) (protocol.SourceAgent, error) {
	return NewAgent(f.llm, f.feed, tools, f.logger), nil
}
