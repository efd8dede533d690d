package businessidea

import (
	"context"
	"log/slog"

	"github.com/dukex/postforge/pkg/llm"
	"github.com/dukex/postforge/pkg/models"
	"github.com/dukex/postforge/pkg/protocol"
)

// Factory builds business idea agents.
type Factory struct {
	llm    llm.Client
	logger *slog.Logger
}

func NewFactory(client llm.Client, logger *slog.Logger) *Factory {
	return &Factory{llm: client, logger: logger}
}

func (f *Factory) Source() models.Source {
	return models.SourceBusinessIdea
}

func (f *Factory) Description() string {
	return "Generates promotional posts from the business profile"
}

func (f *Factory) Create(_ context.Context, _ []models.ToolConfig) (protocol.SourceAgent, error) {
	return NewAgent(f.llm, f.logger), nil
}
