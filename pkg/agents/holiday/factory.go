package holiday

import (
	"context"
	"log/slog"

	"github.com/dukex/postforge/pkg/fetch"
	"github.com/dukex/postforge/pkg/llm"
	"github.com/dukex/postforge/pkg/models"
	"github.com/dukex/postforge/pkg/protocol"
)

// Factory builds holiday agents.
type Factory struct {
	llm       llm.Client
	calendar  fetch.HolidayCalendar
	directory fetch.BusinessDirectory
	logger    *slog.Logger
}

func NewFactory(client llm.Client, calendar fetch.HolidayCalendar, directory fetch.BusinessDirectory, logger *slog.Logger) *Factory {
	return &Factory{
		llm:       client,
		calendar:  calendar,
		directory: directory,
		logger:    logger,
	}
}

func (f *Factory) Source() models.Source {
	return models.SourceHoliday
}

func (f *Factory) Description() string {
	return "Generates posts themed around upcoming holidays and events"
}

func (f *Factory) Create(_ context.Context, _ []models.ToolConfig) (protocol.SourceAgent, error) {
	return NewAgent(f.llm, f.calendar, f.directory, f.logger), nil
}
