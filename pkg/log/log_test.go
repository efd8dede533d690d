package log_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/dukex/postforge/pkg/log"
	"github.com/stretchr/testify/assert"
)

// Setup mutates the process default logger, so these cases run sequentially.
func TestSetup(t *testing.T) {
	ctx := context.Background()

	t.Run("json format installs a JSON handler", func(t *testing.T) {
		log.Setup("info", "json")

		assert.IsType(t, &slog.JSONHandler{}, slog.Default().Handler())
	})

	t.Run("text format installs a text handler", func(t *testing.T) {
		log.Setup("info", "text")

		assert.IsType(t, &slog.TextHandler{}, slog.Default().Handler())
	})

	t.Run("unknown format falls back to text", func(t *testing.T) {
		log.Setup("info", "yaml")

		assert.IsType(t, &slog.TextHandler{}, slog.Default().Handler())
	})

	t.Run("debug level enables debug records", func(t *testing.T) {
		log.Setup("debug", "text")

		assert.True(t, slog.Default().Enabled(ctx, slog.LevelDebug))
	})

	t.Run("unknown level falls back to info", func(t *testing.T) {
		log.Setup("verbose", "text")

		assert.False(t, slog.Default().Enabled(ctx, slog.LevelDebug))
		assert.True(t, slog.Default().Enabled(ctx, slog.LevelInfo))
	})
}
