package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/oozu/internal/config"
)

func TestNewLogger_Formats(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		logger, err := NewLogger(config.LoggingConfig{Level: "info", Format: format})
		require.NoError(t, err, "format %q should be valid", format)
		assert.NotNil(t, logger)
	}
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	_, err := NewLogger(config.LoggingConfig{Level: "trace", Format: "json"})
	assert.Error(t, err)
}

func TestNewLogger_InvalidFormat(t *testing.T) {
	_, err := NewLogger(config.LoggingConfig{Level: "info", Format: "xml"})
	assert.Error(t, err)
}

func TestNewLogger_LevelGate(t *testing.T) {
	logger, err := NewLogger(config.LoggingConfig{Level: "warn", Format: "json"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.InfoLevel))
	assert.True(t, logger.Core().Enabled(zap.WarnLevel))
}

func TestComponent_TagsEntries(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	Component(zap.New(core), "quest").Info("started")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "quest", entries[0].LoggerName)
	assert.Equal(t, "quest", entries[0].ContextMap()["component"])
}
