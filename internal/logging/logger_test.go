package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/huangsam/cyclereport/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.LevelInfo, &buf, schema.JSONLogFormat)

	logger.Debug("hidden")
	logger.Info("fetched", "query", "issue counts", "teams", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "fetched", entry["msg"])
	assert.Equal(t, "issue counts", entry["query"])
	assert.InDelta(t, 3, entry["teams"], 0)
	assert.NotContains(t, buf.String(), "hidden")
}

func TestNewLoggerAutoUsesJSONForBuffers(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.LevelWarn, &buf, schema.AutoLogFormat)

	logger.Info("skipped")
	logger.Warn("history unavailable")

	assert.NotContains(t, buf.String(), "skipped")
	assert.True(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
	assert.False(t, IsTerminal(&buf))
}

func TestNewLoggerConsole(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.LevelDebug, &buf, schema.ConsoleLogFormat)

	logger.Debug("scope index built", "cycles", 12)
	assert.Contains(t, buf.String(), "scope index built")
	assert.False(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}
