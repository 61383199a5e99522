package logger_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EgehanKilicarslan/speertweet/backend-go/internal/config"
	"github.com/EgehanKilicarslan/speertweet/backend-go/internal/logger"
)

func TestNewWithWriter_Development(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&config.Config{AppEnv: "development", LogLevel: slog.LevelDebug}, &buf)

	log.Debug("test message", "key", "value")

	assert.Contains(t, buf.String(), "test message")
	assert.Contains(t, buf.String(), "key=value")
}

func TestNewWithWriter_Production(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&config.Config{AppEnv: "production", LogLevel: slog.LevelInfo}, &buf)

	log.Info("test message", slog.String("key", "value"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "test message", entry["msg"])
	assert.Equal(t, "value", entry["key"])
}

func TestNewWithWriter_LogLevels(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&config.Config{LogLevel: slog.LevelWarn}, &buf)

	log.Info("hidden")
	log.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNew_WritesToLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	log := logger.New(&config.Config{LogLevel: slog.LevelInfo, LogFile: path})
	t.Cleanup(func() { slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil))) })

	log.Info("rotated message")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "rotated message")
}
