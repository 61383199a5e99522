package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/EgehanKilicarslan/speertweet/backend-go/internal/config"
)

func New(cfg *config.Config) *slog.Logger {
	var out io.Writer = os.Stdout
	if cfg.LogFile != "" {
		out = io.MultiWriter(os.Stdout, newFileWriter(cfg.LogFile))
	}

	logger := NewWithWriter(cfg, out)

	slog.SetDefault(logger)

	return logger
}

// NewWithWriter builds the application logger on top of an arbitrary writer.
func NewWithWriter(cfg *config.Config, out io.Writer) *slog.Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	if strings.ToLower(cfg.AppEnv) == "production" {
		// JSON format
		handler = slog.NewJSONHandler(out, opts)
	} else {
		// Human-readable format
		handler = slog.NewTextHandler(out, opts)
	}

	return slog.New(handler)
}

func newFileWriter(path string) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    100, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
}
