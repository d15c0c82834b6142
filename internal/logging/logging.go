// Package logging builds the process logger from validated config.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/huangsam/douremember/internal/contract"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation limits for the optional log file.
const (
	maxSizeMB  = 10
	maxBackups = 3
	maxAgeDays = 28
)

// New builds a logger that writes to stderr and, when configured, to a rotated file.
func New(cfg *contract.Config, version string) *slog.Logger {
	return newWithWriter(cfg, os.Stderr, version)
}

func newWithWriter(cfg *contract.Config, stderr io.Writer, version string) *slog.Logger {
	writers := []io.Writer{stderr}
	if cfg.LogFile != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
			Compress:   true,
		})
	}

	w := io.MultiWriter(writers...)
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}

	var h slog.Handler
	if strings.EqualFold(cfg.LogFormat, "json") {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}

	return slog.New(h).With(
		slog.String("service", "douremember"),
		slog.String("version", version),
	)
}

// Setup builds the logger and installs it as the slog default.
func Setup(cfg *contract.Config, version string) *slog.Logger {
	logger := New(cfg, version)
	slog.SetDefault(logger)
	return logger
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
