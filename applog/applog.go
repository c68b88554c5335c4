// Package applog builds the process logger. The interactive UI owns the
// terminal, so log lines go to a file.
package applog

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"railbook-cli/config"
)

const DefaultFileName = "railbook.log"

// New returns a logger for cfg and a close func for its file. defaultDir is
// used when cfg.File is empty.
func New(cfg config.LogConfig, defaultDir string) (*slog.Logger, func() error, error) {
	level, enabled, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}
	if !enabled {
		return Discard(), func() error { return nil }, nil
	}

	path := strings.TrimSpace(cfg.File)
	if path == "" {
		path = filepath.Join(defaultDir, DefaultFileName)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(file, &slog.HandlerOptions{Level: level}))
	return logger, file.Close, nil
}

// Discard drops everything. Tests and disabled logging use it.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel maps a config level name. "off" reports enabled=false.
func ParseLevel(name string) (slog.Level, bool, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "info":
		return slog.LevelInfo, true, nil
	case "debug":
		return slog.LevelDebug, true, nil
	case "warn", "warning":
		return slog.LevelWarn, true, nil
	case "error":
		return slog.LevelError, true, nil
	case "off", "none":
		return slog.LevelInfo, false, nil
	default:
		return slog.LevelInfo, false, fmt.Errorf("unknown log level %q", name)
	}
}
