package applog

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"railbook-cli/config"
)

func TestParseLevel(t *testing.T) {
	level, enabled, err := ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.True(t, enabled)
	assert.Equal(t, slog.LevelDebug, level)

	_, enabled, err = ParseLevel("off")
	require.NoError(t, err)
	assert.False(t, enabled)

	_, _, err = ParseLevel("loud")
	require.Error(t, err)
}

func TestNew_WritesToDefaultFile(t *testing.T) {
	dir := t.TempDir()
	logger, closeFn, err := New(config.LogConfig{Level: "info"}, dir)
	require.NoError(t, err)

	logger.Info("booking recorded", slog.String("ref", "IR-2026-01-01-000001"))
	logger.Debug("hidden")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(filepath.Join(dir, DefaultFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "ref=IR-2026-01-01-000001")
	assert.NotContains(t, string(data), "hidden")
}

func TestNew_Off(t *testing.T) {
	dir := t.TempDir()
	logger, closeFn, err := New(config.LogConfig{Level: "off"}, dir)
	require.NoError(t, err)
	logger.Error("dropped")
	require.NoError(t, closeFn())

	_, err = os.Stat(filepath.Join(dir, DefaultFileName))
	assert.True(t, os.IsNotExist(err))
}
