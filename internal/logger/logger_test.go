package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"":      slog.LevelInfo,
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestConsoleAndFile(t *testing.T) {
	var console bytes.Buffer
	dir := filepath.Join(t.TempDir(), "log")

	log, closer, err := New(Options{Level: "info", Dir: dir, Console: true, NoColor: true, Stderr: &console})
	require.NoError(t, err)

	log.With("student", "Ann").Warn("no submission found", "login", "a1")
	log.Debug("hidden")
	require.NoError(t, closer.Close())

	assert.Contains(t, console.String(), "no submission found")
	assert.Contains(t, console.String(), "student=Ann")
	assert.NotContains(t, console.String(), "hidden")

	b, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	var rec map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(b), &rec))
	assert.Equal(t, "no submission found", rec["msg"])
	assert.Equal(t, "Ann", rec["student"])
	assert.Equal(t, "a1", rec["login"])
}

func TestNoSinksDiscards(t *testing.T) {
	log, closer, err := New(Options{})
	require.NoError(t, err)
	defer closer.Close()
	assert.False(t, log.Enabled(t.Context(), slog.LevelError))
}
