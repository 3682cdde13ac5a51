package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/programme-lv/labgrader/internal/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func testDirs(t *testing.T) *xdg.XDGDirs {
	t.Helper()
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(home, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(home, "state"))
	return xdg.NewXDGDirs()
}

func TestLoadCreatesDefault(t *testing.T) {
	dirs := testDirs(t)
	path := DefaultPath(dirs)

	cfg, err := Load(path, dirs, quiet)
	require.NoError(t, err)
	assert.Equal(t, Default(dirs), cfg)
	assert.FileExists(t, path)

	again, err := Load(path, dirs, quiet)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
	require.NoError(t, again.Validate())
}

func TestLoadReadsFile(t *testing.T) {
	dirs := testDirs(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
workers = 8
storage_dir = "/srv/classes"

[runner]
timeout_ms = 500

[[runner.toolchains]]
ext = ".sh"
exec = "sh {src}"

[suites]
seed = 7
`), 0644))

	cfg, err := Load(path, dirs, quiet)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, "/srv/classes", cfg.StorageDir)
	assert.Equal(t, "info", cfg.LogLevel)
	require.Len(t, cfg.Runner.Toolchains, 1)
	assert.Equal(t, ".sh", cfg.Runner.Toolchains[0].Ext)

	opts := cfg.RunnerOptions(quiet)
	assert.Equal(t, 500*time.Millisecond, opts.Timeout)
	assert.Equal(t, uint64(7), cfg.LabConfig().Seed)
}

func TestLoadReplacesInvalidFile(t *testing.T) {
	dirs := testDirs(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("workers = [oops"), 0644))

	cfg, err := Load(path, dirs, quiet)
	require.NoError(t, err)
	assert.Equal(t, Default(dirs), cfg)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "log_level")
}

func TestApplyEnv(t *testing.T) {
	dirs := testDirs(t)
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("GRADER_WORKERS=3\nGRADER_NATS_URL=nats://localhost:4222\n"), 0644))
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvWorkers, "")
	os.Unsetenv(EnvWorkers)
	t.Setenv(EnvNatsURL, "")
	os.Unsetenv(EnvNatsURL)

	cfg := Default(dirs)
	require.NoError(t, cfg.ApplyEnv(envFile))
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, "nats://localhost:4222", cfg.Publish.NatsURL)

	require.NoError(t, Default(dirs).ApplyEnv(filepath.Join(t.TempDir(), "missing.env")))
}

func TestApplyEnvBadWorkers(t *testing.T) {
	t.Setenv(EnvWorkers, "many")
	err := Default(testDirs(t)).ApplyEnv(filepath.Join(t.TempDir(), "none"))
	assert.ErrorContains(t, err, EnvWorkers)
}

func TestValidate(t *testing.T) {
	cfg := Default(testDirs(t))
	cfg.Workers = 0
	cfg.Runner.TimeoutMs = 0
	cfg.Runner.Toolchains = append(cfg.Runner.Toolchains, cfg.Runner.Toolchains[0])
	cfg.Runner.Toolchains[len(cfg.Runner.Toolchains)-1].Exec = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "workers")
	assert.ErrorContains(t, err, "timeout_ms")
	assert.ErrorContains(t, err, "toolchains[4]")
}
