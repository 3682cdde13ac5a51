package xdg

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	t.Setenv("XDG_STATE_HOME", "")
	t.Setenv("HOME", "/home/ann")

	x := NewXDGDirs()
	assert.Equal(t, "/cfg/labgrader", x.AppConfigDir("labgrader"))
	assert.Equal(t, "/data/labgrader", x.AppDataDir("labgrader"))
	assert.Equal(t, filepath.Join(x.StateHome(), "labgrader"), x.AppStateDir("labgrader"))
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, NewXDGDirs().EnsureDir(dir))
	assert.DirExists(t, dir)
}
