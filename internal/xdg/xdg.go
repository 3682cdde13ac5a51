package xdg

import (
	"os"
	"path/filepath"
)

// XDGDirs resolves the base directories of the XDG Base Directory layout.
type XDGDirs struct {
	dataHome   string
	configHome string
	stateHome  string
}

// NewXDGDirs reads the XDG_* variables, falling back to the defaults under
// the home directory.
func NewXDGDirs() *XDGDirs {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv("HOME")
		if homeDir == "" {
			homeDir = "/tmp" // last resort
		}
	}

	return &XDGDirs{
		dataHome:   envOr("XDG_DATA_HOME", filepath.Join(homeDir, ".local", "share")),
		configHome: envOr("XDG_CONFIG_HOME", filepath.Join(homeDir, ".config")),
		stateHome:  envOr("XDG_STATE_HOME", filepath.Join(homeDir, ".local", "state")),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (x *XDGDirs) DataHome() string   { return x.dataHome }
func (x *XDGDirs) ConfigHome() string { return x.configHome }
func (x *XDGDirs) StateHome() string  { return x.stateHome }

// AppDataDir returns the application-specific data directory
func (x *XDGDirs) AppDataDir(appName string) string {
	return filepath.Join(x.dataHome, appName)
}

// AppConfigDir returns the application-specific config directory
func (x *XDGDirs) AppConfigDir(appName string) string {
	return filepath.Join(x.configHome, appName)
}

// AppStateDir returns the application-specific state directory
func (x *XDGDirs) AppStateDir(appName string) string {
	return filepath.Join(x.stateHome, appName)
}

// EnsureDir creates the directory if it doesn't exist
func (x *XDGDirs) EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
