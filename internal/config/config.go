package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/programme-lv/labgrader/internal/lab"
	"github.com/programme-lv/labgrader/internal/runner"
	"github.com/programme-lv/labgrader/internal/xdg"
)

const AppName = "labgrader"

type Config struct {
	LogLevel     string `toml:"log_level"`
	LogDir       string `toml:"log_dir"`
	LogToConsole bool   `toml:"log_to_console"`

	DataDir    string `toml:"data_dir"`
	StorageDir string `toml:"storage_dir"`
	Workers    int    `toml:"workers"`

	Runner  RunnerConfig  `toml:"runner"`
	Suites  SuitesConfig  `toml:"suites"`
	Publish PublishConfig `toml:"publish"`
}

type RunnerConfig struct {
	TimeoutMs        int64              `toml:"timeout_ms"`
	CompileTimeoutMs int64              `toml:"compile_timeout_ms"`
	WorkDir          string             `toml:"work_dir,omitempty"`
	Toolchains       []runner.Toolchain `toml:"toolchains"`
}

type SuitesConfig struct {
	Seed  uint64 `toml:"seed"`
	Cases int    `toml:"cases"`
}

// PublishConfig names the optional event sinks; empty values disable them.
type PublishConfig struct {
	NatsURL     string `toml:"nats_url"`
	NatsSubject string `toml:"nats_subject"`
	SqsQueueURL string `toml:"sqs_queue_url"`
	SqsRegion   string `toml:"sqs_region"`
	Compress    bool   `toml:"compress"`
}

func Default(dirs *xdg.XDGDirs) *Config {
	dataDir := dirs.AppDataDir(AppName)
	return &Config{
		LogLevel:     "info",
		LogDir:       filepath.Join(dirs.AppStateDir(AppName), "log"),
		LogToConsole: true,
		DataDir:      dataDir,
		StorageDir:   filepath.Join(dataDir, "classes"),
		Workers:      4,
		Runner: RunnerConfig{
			TimeoutMs:        2000,
			CompileTimeoutMs: 30000,
			Toolchains:       runner.DefaultToolchains(),
		},
		Suites: SuitesConfig{
			Seed:  20240901,
			Cases: lab.DefaultCases,
		},
		Publish: PublishConfig{
			NatsSubject: "labgrader.events",
			SqsRegion:   "eu-central-1",
		},
	}
}

func DefaultPath(dirs *xdg.XDGDirs) string {
	return filepath.Join(dirs.AppConfigDir(AppName), "config.toml")
}

// Load reads the config file at path. A missing or unparsable file is
// replaced by the default config, which is then saved to path.
func Load(path string, dirs *xdg.XDGDirs, log *slog.Logger) (*Config, error) {
	b, err := os.ReadFile(path)
	if err == nil {
		cfg := Default(dirs)
		cfg.Runner.Toolchains = nil
		if err = toml.Unmarshal(b, cfg); err == nil {
			if len(cfg.Runner.Toolchains) == 0 {
				cfg.Runner.Toolchains = runner.DefaultToolchains()
			}
			return cfg, nil
		}
		log.Warn("config file is invalid, replacing it with defaults", "path", path, "err", err)
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default(dirs)
	if err := cfg.Save(path); err != nil {
		return nil, err
	}
	log.Info("created default config", "path", path)
	return cfg, nil
}

func (c *Config) Save(path string) error {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Environment variables that override file values.
const (
	EnvLogLevel    = "GRADER_LOG_LEVEL"
	EnvStorageDir  = "GRADER_STORAGE_DIR"
	EnvWorkers     = "GRADER_WORKERS"
	EnvNatsURL     = "GRADER_NATS_URL"
	EnvSqsQueueURL = "GRADER_SQS_QUEUE_URL"
)

// ApplyEnv loads envFile into the environment, if it exists, and applies the
// GRADER_* overrides.
func (c *Config) ApplyEnv(envFile string) error {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvStorageDir); v != "" {
		c.StorageDir = v
	}
	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvWorkers, err)
		}
		c.Workers = n
	}
	if v := os.Getenv(EnvNatsURL); v != "" {
		c.Publish.NatsURL = v
	}
	if v := os.Getenv(EnvSqsQueueURL); v != "" {
		c.Publish.SqsQueueURL = v
	}
	return nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be at least 1, got %d", c.Workers))
	}
	if c.Runner.TimeoutMs <= 0 {
		errs = append(errs, fmt.Errorf("runner.timeout_ms must be positive, got %d", c.Runner.TimeoutMs))
	}
	if c.StorageDir == "" {
		errs = append(errs, errors.New("storage_dir is empty"))
	}
	for i, tc := range c.Runner.Toolchains {
		if tc.Ext == "" || tc.Exec == "" {
			errs = append(errs, fmt.Errorf("runner.toolchains[%d] needs both ext and exec", i))
		}
	}
	if c.Suites.Cases < 0 {
		errs = append(errs, fmt.Errorf("suites.cases must not be negative, got %d", c.Suites.Cases))
	}
	return errors.Join(errs...)
}

func (c *Config) RunnerOptions(log *slog.Logger) runner.Options {
	return runner.Options{
		Toolchains:     c.Runner.Toolchains,
		Timeout:        time.Duration(c.Runner.TimeoutMs) * time.Millisecond,
		CompileTimeout: time.Duration(c.Runner.CompileTimeoutMs) * time.Millisecond,
		WorkDir:        c.Runner.WorkDir,
		Logger:         log,
	}
}

func (c *Config) LabConfig() lab.Config {
	return lab.Config{Seed: c.Suites.Seed, Cases: c.Suites.Cases}
}
