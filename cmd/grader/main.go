package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/programme-lv/labgrader/internal/config"
	"github.com/programme-lv/labgrader/internal/lab"
	"github.com/programme-lv/labgrader/internal/logger"
	"github.com/programme-lv/labgrader/internal/roster"
	"github.com/programme-lv/labgrader/internal/runner"
	"github.com/programme-lv/labgrader/internal/suite"
	"github.com/programme-lv/labgrader/internal/xdg"
	"github.com/urfave/cli/v3"
)

// env is shared by every command once the Before hook has run.
type env struct {
	cfg      *config.Config
	log      *slog.Logger
	logClose io.Closer
}

func main() {
	e := &env{}
	cmd := &cli.Command{
		Name:  "grader",
		Usage: "grade lab assignments of a class and flag identical submissions",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to config.toml",
				Value: config.DefaultPath(xdg.NewXDGDirs()),
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error",
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "dotenv file with GRADER_* overrides",
				Value: ".env",
			},
		},
		Before: e.setup,
		After: func(ctx context.Context, cmd *cli.Command) error {
			if e.logClose != nil {
				return e.logClose.Close()
			}
			return nil
		},
		Commands: []*cli.Command{
			classesCmd(e),
			assignmentsCmd(e),
			suitesCmd(e),
			gradeCmd(e),
			detailCmd(e),
			selfcheckCmd(e),
			healthCmd(e),
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := cmd.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func (e *env) setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	bootLog := slog.Default()
	dirs := xdg.NewXDGDirs()

	cfg, err := config.Load(cmd.String("config"), dirs, bootLog)
	if err != nil {
		return ctx, err
	}
	if err := cfg.ApplyEnv(cmd.String("env-file")); err != nil {
		return ctx, err
	}
	if lvl := cmd.String("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	if err := cfg.Validate(); err != nil {
		return ctx, fmt.Errorf("invalid config: %w", err)
	}

	log, closer, err := logger.New(logger.Options{
		Level:   cfg.LogLevel,
		Dir:     cfg.LogDir,
		Console: cfg.LogToConsole,
	})
	if err != nil {
		return ctx, err
	}
	slog.SetDefault(log)

	e.cfg = cfg
	e.log = log
	e.logClose = closer
	return ctx, nil
}

func (e *env) classes() ([]*roster.Class, error) {
	return roster.LoadAll(e.cfg.StorageDir)
}

func (e *env) class(name string) (*roster.Class, error) {
	classes, err := e.classes()
	if err != nil {
		return nil, err
	}
	c, ok := roster.Find(classes, name)
	if !ok {
		return nil, fmt.Errorf("class %q not found in %s", name, e.cfg.StorageDir)
	}
	return c, nil
}

func (e *env) registry() *suite.Registry {
	r := runner.New(e.cfg.RunnerOptions(e.log))
	return lab.NewRegistry(r, e.cfg.LabConfig())
}
