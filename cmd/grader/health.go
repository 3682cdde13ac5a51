package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/programme-lv/labgrader/internal/gatherer/natsgath"
	"github.com/programme-lv/labgrader/internal/report"
	"github.com/urfave/cli/v3"
)

func healthCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:  "health",
		Usage: "check toolchains, storage and publish targets",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "no-color", Usage: "disable colored output"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			checks := []report.Check{e.storageHealth()}
			checks = append(checks, e.toolchainHealth()...)
			if e.cfg.Publish.NatsURL != "" {
				checks = append(checks, e.natsHealth())
			}
			report.RenderChecks(os.Stdout, checks, report.Options{Color: !cmd.Bool("no-color")})
			for _, c := range checks {
				if c.Health == report.Failing {
					return fmt.Errorf("%s is not usable", c.Unit)
				}
			}
			return nil
		},
	}
}

func (e *env) storageHealth() report.Check {
	classes, err := e.classes()
	if err != nil {
		return report.Check{Unit: "Storage", Health: report.Failing, Message: err.Error()}
	}
	if len(classes) == 0 {
		return report.Check{Unit: "Storage", Health: report.Warn, Message: "no classes in " + e.cfg.StorageDir}
	}
	return report.Check{Unit: "Storage", Message: fmt.Sprintf("%d classes in %s", len(classes), e.cfg.StorageDir)}
}

func (e *env) toolchainHealth() []report.Check {
	res := make([]report.Check, 0, len(e.cfg.Runner.Toolchains))
	for _, tc := range e.cfg.Runner.Toolchains {
		c := report.Check{Unit: "Toolchain " + tc.Ext, Message: strings.Join(tc.Tools(), ", ")}
		if missing := tc.Missing(); len(missing) > 0 {
			// only submissions with this extension are affected
			c.Health = report.Warn
			c.Message = "missing " + strings.Join(missing, ", ")
		}
		res = append(res, c)
	}
	return res
}

func (e *env) natsHealth() report.Check {
	nc, err := natsgath.Connect(e.cfg.Publish.NatsURL)
	if err != nil {
		return report.Check{Unit: "NATS", Health: report.Failing, Message: err.Error()}
	}
	defer nc.Close()
	return report.Check{Unit: "NATS", Message: "connected to " + nc.ConnectedUrlRedacted()}
}
