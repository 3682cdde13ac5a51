package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	pretty_table "github.com/jedib0t/go-pretty/v6/table"
	"github.com/programme-lv/labgrader/internal/behave"
	"github.com/programme-lv/labgrader/internal/gatherer/natsgath"
	"github.com/programme-lv/labgrader/internal/gatherer/respbuilder"
	"github.com/programme-lv/labgrader/internal/gatherer/sqsgath"
	"github.com/programme-lv/labgrader/internal/gatherer/termgath"
	"github.com/programme-lv/labgrader/internal/grading"
	"github.com/programme-lv/labgrader/internal/report"
	"github.com/programme-lv/labgrader/internal/roster"
	"github.com/programme-lv/labgrader/internal/suite"
	"github.com/urfave/cli/v3"
)

func classFlag() cli.Flag {
	return &cli.StringFlag{Name: "class", Aliases: []string{"c"}, Usage: "class name", Required: true}
}

func assignFlag() cli.Flag {
	return &cli.StringFlag{Name: "assignment", Aliases: []string{"a"}, Usage: "assignment name", Required: true}
}

func classesCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:  "classes",
		Usage: "list classes in the storage directory",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			classes, err := e.classes()
			if err != nil {
				return err
			}
			t := pretty_table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.SetStyle(pretty_table.StyleLight)
			t.AppendHeader(pretty_table.Row{"Class", "Students", "Assignments"})
			for _, c := range classes {
				t.AppendRow(pretty_table.Row{c.Name, len(c.Students), strings.Join(c.Assignments, ", ")})
			}
			t.Render()
			return nil
		},
	}
}

func assignmentsCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:  "assignments",
		Usage: "list assignments of a class with the suite grading each",
		Flags: []cli.Flag{classFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			c, err := e.class(cmd.String("class"))
			if err != nil {
				return err
			}
			for _, a := range c.Assignments {
				name := "-"
				if kind, err := suite.Resolve(a); err == nil {
					name = kind.Name()
				}
				fmt.Printf("%s\t%s\n", a, name)
			}
			return nil
		},
	}
}

func suitesCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:  "suites",
		Usage: "list test suites and the assignment suffix each one serves",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			reg := e.registry()
			for _, k := range suite.Kinds() {
				status := "registered"
				if _, err := reg.Lookup(k); err != nil {
					status = "missing"
				}
				fmt.Printf("*%s\t%s\n", k.Name(), status)
			}
			return nil
		},
	}
}

func gradeCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:  "grade",
		Usage: "grade every student of a class for one assignment",
		Flags: []cli.Flag{
			classFlag(),
			assignFlag(),
			&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Usage: "students graded at once (default from config)"},
			&cli.BoolFlag{Name: "publish", Usage: "send grading events to the configured NATS subject and SQS queue"},
			&cli.BoolFlag{Name: "json", Usage: "print the full report as JSON instead of tables"},
			&cli.BoolFlag{Name: "no-color", Usage: "disable colored output"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			c, err := e.class(cmd.String("class"))
			if err != nil {
				return err
			}

			workers := e.cfg.Workers
			if w := cmd.Int("workers"); w > 0 {
				workers = w
			}
			noColor := cmd.Bool("no-color")

			builder := respbuilder.New()
			gatherers := grading.Multi{builder}
			if !cmd.Bool("json") {
				gatherers = append(gatherers, termgath.New(os.Stderr, noColor))
			}
			if cmd.Bool("publish") {
				sinks, closeSinks, err := e.publishers(ctx)
				if err != nil {
					return err
				}
				defer closeSinks()
				gatherers = append(gatherers, sinks...)
			}

			g := grading.New(e.registry(),
				grading.WithWorkers(workers),
				grading.WithGatherer(gatherers),
				grading.WithLogger(e.log),
			)
			outcome, err := g.GradeAssignment(ctx, c, cmd.String("assignment"))
			if err != nil {
				return err
			}

			if cmd.Bool("json") {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(builder.Report())
			}
			report.Render(os.Stdout, report.Rows(outcome), report.Options{Color: !noColor})
			report.RenderCollisions(os.Stdout, report.Collisions(outcome))
			return nil
		},
	}
}

// publishers connects the event sinks named in the config.
func (e *env) publishers(ctx context.Context) ([]grading.Gatherer, func(), error) {
	p := e.cfg.Publish
	if p.NatsURL == "" && p.SqsQueueURL == "" {
		return nil, nil, errors.New("no publish target configured; set publish.nats_url or publish.sqs_queue_url")
	}

	var sinks []grading.Gatherer
	closeAll := func() {}
	if p.NatsURL != "" {
		nc, err := natsgath.Connect(p.NatsURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		closeAll = func() {
			if err := nc.Drain(); err != nil {
				e.log.Warn("failed to drain NATS connection", "err", err)
			}
		}
		sinks = append(sinks, natsgath.New(nc, p.NatsSubject, p.Compress, e.log))
	}
	if p.SqsQueueURL != "" {
		client, err := sqsgath.NewClient(ctx, p.SqsRegion)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		sinks = append(sinks, sqsgath.New(client, p.SqsQueueURL, p.Compress, e.log))
	}
	return sinks, closeAll, nil
}

// oneStudent narrows a class to a single student's submissions.
type oneStudent struct {
	class   *roster.Class
	student roster.Student
}

func (o oneStudent) StudentAssignments(assignment string) (map[roster.Student][]string, error) {
	all, err := o.class.StudentAssignments(assignment)
	if err != nil {
		return nil, err
	}
	return map[roster.Student][]string{o.student: all[o.student]}, nil
}

func detailCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:  "detail",
		Usage: "grade one student and show the infos of every test",
		Flags: []cli.Flag{
			classFlag(),
			assignFlag(),
			&cli.StringFlag{Name: "student", Aliases: []string{"s"}, Usage: "student login id", Required: true},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			c, err := e.class(cmd.String("class"))
			if err != nil {
				return err
			}
			student, ok := c.Student(cmd.String("student"))
			if !ok {
				return fmt.Errorf("student %q is not in class %s", cmd.String("student"), c.Name)
			}

			g := grading.New(e.registry(), grading.WithWorkers(1), grading.WithLogger(e.log))
			outcome, err := g.GradeAssignment(ctx, oneStudent{class: c, student: student}, cmd.String("assignment"))
			if err != nil {
				return err
			}

			fmt.Printf("%s, %s\n", student, cmd.String("assignment"))
			if file, ok := outcome.Accepted[student]; ok {
				fmt.Printf("file: %s\n", file)
			} else {
				fmt.Println("no submission")
			}
			report.RenderDetails(os.Stdout, outcome.Results[student])
			return nil
		},
	}
}

func selfcheckCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:      "selfcheck",
		Usage:     "grade reference submissions and compare with expected summaries",
		ArgsUsage: "<scenarios.toml>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := cmd.Args().First()
			if path == "" {
				return errors.New("missing scenarios file")
			}
			cases, err := behave.Parse(path)
			if err != nil {
				return err
			}
			results, err := behave.Check(ctx, e.registry(), cases)
			if err != nil {
				return err
			}

			failed := 0
			for _, r := range results {
				if r.OK() {
					fmt.Printf("ok   %s (%d/%d, %s)\n", r.Case.Name, r.Summary.Passed, r.Summary.Total, r.Summary.Status)
					continue
				}
				failed++
				fmt.Printf("FAIL %s\n", r.Case.Name)
				for _, p := range r.Problems {
					fmt.Printf("     %s\n", p)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d scenarios failed", failed, len(results))
			}
			return nil
		},
	}
}
