package grading

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/google/uuid"
	"github.com/programme-lv/labgrader/api"
	"github.com/programme-lv/labgrader/internal/plagiarism"
	"github.com/programme-lv/labgrader/internal/roster"
	"github.com/programme-lv/labgrader/internal/suite"
	"golang.org/x/sync/errgroup"
)

// Roster provides the submitted files of every student for an assignment.
type Roster interface {
	StudentAssignments(assignment string) (map[roster.Student][]string, error)
}

type Grader struct {
	registry *suite.Registry
	workers  int
	gath     Gatherer
	log      *slog.Logger
}

type Option func(*Grader)

// WithWorkers bounds how many students are graded at the same time.
func WithWorkers(n int) Option {
	return func(g *Grader) {
		if n > 0 {
			g.workers = n
		}
	}
}

func WithGatherer(gath Gatherer) Option {
	return func(g *Grader) {
		if gath != nil {
			g.gath = gath
		}
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(g *Grader) {
		if log != nil {
			g.log = log
		}
	}
}

func New(registry *suite.Registry, opts ...Option) *Grader {
	g := &Grader{
		registry: registry,
		workers:  runtime.NumCPU(),
		gath:     Nop{},
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type graded struct {
	student roster.Student
	file    string
	results []suite.TestResult
}

// GradeAssignment grades every student of the class for the assignment and
// looks for identical submissions. It fails before any grading if no suite
// serves the assignment; failures of single submissions end up in that
// student's results instead.
func (g *Grader) GradeAssignment(ctx context.Context, class Roster, assignment string) (*Outcome, error) {
	kind, s, err := g.registry.ForAssignment(assignment)
	if err != nil {
		return nil, err
	}
	submissions, err := class.StudentAssignments(assignment)
	if err != nil {
		return nil, fmt.Errorf("failed to collect submissions: %w", err)
	}

	outcome := &Outcome{
		RunID:      uuid.NewString(),
		Assignment: assignment,
		Kind:       kind,
		Results:    make(map[roster.Student][]suite.TestResult, len(submissions)),
		Accepted:   make(map[roster.Student]string, len(submissions)),
	}
	log := g.log.With("run", outcome.RunID, "assignment", assignment, "suite", kind.Name())
	log.Info("grading started", "students", len(submissions), "workers", g.workers)
	g.gath.StartGrading(outcome.RunID, assignment, kind, len(submissions))

	detector := plagiarism.NewDetector(log)
	collected := make(chan graded)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for r := range collected {
			outcome.Results[r.student] = r.results
			if r.file != "" {
				outcome.Accepted[r.student] = r.file
			}
		}
	}()

	var eg errgroup.Group
	eg.SetLimit(g.workers)
	for student, files := range submissions {
		eg.Go(func() error {
			collected <- g.gradeStudent(ctx, log, s, detector, outcome.RunID, student, files)
			return nil
		})
	}
	_ = eg.Wait()
	close(collected)
	<-done

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	outcome.Collisions = detector.Collisions()
	log.Info("grading finished",
		"submitted", len(outcome.Accepted), "collisions", len(outcome.Collisions))
	g.gath.FinishGrading(outcome.RunID, outcome)
	return outcome, nil
}

func (g *Grader) gradeStudent(
	ctx context.Context,
	log *slog.Logger,
	s suite.Suite,
	detector *plagiarism.Detector,
	runID string,
	student roster.Student,
	files []string,
) graded {
	log = log.With("student", student.Name, "login", student.LoginID)

	file, ok := SelectFile(files)
	if !ok {
		log.Warn("no submission found")
		g.gath.SkipStudent(runID, student)
		return graded{student: student, results: []suite.TestResult{}}
	}
	if len(files) > 1 {
		log.Warn("expected exactly one submission file, grading the first", "files", files)
	}

	g.gath.StartStudent(runID, student, file)

	fingerprinted := make(chan struct{})
	go func() {
		defer close(fingerprinted)
		// failures are logged by the detector and only drop the student
		// from collision detection
		_ = detector.Add(student, file)
	}()

	results, err := GradeFile(ctx, s, file)
	<-fingerprinted

	if err != nil {
		log.Warn("submission could not be graded", "file", file, "err", err)
		g.gath.FailStudent(runID, student, err)
	} else {
		log.Debug("submission graded", "file", file, "tests", len(results))
		g.gath.FinishStudent(runID, student, results)
	}
	return graded{student: student, file: file, results: results}
}

// GradeFile runs the suite's run, answer and judge steps on one file. When
// the submission cannot be run, the returned results hold a single failing
// entry describing why, and err is that failure.
func GradeFile(ctx context.Context, s suite.Suite, file string) (results []suite.TestResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &suite.ExecutionError{Stage: "judge", Err: fmt.Errorf("test suite panicked: %v", r)}
			results = Failure(err)
		}
	}()

	out, err := s.Run(ctx, file)
	if err != nil {
		return Failure(err), err
	}
	ans := s.Answer()
	return s.Judge(out, ans), nil
}

// Failure is the result list recorded for a submission that could not run.
func Failure(err error) []suite.TestResult {
	infos := map[string]string{"error": err.Error()}
	var execErr *suite.ExecutionError
	if errors.As(err, &execErr) && execErr.Output != "" {
		infos["output"] = api.TrimStr(execErr.Output)
	}
	return []suite.TestResult{{Passed: false, Infos: infos}}
}
