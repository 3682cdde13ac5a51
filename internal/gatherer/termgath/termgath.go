package termgath

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/programme-lv/labgrader/api"
	"github.com/programme-lv/labgrader/internal/grading"
	"github.com/programme-lv/labgrader/internal/roster"
	"github.com/programme-lv/labgrader/internal/suite"
	"github.com/programme-lv/labgrader/internal/summary"
)

// TerminalGatherer prints a line per grading event.
type TerminalGatherer struct {
	mu sync.Mutex
	w  io.Writer

	startedAt time.Time
	students  int
	finished  int

	title, ok, warn, bad *color.Color
}

var _ grading.Gatherer = (*TerminalGatherer)(nil)

func New(w io.Writer, noColor bool) *TerminalGatherer {
	t := &TerminalGatherer{
		w:     w,
		title: color.New(color.Bold),
		ok:    color.New(color.FgGreen),
		warn:  color.New(color.FgYellow),
		bad:   color.New(color.FgRed),
	}
	if noColor {
		for _, c := range []*color.Color{t.title, t.ok, t.warn, t.bad} {
			c.DisableColor()
		}
	}
	return t
}

func (t *TerminalGatherer) StartGrading(runID string, assignment string, kind suite.Kind, students int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.startedAt = time.Now()
	t.students = students
	t.finished = 0
	t.title.Fprintf(t.w, "== Grading %s (%s suite, %d students) ==\n", assignment, kind.Name(), students)
	fmt.Fprintf(t.w, "run %s\n", runID)
}

func (t *TerminalGatherer) SkipStudent(_ string, student roster.Student) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.finished++
	t.warn.Fprintf(t.w, "%s %s: no submission\n", t.progress(), student)
}

func (t *TerminalGatherer) StartStudent(_ string, student roster.Student, file string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.w, "-> %s: %s\n", student, file)
}

func (t *TerminalGatherer) FinishStudent(_ string, student roster.Student, results []suite.TestResult) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.finished++
	sum := summary.Summarize(results)
	c := t.ok
	if sum.Passed < sum.Total {
		c = t.warn
	}
	c.Fprintf(t.w, "%s %s: %d/%d passed, extra %s\n", t.progress(), student, sum.Passed, sum.Total, sum.Status)
}

func (t *TerminalGatherer) FailStudent(_ string, student roster.Student, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.finished++
	t.bad.Fprintf(t.w, "%s %s: %v\n", t.progress(), student, err)
	var execErr *suite.ExecutionError
	if errors.As(err, &execErr) && execErr.Output != "" {
		fmt.Fprintln(t.w, api.TrimStr(execErr.Output))
	}
}

func (t *TerminalGatherer) FinishGrading(_ string, outcome *grading.Outcome) {
	t.mu.Lock()
	defer t.mu.Unlock()
	dur := time.Since(t.startedAt).Round(time.Millisecond)
	t.title.Fprintf(t.w, "== Graded %d submissions in %s ==\n", len(outcome.Accepted), dur)
	if n := len(outcome.Collisions); n > 0 {
		t.bad.Fprintf(t.w, "%d groups of identical submissions\n", n)
	}
}

func (t *TerminalGatherer) progress() string {
	return fmt.Sprintf("[%d/%d]", t.finished, t.students)
}
