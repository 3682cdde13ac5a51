package grading

import (
	"github.com/programme-lv/labgrader/internal/roster"
	"github.com/programme-lv/labgrader/internal/suite"
)

// Gatherer receives progress of a grading run as it happens. Student events
// arrive from several workers at once, so implementations must be safe for
// concurrent use. A gatherer must not block grading on its own failures.
type Gatherer interface {
	StartGrading(runID string, assignment string, kind suite.Kind, students int)

	SkipStudent(runID string, student roster.Student)
	StartStudent(runID string, student roster.Student, file string)
	FinishStudent(runID string, student roster.Student, results []suite.TestResult)
	FailStudent(runID string, student roster.Student, err error)

	FinishGrading(runID string, outcome *Outcome)
}

// Nop discards every event.
type Nop struct{}

func (Nop) StartGrading(string, string, suite.Kind, int) {}
func (Nop) SkipStudent(string, roster.Student) {}
func (Nop) StartStudent(string, roster.Student, string) {}
func (Nop) FinishStudent(string, roster.Student, []suite.TestResult) {}
func (Nop) FailStudent(string, roster.Student, error) {}
func (Nop) FinishGrading(string, *Outcome) {}

// Multi forwards every event to each of its gatherers in order.
type Multi []Gatherer

func (m Multi) StartGrading(runID string, assignment string, kind suite.Kind, students int) {
	for _, g := range m {
		g.StartGrading(runID, assignment, kind, students)
	}
}

func (m Multi) SkipStudent(runID string, student roster.Student) {
	for _, g := range m {
		g.SkipStudent(runID, student)
	}
}

func (m Multi) StartStudent(runID string, student roster.Student, file string) {
	for _, g := range m {
		g.StartStudent(runID, student, file)
	}
}

func (m Multi) FinishStudent(runID string, student roster.Student, results []suite.TestResult) {
	for _, g := range m {
		g.FinishStudent(runID, student, results)
	}
}

func (m Multi) FailStudent(runID string, student roster.Student, err error) {
	for _, g := range m {
		g.FailStudent(runID, student, err)
	}
}

func (m Multi) FinishGrading(runID string, outcome *Outcome) {
	for _, g := range m {
		g.FinishGrading(runID, outcome)
	}
}

var (
	_ Gatherer = Nop{}
	_ Gatherer = Multi(nil)
)
