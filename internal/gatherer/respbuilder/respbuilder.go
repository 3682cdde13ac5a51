package respbuilder

import (
	"sync"
	"time"

	"github.com/programme-lv/labgrader/api"
	"github.com/programme-lv/labgrader/internal/gatherer"
	"github.com/programme-lv/labgrader/internal/grading"
	"github.com/programme-lv/labgrader/internal/roster"
	"github.com/programme-lv/labgrader/internal/suite"
	"github.com/programme-lv/labgrader/internal/summary"
)

// Builder gathers grading events and builds a complete api.GradingReport.
type Builder struct {
	mu sync.Mutex

	runID      string
	assignment string
	suite      string

	started  time.Time
	finished *time.Time

	// students whose submission could not be run
	failures map[roster.Student]string

	students   []api.StudentReport
	collisions [][]api.Student
}

var _ grading.Gatherer = (*Builder)(nil)

func New() *Builder {
	return &Builder{failures: make(map[roster.Student]string)}
}

func (b *Builder) StartGrading(runID string, assignment string, kind suite.Kind, students int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.runID = runID
	b.assignment = assignment
	b.suite = kind.Name()
	b.started = time.Now()
}

func (b *Builder) SkipStudent(string, roster.Student) {}

func (b *Builder) StartStudent(string, roster.Student, string) {}

// FinishStudent is a no-op; results are taken from the outcome at the end.
func (b *Builder) FinishStudent(string, roster.Student, []suite.TestResult) {}

func (b *Builder) FailStudent(_ string, student roster.Student, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[student] = err.Error()
}

func (b *Builder) FinishGrading(_ string, outcome *grading.Outcome) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	b.finished = &now
	b.students = b.students[:0]
	for _, s := range outcome.Students() {
		results := outcome.Results[s]
		sum := summary.Summarize(results)
		report := api.StudentReport{
			Student:         gatherer.Student(s),
			Submitted:       outcome.Submitted(s),
			Collision:       outcome.Collisions.Involves(s),
			Passed:          sum.Passed,
			Total:           sum.Total,
			Infos:           sum.Infos,
			AdditionalInfos: sum.AdditionalInfos,
			Status:          sum.Status.String(),
			Results:         gatherer.Results(results),
		}
		if file, ok := outcome.Accepted[s]; ok {
			report.File = &file
		}
		if msg, ok := b.failures[s]; ok {
			report.ErrorMessage = &msg
		}
		b.students = append(b.students, report)
	}
	b.collisions = gatherer.Collisions(outcome.Collisions)
}

// Report returns the report built so far.
func (b *Builder) Report() api.GradingReport {
	b.mu.Lock()
	defer b.mu.Unlock()

	r := api.GradingReport{
		RunId:       b.runID,
		Assignment:  b.assignment,
		Suite:       b.suite,
		StartedTime: b.started.Format(time.RFC3339),
		Students:    b.students,
		Collisions:  b.collisions,
	}
	if b.finished != nil {
		f := b.finished.Format(time.RFC3339)
		r.FinishedTime = &f
	}
	return r
}
