package grading

import (
	"maps"
	"slices"

	"github.com/programme-lv/labgrader/internal/plagiarism"
	"github.com/programme-lv/labgrader/internal/roster"
	"github.com/programme-lv/labgrader/internal/suite"
)

// Outcome is everything one grading run produced. It lives only as long as
// the caller keeps it.
type Outcome struct {
	RunID      string
	Assignment string
	Kind       suite.Kind

	// Results has a key for every student of the class; students without a
	// submission map to an empty list.
	Results map[roster.Student][]suite.TestResult
	// Accepted is the file graded for each student who submitted one.
	Accepted   map[roster.Student]string
	Collisions plagiarism.Collisions
}

// Students lists the graded students ordered by login id.
func (o *Outcome) Students() []roster.Student {
	return slices.SortedFunc(maps.Keys(o.Results), roster.Student.Compare)
}

func (o *Outcome) Submitted(s roster.Student) bool {
	_, ok := o.Accepted[s]
	return ok
}
