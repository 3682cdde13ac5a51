package termgath

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/programme-lv/labgrader/internal/grading"
	"github.com/programme-lv/labgrader/internal/plagiarism"
	"github.com/programme-lv/labgrader/internal/roster"
	"github.com/programme-lv/labgrader/internal/suite"
	"github.com/stretchr/testify/assert"
)

func TestPrintsProgress(t *testing.T) {
	var buf bytes.Buffer
	g := New(&buf, true)
	ann := roster.Student{Name: "Ann", LoginID: "a1"}
	ben := roster.Student{Name: "Ben", LoginID: "b2"}

	g.StartGrading("run-1", "hw1_circle_area", suite.CircleArea, 3)
	g.SkipStudent("run-1", roster.Student{Name: "Cleo", LoginID: "c3"})
	g.StartStudent("run-1", ann, "a.c")
	g.FinishStudent("run-1", ann, []suite.TestResult{
		{Passed: true, AdditionalStatus: suite.StatusFull},
		{Passed: false, AdditionalStatus: suite.StatusNone},
	})
	g.FailStudent("run-1", ben, &suite.ExecutionError{Stage: "compile", Output: "b.c:1: error", Err: errors.New("exit status 1")})
	g.FinishGrading("run-1", &grading.Outcome{
		Accepted:   map[roster.Student]string{ann: "a.c", ben: "b.c"},
		Collisions: plagiarism.Collisions{{}: mapset.NewSet(ann, ben)},
	})

	out := buf.String()
	assert.Contains(t, out, "== Grading hw1_circle_area (circle_area suite, 3 students) ==")
	assert.Contains(t, out, "[1/3] Cleo - c3: no submission")
	assert.Contains(t, out, "-> Ann - a1: a.c")
	assert.Contains(t, out, "[2/3] Ann - a1: 1/2 passed, extra none")
	assert.Contains(t, out, "[3/3] Ben - b2: compile failed: exit status 1")
	assert.Contains(t, out, "b.c:1: error")
	assert.Contains(t, out, "== Graded 2 submissions in")
	assert.Contains(t, out, "1 groups of identical submissions")
}

func TestFailOutputIsTrimmed(t *testing.T) {
	var buf bytes.Buffer
	g := New(&buf, true)
	g.StartGrading("run-1", "lab_sequence", suite.Sequence, 1)

	output := strings.Repeat("error: too long\n", 100)
	g.FailStudent("run-1", roster.Student{Name: "Ann", LoginID: "a1"},
		&suite.ExecutionError{Stage: "compile", Output: output, Err: errors.New("exit status 1")})

	assert.Contains(t, buf.String(), "[...]")
	assert.Less(t, strings.Count(buf.String(), "error: too long"), 100)
}
