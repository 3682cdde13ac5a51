package respbuilder

import (
	"errors"
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/programme-lv/labgrader/internal/grading"
	"github.com/programme-lv/labgrader/internal/plagiarism"
	"github.com/programme-lv/labgrader/internal/roster"
	"github.com/programme-lv/labgrader/internal/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildsReport(t *testing.T) {
	ann := roster.Student{Name: "Ann", LoginID: "a1"}
	ben := roster.Student{Name: "Ben", LoginID: "b2"}
	cleo := roster.Student{Name: "Cleo", LoginID: "c3"}
	failure := grading.Failure(&suite.ExecutionError{Stage: "run", Err: errors.New("signal: killed")})

	b := New()
	b.StartGrading("run-1", "lab_sequence", suite.Sequence, 3)
	assert.Nil(t, b.Report().FinishedTime)

	b.FailStudent("run-1", ben, errors.New("run failed: signal: killed"))
	b.FinishGrading("run-1", &grading.Outcome{
		Results: map[roster.Student][]suite.TestResult{
			cleo: {},
			ann:  {{Passed: true, AdditionalStatus: suite.StatusFull}},
			ben:  failure,
		},
		Accepted:   map[roster.Student]string{ann: "a.py", ben: "b.py"},
		Collisions: plagiarism.Collisions{{}: mapset.NewSet(ann, ben)},
	})

	r := b.Report()
	assert.Equal(t, "run-1", r.RunId)
	assert.Equal(t, "sequence", r.Suite)
	require.NotNil(t, r.FinishedTime)
	require.Len(t, r.Students, 3)

	a := r.Students[0]
	assert.Equal(t, "a1", a.Student.LoginId)
	assert.True(t, a.Submitted)
	assert.True(t, a.Collision)
	assert.Equal(t, "full", a.Status)
	require.NotNil(t, a.File)
	assert.Equal(t, "a.py", *a.File)
	assert.Nil(t, a.ErrorMessage)

	bb := r.Students[1]
	require.NotNil(t, bb.ErrorMessage)
	assert.Equal(t, "run failed: signal: killed", *bb.ErrorMessage)
	assert.Equal(t, 0, bb.Passed)
	assert.Equal(t, 1, bb.Infos)
	assert.Equal(t, "run failed: signal: killed", bb.Results[0].Infos["error"])

	c := r.Students[2]
	assert.False(t, c.Submitted)
	assert.Nil(t, c.File)
	assert.Equal(t, "none", c.Status)
	assert.Empty(t, c.Results)

	require.Len(t, r.Collisions, 1)
	assert.Equal(t, "a1", r.Collisions[0][0].LoginId)
	assert.Equal(t, "b2", r.Collisions[0][1].LoginId)
}
