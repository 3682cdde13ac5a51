package suite_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/programme-lv/labgrader/internal/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		assignment string
		want       suite.Kind
	}{
		{"hw1_circle_area", suite.CircleArea},
		{"circle_area", suite.CircleArea},
		{"lab2-population", suite.Population},
		{"week3_sequence", suite.Sequence},
		{"hw4_three_number", suite.ThreeNumber},
	}
	for _, tt := range tests {
		t.Run(tt.assignment, func(t *testing.T) {
			got, err := suite.Resolve(tt.assignment)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveNoMatch(t *testing.T) {
	for _, name := range []string{"", "hw1", "circle_area_v2", "hw1_CIRCLE_AREA"} {
		_, err := suite.Resolve(name)
		require.Error(t, err, name)
		assert.True(t, errors.Is(err, suite.ErrNoMatchingSuiteKind))
	}
}

func TestKindNamesAreSuffixDisjoint(t *testing.T) {
	ks := suite.Kinds()
	for _, a := range ks {
		for _, b := range ks {
			if a == b {
				continue
			}
			assert.False(t, strings.HasSuffix(a.Name(), b.Name()),
				"%q ends with %q", a.Name(), b.Name())
		}
	}
}

type nopSuite struct{}

func (nopSuite) Run(context.Context, string) (suite.RunOutput, error) { return nil, nil }
func (nopSuite) Answer() suite.Answer                                 { return nil }
func (nopSuite) Judge(suite.RunOutput, suite.Answer) []suite.TestResult {
	return nil
}

func TestRegistryLookup(t *testing.T) {
	reg := suite.NewRegistry(map[suite.Kind]suite.Suite{
		suite.CircleArea: nopSuite{},
	})

	s, err := reg.Lookup(suite.CircleArea)
	require.NoError(t, err)
	assert.NotNil(t, s)

	_, err = reg.Lookup(suite.Sequence)
	assert.True(t, errors.Is(err, suite.ErrUnregisteredSuite))

	kind, s, err := reg.ForAssignment("hw1_circle_area")
	require.NoError(t, err)
	assert.Equal(t, suite.CircleArea, kind)
	assert.NotNil(t, s)

	_, _, err = reg.ForAssignment("hw9_sequence")
	assert.True(t, errors.Is(err, suite.ErrUnregisteredSuite))

	_, _, err = reg.ForAssignment("hw9_unknown")
	assert.True(t, errors.Is(err, suite.ErrNoMatchingSuiteKind))
}

func TestExecutionErrorUnwrap(t *testing.T) {
	cause := errors.New("exit status 1")
	err := error(&suite.ExecutionError{Stage: "compile", Output: "main.c:1: error", Err: cause})

	assert.True(t, errors.Is(err, suite.ErrExecution))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "compile failed: exit status 1", err.Error())

	var execErr *suite.ExecutionError
	require.True(t, errors.As(err, &execErr))
	assert.Equal(t, "main.c:1: error", execErr.Output)
}

func TestAdditionalStatusResolved(t *testing.T) {
	assert.Equal(t, suite.StatusNone, suite.StatusUnset.Resolved())
	assert.Equal(t, suite.StatusPartial, suite.StatusPartial.Resolved())
	assert.Equal(t, suite.StatusFull, suite.StatusFull.Resolved())

	st, ok := suite.ParseAdditionalStatus("partial")
	require.True(t, ok)
	assert.Equal(t, suite.StatusPartial, st)
	_, ok = suite.ParseAdditionalStatus("bogus")
	assert.False(t, ok)
}
