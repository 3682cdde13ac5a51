package natsgath

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/programme-lv/labgrader/api"
	"github.com/programme-lv/labgrader/internal/grading"
	"github.com/programme-lv/labgrader/internal/roster"
	"github.com/programme-lv/labgrader/internal/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	msgs []*nats.Msg
	err  error
}

func (f *fakeConn) PublishMsg(m *nats.Msg) error {
	f.msgs = append(f.msgs, m)
	return f.err
}

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestPublishesEvents(t *testing.T) {
	conn := &fakeConn{}
	g := New(conn, "grading.events", false, quiet)

	student := roster.Student{Name: "Ann", LoginID: "a1"}
	g.StartGrading("run-1", "hw1_circle_area", suite.CircleArea, 1)
	g.FinishStudent("run-1", student, []suite.TestResult{{Passed: true, AdditionalStatus: suite.StatusFull}})

	require.Len(t, conn.msgs, 2)
	assert.Equal(t, "grading.events", conn.msgs[0].Subject)
	assert.Equal(t, string(api.StartGradingMsg), conn.msgs[0].Header.Get("Msg-Type"))
	assert.Empty(t, conn.msgs[0].Header.Get("Content-Encoding"))

	var start api.StartGrading
	require.NoError(t, api.Decode(conn.msgs[0].Data, false, &start))
	assert.Equal(t, "run-1", start.RunId)
	assert.Equal(t, "circle_area", start.Suite)

	var fin api.FinishStudent
	require.NoError(t, api.Decode(conn.msgs[1].Data, false, &fin))
	assert.Equal(t, "a1", fin.Student.LoginId)
	assert.Equal(t, 1, fin.Passed)
	assert.Equal(t, "full", fin.Status)
}

func TestCompressedPayload(t *testing.T) {
	conn := &fakeConn{}
	g := New(conn, "grading.events", true, quiet)
	g.FailStudent("run-2", roster.Student{LoginID: "b2"},
		&suite.ExecutionError{Stage: "compile", Output: "syntax error", Err: errors.New("exit status 1")})

	require.Len(t, conn.msgs, 1)
	assert.Equal(t, api.ContentEncodingSnappy, conn.msgs[0].Header.Get("Content-Encoding"))

	var fail api.FailStudent
	require.NoError(t, api.Decode(conn.msgs[0].Data, true, &fail))
	require.NotNil(t, fail.Stage)
	assert.Equal(t, "compile", *fail.Stage)
	require.NotNil(t, fail.Output)
	assert.Equal(t, "syntax error", *fail.Output)
}

func TestPublishFailureDoesNotPanic(t *testing.T) {
	conn := &fakeConn{err: nats.ErrConnectionClosed}
	g := New(conn, "grading.events", false, quiet)
	assert.NotPanics(t, func() {
		g.FinishGrading("run-3", &grading.Outcome{})
	})
	assert.Len(t, conn.msgs, 1)
}
