package gatherer

import (
	"errors"

	"github.com/programme-lv/labgrader/api"
	"github.com/programme-lv/labgrader/internal/grading"
	"github.com/programme-lv/labgrader/internal/plagiarism"
	"github.com/programme-lv/labgrader/internal/roster"
	"github.com/programme-lv/labgrader/internal/suite"
	"github.com/programme-lv/labgrader/internal/summary"
)

// Stream converts grading events into api messages and passes each one to
// send. Transport sinks embed it and only implement sending.
type Stream struct {
	send func(msgType api.MsgType, msg any)
}

var _ grading.Gatherer = (*Stream)(nil)

func NewStream(send func(msgType api.MsgType, msg any)) *Stream {
	return &Stream{send: send}
}

func (s *Stream) StartGrading(runID string, assignment string, kind suite.Kind, students int) {
	s.send(api.StartGradingMsg, api.NewStartGrading(runID, assignment, kind.Name(), students))
}

func (s *Stream) SkipStudent(runID string, student roster.Student) {
	s.send(api.SkipStudentMsg, api.NewSkipStudent(runID, Student(student)))
}

func (s *Stream) StartStudent(runID string, student roster.Student, file string) {
	s.send(api.StartStudentMsg, api.NewStartStudent(runID, Student(student), file))
}

func (s *Stream) FinishStudent(runID string, student roster.Student, results []suite.TestResult) {
	sum := summary.Summarize(results)
	s.send(api.FinishStudentMsg,
		api.NewFinishStudent(runID, Student(student), Results(results), sum.Passed, sum.Status.String()))
}

func (s *Stream) FailStudent(runID string, student roster.Student, err error) {
	var stage, output *string
	var execErr *suite.ExecutionError
	if errors.As(err, &execErr) {
		stage = &execErr.Stage
		if execErr.Output != "" {
			output = &execErr.Output
		}
	}
	s.send(api.FailStudentMsg, api.NewFailStudent(runID, Student(student), err.Error(), stage, output))
}

func (s *Stream) FinishGrading(runID string, outcome *grading.Outcome) {
	s.send(api.FinishGradingMsg,
		api.NewFinishGrading(runID, len(outcome.Accepted), Collisions(outcome.Collisions)))
}

func Student(s roster.Student) api.Student {
	return api.Student{Name: s.Name, LoginId: s.LoginID}
}

// Results converts test results, trimming every info value to the stream
// limits.
func Results(results []suite.TestResult) []api.TestResult {
	out := make([]api.TestResult, 0, len(results))
	for _, r := range results {
		out = append(out, api.TestResult{
			Passed:           r.Passed,
			Infos:            trimmed(r.Infos),
			AdditionalInfos:  trimmed(r.AdditionalInfos),
			AdditionalStatus: r.AdditionalStatus.Resolved().String(),
		})
	}
	return out
}

func trimmed(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = api.TrimStr(v)
	}
	return out
}

func Collisions(c plagiarism.Collisions) [][]api.Student {
	groups := c.Groups()
	out := make([][]api.Student, 0, len(groups))
	for _, g := range groups {
		students := make([]api.Student, 0, len(g.Students))
		for _, s := range g.Students {
			students = append(students, Student(s))
		}
		out = append(out, students)
	}
	return out
}
