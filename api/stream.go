package api

import "time"

// MsgType is a message type for streamed grading events
type MsgType string

// Streaming message type constants
const (
	StartGradingMsg  MsgType = "grading_start"
	SkipStudentMsg   MsgType = "student_skip"
	StartStudentMsg  MsgType = "student_start"
	FinishStudentMsg MsgType = "student_finish"
	FailStudentMsg   MsgType = "student_fail"
	FinishGradingMsg MsgType = "grading_finish"
)

// Header is the common header for all streamed messages
type Header struct {
	RunId   string  `json:"run_id"`
	MsgType MsgType `json:"msg_type"`
}

type Student struct {
	Name    string `json:"name"`
	LoginId string `json:"sis_login_id"`
}

// TestResult is one judged test case of a submission
type TestResult struct {
	Passed           bool              `json:"passed"`
	Infos            map[string]string `json:"infos,omitempty"`
	AdditionalInfos  map[string]string `json:"additional_infos,omitempty"`
	AdditionalStatus string            `json:"additional_status"`
}

// StartGrading message sent before any student is graded
type StartGrading struct {
	Header
	Assignment  string `json:"assignment"`
	Suite       string `json:"suite"`
	Students    int    `json:"students"`
	StartedTime string `json:"started_time"`
}

// SkipStudent message sent for a student without a submission
type SkipStudent struct {
	Header
	Student Student `json:"student"`
}

// StartStudent message sent when a student's submission is picked up
type StartStudent struct {
	Header
	Student Student `json:"student"`
	File    string  `json:"file"`
}

// FinishStudent message sent when a submission has been judged
type FinishStudent struct {
	Header
	Student Student      `json:"student"`
	Results []TestResult `json:"results"`
	Passed  int          `json:"passed"`
	Total   int          `json:"total"`
	Status  string       `json:"status"`
}

// FailStudent message sent when a submission could not be run
type FailStudent struct {
	Header
	Student Student `json:"student"`
	Error   string  `json:"error"`
	Stage   *string `json:"stage"`
	Output  *string `json:"output"`
}

// FinishGrading message sent after every student is graded
type FinishGrading struct {
	Header
	Submitted    int         `json:"submitted"`
	Collisions   [][]Student `json:"collisions"`
	FinishedTime string      `json:"finished_time"`
}

// Helper function to create a header
func NewHeader(runId string, msgType MsgType) Header {
	return Header{
		RunId:   runId,
		MsgType: msgType,
	}
}

// Helper functions to create specific streaming message types
func NewStartGrading(runId, assignment, suite string, students int) StartGrading {
	return StartGrading{
		Header:      NewHeader(runId, StartGradingMsg),
		Assignment:  assignment,
		Suite:       suite,
		Students:    students,
		StartedTime: time.Now().Format(time.RFC3339),
	}
}

func NewSkipStudent(runId string, student Student) SkipStudent {
	return SkipStudent{
		Header:  NewHeader(runId, SkipStudentMsg),
		Student: student,
	}
}

func NewStartStudent(runId string, student Student, file string) StartStudent {
	return StartStudent{
		Header:  NewHeader(runId, StartStudentMsg),
		Student: student,
		File:    file,
	}
}

func NewFinishStudent(runId string, student Student, results []TestResult, passed int, status string) FinishStudent {
	return FinishStudent{
		Header:  NewHeader(runId, FinishStudentMsg),
		Student: student,
		Results: results,
		Passed:  passed,
		Total:   len(results),
		Status:  status,
	}
}

// NewFailStudent trims output to fit the stream limits.
func NewFailStudent(runId string, student Student, errMsg string, stage, output *string) FailStudent {
	if output != nil {
		trimmed := TrimStr(*output)
		output = &trimmed
	}
	return FailStudent{
		Header:  NewHeader(runId, FailStudentMsg),
		Student: student,
		Error:   TrimStr(errMsg),
		Stage:   stage,
		Output:  output,
	}
}

func NewFinishGrading(runId string, submitted int, collisions [][]Student) FinishGrading {
	return FinishGrading{
		Header:       NewHeader(runId, FinishGradingMsg),
		Submitted:    submitted,
		Collisions:   collisions,
		FinishedTime: time.Now().Format(time.RFC3339),
	}
}
