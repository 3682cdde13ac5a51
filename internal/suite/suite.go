package suite

import "context"

// RunOutput is whatever a suite's Run produced for one submission. Only the
// suite that produced it knows how to read it back in Judge.
type RunOutput any

// Answer is a suite's reference result, independent of any submission.
type Answer any

// Suite is the grading logic of one assignment kind. Implementations hold no
// per-submission state and must be safe for concurrent use.
type Suite interface {
	// Run executes the submission and returns its raw output. A submission
	// that cannot be built or started yields an *ExecutionError.
	Run(ctx context.Context, submission string) (RunOutput, error)
	Answer() Answer
	Judge(out RunOutput, ans Answer) []TestResult
}

// AdditionalStatus is the completion of extra-credit behaviour for one test case.
type AdditionalStatus uint8

const (
	StatusUnset AdditionalStatus = iota
	StatusNone
	StatusPartial
	StatusFull
)

// Resolved maps an unset status to StatusNone.
func (s AdditionalStatus) Resolved() AdditionalStatus {
	if s == StatusUnset {
		return StatusNone
	}
	return s
}

func (s AdditionalStatus) String() string {
	switch s {
	case StatusNone:
		return "none"
	case StatusPartial:
		return "partial"
	case StatusFull:
		return "full"
	}
	return "unset"
}

// ParseAdditionalStatus is the inverse of String.
func ParseAdditionalStatus(s string) (AdditionalStatus, bool) {
	for _, st := range []AdditionalStatus{StatusUnset, StatusNone, StatusPartial, StatusFull} {
		if st.String() == s {
			return st, true
		}
	}
	return StatusUnset, false
}

// TestResult is the outcome of one test case of one submission.
// A nil Infos or AdditionalInfos map means the result carries no such entry.
type TestResult struct {
	Passed           bool              `json:"passed"`
	Infos            map[string]string `json:"infos,omitempty"`
	AdditionalInfos  map[string]string `json:"additional_infos,omitempty"`
	AdditionalStatus AdditionalStatus  `json:"additional_status"`
}
