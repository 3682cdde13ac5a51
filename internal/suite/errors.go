package suite

import (
	"errors"
	"fmt"
)

var (
	ErrNoMatchingSuiteKind = errors.New("no test suite kind matches assignment")
	ErrUnregisteredSuite   = errors.New("no test suite registered for kind")
	ErrExecution           = errors.New("submission execution failed")
)

// ExecutionError reports a submission that could not be built or run.
type ExecutionError struct {
	Stage  string // "compile", "run", ...
	Output string
	Err    error
}

func (e *ExecutionError) Error() string {
	msg := fmt.Sprintf("%s failed", e.Stage)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ExecutionError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrExecution}
	}
	return []error{ErrExecution, e.Err}
}
