package trace

import "errors"

var (
	// ErrTraceFinalized is returned when a finished trace is modified.
	ErrTraceFinalized = errors.New("trace already finalized")

	// ErrNilTrace is returned when a nil trace is passed to the recorder.
	ErrNilTrace = errors.New("trace is nil")

	// ErrSinkRequired is returned when a nil sink is configured.
	ErrSinkRequired = errors.New("trace sink required")

	// ErrStepNumbering is returned when step numbers are not 1..k without gaps.
	ErrStepNumbering = errors.New("trace steps are not numbered 1..k")

	// ErrMissingSkeleton is returned when a trace lacks the plan, act, critique, decision sequence.
	ErrMissingSkeleton = errors.New("trace is missing the plan/act/critique/decision skeleton")
)
