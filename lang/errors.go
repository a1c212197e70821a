package lang

import "errors"

var (
	// ErrStatisticalRequired is returned when a nil statistical pass is configured.
	ErrStatisticalRequired = errors.New("statistical detector required")

	// ErrDetectionPanic wraps a panic recovered from the statistical pass.
	ErrDetectionPanic = errors.New("statistical detector panicked")
)
