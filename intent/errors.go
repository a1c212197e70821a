package intent

import "errors"

var (
	// ErrCompleterRequired is returned when a completer is not provided.
	ErrCompleterRequired = errors.New("completer required")

	// ErrClassifierRequired is returned when a classifier is not provided.
	ErrClassifierRequired = errors.New("classifier required")

	// ErrEmptyResponse is reported when the model returns no usable word.
	ErrEmptyResponse = errors.New("empty classifier response")
)
