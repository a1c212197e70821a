package server

import "errors"

var (
	// ErrConversationRequired is returned when no conversation handler is given.
	ErrConversationRequired = errors.New("conversation handler is required")

	// ErrInvalidBodyLimit is returned when the request body limit is not positive.
	ErrInvalidBodyLimit = errors.New("body limit must be greater than 0")
)
