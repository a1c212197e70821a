package ratelimit

import "errors"

var (
	// ErrStoreRequired is returned when a counter store is not provided.
	ErrStoreRequired = errors.New("counter store required")

	// ErrInvalidWindow is returned when the window is not positive.
	ErrInvalidWindow = errors.New("rate limit window must be positive")

	// ErrInvalidLimit is returned when the limit is not positive.
	ErrInvalidLimit = errors.New("rate limit must be positive")
)
