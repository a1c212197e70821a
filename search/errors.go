package search

import "errors"

var (
	// ErrIndexRequired is returned when a vector index is not provided.
	ErrIndexRequired = errors.New("vector index required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrInvalidThreshold is returned when a similarity threshold is outside [0,1].
	ErrInvalidThreshold = errors.New("similarity threshold must be between 0 and 1")

	// ErrInvalidQueryBudget is returned when the query byte budget is not positive.
	ErrInvalidQueryBudget = errors.New("query byte budget must be positive")
)
