package reembed

import "errors"

var (
	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrInvalidBatchSize is returned when the batch size is <= 0
	ErrInvalidBatchSize = errors.New("batch size must be greater than 0")

	// ErrListingRepositoryRequired is returned when no listing repository is given
	ErrListingRepositoryRequired = errors.New("listing repository is required")

	// ErrEmbedderRequired is returned when no embedder is given
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrEmbeddingCount is returned when the embedder returns the wrong number of vectors
	ErrEmbeddingCount = errors.New("embedding count does not match listing count")
)
