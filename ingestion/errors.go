package ingestion

import "errors"

var (
	// ErrListingRepositoryRequired is returned when a listing repository is not provided.
	ErrListingRepositoryRequired = errors.New("listing repository required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("batch size must be positive")

	// ErrEmbeddingMismatch is returned when the embedder returns the wrong number of vectors.
	ErrEmbeddingMismatch = errors.New("embedding result count mismatch")

	// ErrUnsupportedFormat is returned for seed files that are neither JSON nor YAML.
	ErrUnsupportedFormat = errors.New("unsupported seed file format")

	// ErrInvalidSeedRecord is returned when a seed record fails validation.
	ErrInvalidSeedRecord = errors.New("invalid seed record")
)
