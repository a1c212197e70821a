package chat

import "errors"

var (
	// ErrDetectorRequired is returned when a language detector is not provided.
	ErrDetectorRequired = errors.New("language detector required")

	// ErrRouterRequired is returned when an intent router is not provided.
	ErrRouterRequired = errors.New("intent router required")

	// ErrRetrieverRequired is returned when a retriever is not provided.
	ErrRetrieverRequired = errors.New("retriever required")

	// ErrCompleterRequired is returned when a completer is not provided.
	ErrCompleterRequired = errors.New("completer required")

	// ErrInvalidCallTimeout is returned when the per-call timeout is not positive.
	ErrInvalidCallTimeout = errors.New("call timeout must be positive")

	// ErrInvalidTopK is returned when the retrieval depth is not positive.
	ErrInvalidTopK = errors.New("top k must be positive")

	// ErrNoListingID is reported when a save or inquiry message carries no listing ID.
	ErrNoListingID = errors.New("no listing id in message")

	// ErrNoMatches is reported when a search finds nothing above the threshold.
	ErrNoMatches = errors.New("no matching listings")

	// ErrStoreUnavailable is reported when a branch needs a repository that was not configured.
	ErrStoreUnavailable = errors.New("store not configured")

	// ErrEmptyCompletion is reported when the fallback completion is blank.
	ErrEmptyCompletion = errors.New("empty completion")
)
