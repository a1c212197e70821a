package storage

import (
	"context"
	"time"

	"github.com/poiesic/rina/core"
)

// VectorIndex performs similarity search over listing embeddings.
// Implementations must be thread-safe and support concurrent access.
type VectorIndex interface {
	// FindSimilar returns listings whose similarity to embedding is >= threshold,
	// at most count of them, ordered by similarity (highest first).
	// An index with no qualifying listings returns an empty slice and nil error.
	FindSimilar(ctx context.Context, embedding []float32, threshold float64, count int) ([]core.RetrievalResult, error)
}

// CounterStore is a key/counter store with per-key expiry.
type CounterStore interface {
	// IncrementAndExpire atomically increments the counter at key (absent counts as 0)
	// and sets its expiry to window from now. Returns the post-increment value.
	IncrementAndExpire(ctx context.Context, key string, window time.Duration) (int64, error)

	// TTL returns the remaining lifetime of key, or 0 if the key is absent.
	TTL(ctx context.Context, key string) (time.Duration, error)
}

// ListingRepository provides operations for managing housing listings.
type ListingRepository interface {
	VectorIndex

	// AddListings stores new listings.
	// Listings with an empty ID get one from core.IDFromContent of their title and location.
	// Sets InsertedAt if not already set.
	AddListings(ctx context.Context, listings ...*core.Listing) ([]*core.Listing, error)

	// UpdateListings replaces existing listings and refreshes UpdatedAt.
	// Returns ErrNotFound if any listing doesn't exist.
	UpdateListings(ctx context.Context, listings ...*core.Listing) ([]*core.Listing, error)

	// GetListing retrieves a single listing by ID.
	// Returns ErrNotFound if the listing doesn't exist.
	GetListing(ctx context.Context, id string) (*core.Listing, error)

	// ListListings returns up to limit listings with IDs strictly greater than afterID,
	// in ID order. An empty afterID starts from the beginning.
	ListListings(ctx context.Context, afterID string, limit int) ([]*core.Listing, error)

	// CountListings returns the number of stored listings.
	CountListings(ctx context.Context) (int, error)
}

// ChatRepository stores the chat log.
type ChatRepository interface {
	// SaveChat appends an exchange, assigning ID and CreatedAt when unset.
	SaveChat(ctx context.Context, exchange *core.ChatExchange) error

	// RecentChats returns up to limit exchanges for identity, most recent first.
	RecentChats(ctx context.Context, identity string, limit int) ([]*core.ChatExchange, error)
}

// FavoriteRepository stores saved listings per identity.
type FavoriteRepository interface {
	// SaveFavorite records that identity saved listingID. Saving twice is not an error.
	SaveFavorite(ctx context.Context, identity, listingID string) error

	// ListFavorites returns identity's favorites ordered by listing ID.
	ListFavorites(ctx context.Context, identity string) ([]*core.Favorite, error)
}

// InquiryRepository stores landlord inquiries.
type InquiryRepository interface {
	// CreateInquiry stores an inquiry, assigning ID and CreatedAt when unset.
	CreateInquiry(ctx context.Context, inquiry *core.Inquiry) error

	// ListInquiries returns identity's inquiries in creation order.
	ListInquiries(ctx context.Context, identity string) ([]*core.Inquiry, error)
}

// TraceRepository stores finalized reasoning traces.
type TraceRepository interface {
	// SaveTrace stores or replaces a trace by TraceID.
	SaveTrace(ctx context.Context, trace *core.Trace) error

	// GetTrace retrieves a trace by ID.
	// Returns ErrNotFound if the trace doesn't exist.
	GetTrace(ctx context.Context, traceID string) (*core.Trace, error)
}

// CheckpointRepository persists processor progress for resumable batch jobs.
type CheckpointRepository interface {
	// SaveCheckpoint persists a checkpoint for a processor type.
	SaveCheckpoint(ctx context.Context, checkpoint *core.Checkpoint) error

	// LoadCheckpoint retrieves the checkpoint for a processor type.
	// Returns nil, nil if no checkpoint exists.
	LoadCheckpoint(ctx context.Context, processorType string) (*core.Checkpoint, error)

	// DeleteCheckpoint removes the checkpoint for a processor type.
	DeleteCheckpoint(ctx context.Context, processorType string) error
}
