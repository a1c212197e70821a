package reembed

import (
	"context"

	"github.com/poiesic/rina/core"
	"github.com/poiesic/rina/storage"
)

// DefaultBatchSize is the number of listings fetched and embedded per page.
const DefaultBatchSize = 32

// ListingIterator pages through listings in ID order.
type ListingIterator struct {
	repo      storage.ListingRepository
	batchSize int
	lastID    string
}

// NewListingIterator creates an iterator that starts after afterID.
// An empty afterID starts from the first listing.
func NewListingIterator(repo storage.ListingRepository, batchSize int, afterID string) *ListingIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &ListingIterator{
		repo:      repo,
		batchSize: batchSize,
		lastID:    afterID,
	}
}

// ForEach calls fn with each page until the listings run out or fn fails.
// Context cancellation is checked between pages.
func (it *ListingIterator) ForEach(ctx context.Context, fn func([]*core.Listing) error) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		page, err := it.repo.ListListings(ctx, it.lastID, it.batchSize)
		if err != nil {
			return err
		}
		if len(page) == 0 {
			return nil
		}

		if err := fn(page); err != nil {
			return err
		}
		it.lastID = page[len(page)-1].ID

		if len(page) < it.batchSize {
			return nil
		}
	}
}

// LastID returns the ID of the last listing handed to fn.
func (it *ListingIterator) LastID() string {
	return it.lastID
}
