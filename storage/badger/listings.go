package badger

import (
	"bytes"
	"context"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/rina/core"
	"github.com/poiesic/rina/storage"
)

// ListingRepository implements storage.ListingRepository for BadgerDB.
// Vector search is a brute-force cosine scan over every stored listing.
type ListingRepository struct {
	backend *Backend
}

var _ storage.ListingRepository = (*ListingRepository)(nil)

// NewListingRepository creates a new ListingRepository.
func NewListingRepository(backend *Backend) *ListingRepository {
	return &ListingRepository{backend: backend}
}

// AddListings stores listings, overwriting any listing with the same ID.
func (r *ListingRepository) AddListings(ctx context.Context, listings ...*core.Listing) ([]*core.Listing, error) {
	err := r.backend.Update(func(tx *badger.Txn) error {
		now := time.Now().UTC()
		for _, listing := range listings {
			if listing.ID == "" {
				listing.ID = core.IDFromContent(listing.Title + "\n" + listing.Location)
			}
			if listing.InsertedAt.IsZero() {
				listing.InsertedAt = now
			}
			listing.UpdatedAt = now

			value, err := storage.Marshal(listing)
			if err != nil {
				return err
			}
			if err := tx.Set(makeListingKey(listing.ID), value); err != nil {
				return err
			}
		}
		return nil
	})
	return listings, err
}

// UpdateListings replaces existing listings.
func (r *ListingRepository) UpdateListings(ctx context.Context, listings ...*core.Listing) ([]*core.Listing, error) {
	err := r.backend.Update(func(tx *badger.Txn) error {
		now := time.Now().UTC()
		for _, listing := range listings {
			key := makeListingKey(listing.ID)
			if _, err := tx.Get(key); err != nil {
				if err == badger.ErrKeyNotFound {
					return storage.ErrNotFound
				}
				return err
			}

			listing.UpdatedAt = now
			value, err := storage.Marshal(listing)
			if err != nil {
				return err
			}
			if err := tx.Set(key, value); err != nil {
				return err
			}
		}
		return nil
	})
	return listings, err
}

// GetListing retrieves a single listing by ID.
func (r *ListingRepository) GetListing(ctx context.Context, id string) (*core.Listing, error) {
	var result *core.Listing
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readListing(tx, makeListingKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// ListListings returns up to limit listings with IDs after afterID, in ID order.
func (r *ListingRepository) ListListings(ctx context.Context, afterID string, limit int) ([]*core.Listing, error) {
	if limit <= 0 {
		return nil, storage.ErrInvalidQuery
	}

	var results []*core.Listing
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(listingPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		after := makeListingKey(afterID)
		for iter.Seek(after); iter.Valid() && len(results) < limit; iter.Next() {
			if afterID != "" && bytes.Equal(iter.Item().Key(), after) {
				continue
			}
			listing, err := decodeListing(iter.Item())
			if err != nil {
				return err
			}
			results = append(results, listing)
		}
		return nil
	}, false)
	return results, err
}

// CountListings returns the number of stored listings.
func (r *ListingRepository) CountListings(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(listingPrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// FindSimilar scans every listing with an embedding and returns those whose cosine
// similarity to embedding is at least threshold, best first, at most count.
func (r *ListingRepository) FindSimilar(ctx context.Context, embedding []float32, threshold float64, count int) ([]core.RetrievalResult, error) {
	if count <= 0 {
		return []core.RetrievalResult{}, nil
	}

	results := []core.RetrievalResult{}
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(listingPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			listing, err := decodeListing(iter.Item())
			if err != nil {
				return err
			}

			// Skip listings without embeddings
			if len(listing.Vector) == 0 {
				continue
			}

			similarity := cosineSimilarity(embedding, listing.Vector)
			if similarity >= threshold {
				results = append(results, core.RetrievalResult{
					Listing:    listing,
					Similarity: similarity,
				})
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	// Sort by similarity descending, ties by ID for a stable order
	slices.SortFunc(results, func(a, b core.RetrievalResult) int {
		switch {
		case a.Similarity > b.Similarity:
			return -1
		case a.Similarity < b.Similarity:
			return 1
		default:
			return bytes.Compare([]byte(a.Listing.ID), []byte(b.Listing.ID))
		}
	})

	if len(results) > count {
		results = results[:count]
	}
	return results, nil
}

// readListing reads a listing from the transaction.
// Returns nil, nil if the key doesn't exist.
func readListing(tx *badger.Txn, key []byte) (*core.Listing, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}
	return decodeListing(item)
}

func decodeListing(item *badger.Item) (*core.Listing, error) {
	var listing *core.Listing
	err := item.Value(func(val []byte) error {
		var err error
		listing, err = storage.Unmarshal[core.Listing](val)
		return err
	})
	return listing, err
}
