package reembed

import (
	"context"
	"fmt"
	"testing"

	"github.com/poiesic/rina/core"
	"github.com/poiesic/rina/storage/badger"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *badger.Store {
	t.Helper()
	store, err := badger.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// seedListings stores n listings with IDs l-01, l-02, ... and a stale vector.
func seedListings(t *testing.T, store *badger.Store, n int) []*core.Listing {
	t.Helper()
	listings := make([]*core.Listing, n)
	for i := range listings {
		listings[i] = &core.Listing{
			ID:       fmt.Sprintf("l-%02d", i+1),
			Title:    fmt.Sprintf("Bedsitter %d", i+1),
			Location: "Kilimani",
			Price:    core.Float(float64(9000 + i*500)),
			Vector:   []float32{1, 0},
		}
	}
	_, err := store.Listings.AddListings(context.Background(), listings...)
	require.NoError(t, err)
	return listings
}
