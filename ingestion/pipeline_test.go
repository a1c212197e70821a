package ingestion

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/poiesic/rina/ai/mock"
	"github.com/poiesic/rina/core"
	"github.com/poiesic/rina/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

// testEmbedder implements ai.Embedder for testing
type testEmbedder struct {
	mu          sync.Mutex
	shouldError bool
	short       bool
	calls       int
}

func (m *testEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vecs, err := m.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (m *testEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.shouldError {
		return nil, errors.New("embedder error")
	}
	if m.short {
		return make([][]float32, len(texts)-1), nil
	}
	result := make([][]float32, len(texts))
	for i, text := range texts {
		result[i] = mock.DeterministicVector(text, 8)
	}
	return result, nil
}

func setupTestPipeline(t *testing.T, embedder *testEmbedder, opts ...Option) (*Pipeline, *badger.Store) {
	t.Helper()

	store, err := badger.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	opts = append([]Option{WithRateLimit(rate.Inf, 1), WithPoolSize(2)}, opts...)
	p, err := NewPipeline(store.Listings, embedder, opts...)
	require.NoError(t, err)
	t.Cleanup(p.Release)

	return p, store
}

func testListings(n int) []*core.Listing {
	out := make([]*core.Listing, n)
	for i := range n {
		out[i] = &core.Listing{
			Title:    fmt.Sprintf("Bedsitter %d", i),
			Location: "Kahawa Wendani",
			Price:    core.Float(float64(7000 + i*100)),
		}
	}
	return out
}

func TestNewPipeline(t *testing.T) {
	store, err := badger.NewMemoryStore()
	require.NoError(t, err)
	defer store.Close()

	_, err = NewPipeline(nil, &testEmbedder{})
	assert.ErrorIs(t, err, ErrListingRepositoryRequired)

	_, err = NewPipeline(store.Listings, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)

	_, err = NewPipeline(store.Listings, &testEmbedder{}, WithBatchSize(0))
	assert.ErrorIs(t, err, ErrInvalidBatchSize)

	p, err := NewPipeline(store.Listings, &testEmbedder{}, WithLogger(nil), WithPoolSize(0))
	require.NoError(t, err)
	p.Release()
}

func TestIngest(t *testing.T) {
	embedder := &testEmbedder{}
	p, store := setupTestPipeline(t, embedder, WithBatchSize(3))
	ctx := context.Background()

	result, err := p.Ingest(ctx, testListings(10))
	require.NoError(t, err)
	assert.Equal(t, Result{Stored: 10}, result)
	assert.Equal(t, 4, embedder.calls, "10 listings in batches of 3")

	count, err := store.Listings.CountListings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, count)

	all, err := store.Listings.ListListings(ctx, "", 100)
	require.NoError(t, err)
	for _, l := range all {
		assert.Len(t, l.ID, 16)
		assert.Len(t, l.Vector, 8)
		assert.False(t, l.InsertedAt.IsZero())
	}
}

func TestIngestIsIdempotent(t *testing.T) {
	p, store := setupTestPipeline(t, &testEmbedder{})
	ctx := context.Background()

	_, err := p.Ingest(ctx, testListings(3))
	require.NoError(t, err)
	_, err = p.Ingest(ctx, testListings(3))
	require.NoError(t, err)

	count, err := store.Listings.CountListings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count, "content IDs make re-ingestion an upsert")
}

func TestIngestSkipsInvalid(t *testing.T) {
	p, store := setupTestPipeline(t, &testEmbedder{})
	ctx := context.Background()

	listings := append(testListings(2),
		&core.Listing{Location: "no title"},
		&core.Listing{Title: "negative", Price: core.Float(-1)},
	)
	result, err := p.Ingest(ctx, listings)
	require.NoError(t, err)
	assert.Equal(t, Result{Stored: 2, Skipped: 2}, result)

	count, err := store.Listings.CountListings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestIngestEmbeddingErrors(t *testing.T) {
	t.Run("embedder error", func(t *testing.T) {
		p, store := setupTestPipeline(t, &testEmbedder{shouldError: true}, WithBatchSize(2))
		result, err := p.Ingest(context.Background(), testListings(3))
		assert.Error(t, err)
		assert.Equal(t, Result{Failed: 3}, result)

		count, err := store.Listings.CountListings(context.Background())
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("result mismatch", func(t *testing.T) {
		p, _ := setupTestPipeline(t, &testEmbedder{short: true})
		_, err := p.Ingest(context.Background(), testListings(2))
		assert.ErrorIs(t, err, ErrEmbeddingMismatch)
	})
}

func TestIngestCheckpoint(t *testing.T) {
	store, err := badger.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	p, err := NewPipeline(store.Listings, &testEmbedder{},
		WithRateLimit(rate.Inf, 1),
		WithCheckpoints(store.Checkpoints))
	require.NoError(t, err)
	t.Cleanup(p.Release)
	ctx := context.Background()

	_, err = p.Ingest(ctx, testListings(5))
	require.NoError(t, err)

	cp, err := store.Checkpoints.LoadCheckpoint(ctx, CheckpointName)
	require.NoError(t, err)
	require.NotNil(t, cp)
	assert.Equal(t, 5, cp.Processed)

	all, err := store.Listings.ListListings(ctx, "", 10)
	require.NoError(t, err)
	assert.Equal(t, all[len(all)-1].ID, cp.LastID)
}

func TestIngestedListingsAreSearchable(t *testing.T) {
	p, store := setupTestPipeline(t, &testEmbedder{})
	ctx := context.Background()

	listings := testListings(4)
	_, err := p.Ingest(ctx, listings)
	require.NoError(t, err)

	query := mock.DeterministicVector(ComposeText(listings[2]), 8)
	results, err := store.Listings.FindSimilar(ctx, query, 0.99, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, strings.HasPrefix(results[0].Listing.Title, "Bedsitter 2"))
}
