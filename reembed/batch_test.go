package reembed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/rina/ai/mock"
	"github.com/poiesic/rina/ingestion"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchProcessor_UpdatesVectors(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	listings := seedListings(t, store, 3)
	embedder := mock.NewMockEmbedder()

	bp := NewBatchProcessor(store.Listings, embedder, 2, time.Millisecond)
	require.NoError(t, bp.Process(ctx, listings))

	assert.Equal(t, 1, embedder.CallCount())
	assert.Equal(t, ingestion.ComposeText(listings[0]), embedder.Texts()[0])

	got, err := store.Listings.GetListing(ctx, "l-02")
	require.NoError(t, err)
	require.Len(t, got.Vector, mock.DefaultDimension)
	assert.InDelta(t, 1.0, magnitude(got.Vector), 1e-5)
}

func TestBatchProcessor_Empty(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	bp := NewBatchProcessor(newStore(t).Listings, embedder, 2, time.Millisecond)
	require.NoError(t, bp.Process(context.Background(), nil))
	assert.Zero(t, embedder.CallCount())
}

func TestBatchProcessor_RetriesThenSucceeds(t *testing.T) {
	store := newStore(t)
	listings := seedListings(t, store, 2)

	embedder := mock.NewMockEmbedder()
	calls := 0
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("upstream 503")
		}
		out := make([][]float32, len(texts))
		for i := range out {
			out[i] = []float32{0, 2}
		}
		return out, nil
	}

	bp := NewBatchProcessor(store.Listings, embedder, 2, time.Millisecond)
	require.NoError(t, bp.Process(context.Background(), listings))
	assert.Equal(t, 2, calls)
	assert.Equal(t, []float32{0, 1}, listings[0].Vector)
}

func TestBatchProcessor_CountMismatch(t *testing.T) {
	store := newStore(t)
	listings := seedListings(t, store, 2)

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return [][]float32{{1}}, nil
	}

	bp := NewBatchProcessor(store.Listings, embedder, 1, time.Millisecond)
	err := bp.Process(context.Background(), listings)
	assert.ErrorIs(t, err, ErrEmbeddingCount)
}

func TestBatchProcessor_GivesUp(t *testing.T) {
	store := newStore(t)
	listings := seedListings(t, store, 1)

	boom := errors.New("boom")
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, boom
	}

	bp := NewBatchProcessor(store.Listings, embedder, 2, time.Millisecond)
	err := bp.Process(context.Background(), listings)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, embedder.CallCount())

	stored, err := store.Listings.GetListing(context.Background(), "l-01")
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 0}, stored.Vector, "stored vector is untouched on failure")
}
