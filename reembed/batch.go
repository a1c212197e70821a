package reembed

import (
	"context"
	"fmt"
	"time"

	"github.com/poiesic/rina/ai"
	"github.com/poiesic/rina/core"
	"github.com/poiesic/rina/ingestion"
	"github.com/poiesic/rina/storage"
)

// BatchProcessor re-embeds one page of listings and writes them back.
type BatchProcessor struct {
	repo           storage.ListingRepository
	embedder       ai.Embedder
	maxAttempts    int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a new batch processor.
// maxAttempts bounds the embedding calls made per batch.
func NewBatchProcessor(repo storage.ListingRepository, embedder ai.Embedder, maxAttempts int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		repo:           repo,
		embedder:       embedder,
		maxAttempts:    maxAttempts,
		retryBaseDelay: retryBaseDelay,
	}
}

// Process embeds the composed text of each listing, normalizes the vectors
// and updates the listings in place.
func (bp *BatchProcessor) Process(ctx context.Context, listings []*core.Listing) error {
	if len(listings) == 0 {
		return nil
	}

	texts := make([]string, len(listings))
	for i, l := range listings {
		texts[i] = ingestion.ComposeText(l)
	}

	var vectors [][]float32
	err := RetryWithBackoff(ctx, func() error {
		v, err := bp.embedder.EmbedTexts(ctx, texts)
		if err != nil {
			return err
		}
		if len(v) != len(texts) {
			return fmt.Errorf("%w: want %d, got %d", ErrEmbeddingCount, len(texts), len(v))
		}
		vectors = v
		return nil
	}, bp.maxAttempts, bp.retryBaseDelay)
	if err != nil {
		return fmt.Errorf("embedding batch starting at %s: %w", listings[0].ID, err)
	}

	for i, l := range listings {
		l.Vector = NormalizeVector(vectors[i])
	}

	if _, err := bp.repo.UpdateListings(ctx, listings...); err != nil {
		return fmt.Errorf("updating listings: %w", err)
	}
	return nil
}
