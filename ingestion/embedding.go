package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/poiesic/rina/ai"
	"github.com/poiesic/rina/core"
	"github.com/poiesic/rina/storage"
	"golang.org/x/time/rate"
)

// CheckpointName is the processor type under which ingestion progress is saved.
const CheckpointName = "listing-ingestion"

// embeddingProcessor embeds listings and stores them.
type embeddingProcessor struct {
	listings    storage.ListingRepository
	checkpoints storage.CheckpointRepository
	embedder    ai.Embedder
	limiter     *rate.Limiter

	mu        sync.Mutex
	lastID    string
	processed int

	logger *slog.Logger
}

var _ processor = (*embeddingProcessor)(nil)

// newEmbeddingProcessor creates a new embedding processor.
// checkpoints may be nil, in which case progress is not recorded.
func newEmbeddingProcessor(
	listings storage.ListingRepository,
	checkpoints storage.CheckpointRepository,
	embedder ai.Embedder,
	limiter *rate.Limiter,
	logger *slog.Logger,
) (*embeddingProcessor, error) {
	if listings == nil {
		return nil, ErrListingRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &embeddingProcessor{
		listings:    listings,
		checkpoints: checkpoints,
		embedder:    embedder,
		limiter:     limiter,
		logger:      logger.With("processor", "embeddings"),
	}, nil
}

// process embeds the composed text of each listing and stores the batch.
func (ep *embeddingProcessor) process(ctx context.Context, listings []*core.Listing) error {
	if len(listings) == 0 {
		return nil
	}
	ep.logger.Debug("embedding listings", "listings", len(listings))

	texts := make([]string, len(listings))
	for i, l := range listings {
		texts[i] = ComposeText(l)
	}

	if err := ep.limiter.Wait(ctx); err != nil {
		return err
	}
	embeddings, err := ep.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed listings: %w", err)
	}
	if len(embeddings) != len(listings) {
		return fmt.Errorf("%w: expected %d, received %d", ErrEmbeddingMismatch, len(listings), len(embeddings))
	}

	for i := range embeddings {
		listings[i].Vector = embeddings[i]
	}

	stored, err := ep.listings.AddListings(ctx, listings...)
	if err != nil {
		return fmt.Errorf("store listings: %w", err)
	}

	ep.mu.Lock()
	for _, l := range stored {
		if l.ID > ep.lastID {
			ep.lastID = l.ID
		}
	}
	ep.processed += len(stored)
	ep.mu.Unlock()
	return nil
}

// checkpoint saves the highest stored listing ID and the running count.
func (ep *embeddingProcessor) checkpoint(ctx context.Context) error {
	if ep.checkpoints == nil {
		return nil
	}
	ep.mu.Lock()
	cp := &core.Checkpoint{
		ProcessorType: CheckpointName,
		LastID:        ep.lastID,
		Processed:     ep.processed,
		UpdatedAt:     time.Now().UTC(),
	}
	ep.mu.Unlock()
	return ep.checkpoints.SaveCheckpoint(ctx, cp)
}
