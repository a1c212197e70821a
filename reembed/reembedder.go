// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package reembed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/poiesic/rina/ai"
	"github.com/poiesic/rina/core"
	"github.com/poiesic/rina/storage"
)

// CheckpointName is the processor type under which re-embedding progress is saved.
const CheckpointName = "listing-reembed"

// Config holds configuration for a re-embedding run.
type Config struct {
	// BatchSize is the number of listings embedded per call.
	BatchSize int

	// ReportInterval is how often progress is written, in listings.
	ReportInterval int

	// MaxAttempts bounds the embedding calls made per batch.
	MaxAttempts int

	// RetryDelay is the base delay for exponential backoff.
	RetryDelay time.Duration

	// Resume continues after the last checkpointed listing instead of starting over.
	Resume bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      DefaultBatchSize,
		ReportInterval: DefaultBatchSize,
		MaxAttempts:    2,
		RetryDelay:     time.Second,
	}
}

// Summary describes a finished run.
type Summary struct {
	Total     int
	Processed int
	ResumedAt string
	Elapsed   time.Duration
}

// Option configures a Reembedder.
type Option func(*Reembedder) error

// WithConfig replaces the default configuration.
func WithConfig(cfg *Config) Option {
	return func(r *Reembedder) error {
		if cfg == nil {
			return nil
		}
		if cfg.BatchSize <= 0 {
			return ErrInvalidBatchSize
		}
		if cfg.MaxAttempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		r.config = cfg
		return nil
	}
}

// WithCheckpoints saves progress after every batch.
func WithCheckpoints(repo storage.CheckpointRepository) Option {
	return func(r *Reembedder) error {
		r.checkpoints = repo
		return nil
	}
}

// WithProgress sets where the progress line is written. Defaults to io.Discard.
func WithProgress(w io.Writer) Option {
	return func(r *Reembedder) error {
		if w != nil {
			r.progress = w
		}
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reembedder) error {
		if logger != nil {
			r.logger = logger
		}
		return nil
	}
}

// Reembedder recomputes the vector of every stored listing.
type Reembedder struct {
	listings    storage.ListingRepository
	checkpoints storage.CheckpointRepository
	embedder    ai.Embedder
	config      *Config
	progress    io.Writer
	logger      *slog.Logger
}

// NewReembedder creates a Reembedder.
func NewReembedder(listings storage.ListingRepository, embedder ai.Embedder, opts ...Option) (*Reembedder, error) {
	if listings == nil {
		return nil, ErrListingRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	r := &Reembedder{
		listings: listings,
		embedder: embedder,
		config:   DefaultConfig(),
		progress: io.Discard,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	r.logger = r.logger.With("component", "reembed")
	return r, nil
}

// Run re-embeds every listing, or the ones after the saved checkpoint when
// Resume is set. The checkpoint is removed once the run completes.
func (r *Reembedder) Run(ctx context.Context) (Summary, error) {
	total, err := r.listings.CountListings(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("counting listings: %w", err)
	}
	summary := Summary{Total: total}
	if total == 0 {
		fmt.Fprintln(r.progress, "No listings to re-embed")
		return summary, nil
	}

	afterID, done, err := r.resumePoint(ctx)
	if err != nil {
		return summary, err
	}
	summary.ResumedAt = afterID

	fmt.Fprintf(r.progress, "Re-embedding %d listings (batch size %d)\n", total, r.config.BatchSize)
	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()
	tracker.Skip(done)

	processor := NewBatchProcessor(r.listings, r.embedder, r.config.MaxAttempts, r.config.RetryDelay)
	iter := NewListingIterator(r.listings, r.config.BatchSize, afterID)
	err = iter.ForEach(ctx, func(batch []*core.Listing) error {
		if err := processor.Process(ctx, batch); err != nil {
			return err
		}
		done += len(batch)
		tracker.Add(len(batch))
		return r.saveCheckpoint(ctx, batch[len(batch)-1].ID, done)
	})
	summary.Processed = done
	summary.Elapsed = tracker.Elapsed()
	if err != nil {
		r.logger.Error("re-embedding stopped", "processed", done, "last_id", iter.LastID(), "err", err)
		return summary, err
	}
	tracker.Finish()

	if r.checkpoints != nil {
		if err := r.checkpoints.DeleteCheckpoint(ctx, CheckpointName); err != nil {
			r.logger.Warn("failed to clear checkpoint", "err", err)
		}
	}
	r.logger.Info("re-embedding complete", "listings", done, "elapsed", summary.Elapsed)
	return summary, nil
}

func (r *Reembedder) resumePoint(ctx context.Context) (string, int, error) {
	if !r.config.Resume || r.checkpoints == nil {
		return "", 0, nil
	}
	cp, err := r.checkpoints.LoadCheckpoint(ctx, CheckpointName)
	if err != nil {
		return "", 0, fmt.Errorf("loading checkpoint: %w", err)
	}
	if cp == nil {
		return "", 0, nil
	}
	r.logger.Info("resuming from checkpoint", "last_id", cp.LastID, "processed", cp.Processed)
	return cp.LastID, cp.Processed, nil
}

func (r *Reembedder) saveCheckpoint(ctx context.Context, lastID string, processed int) error {
	if r.checkpoints == nil {
		return nil
	}
	return r.checkpoints.SaveCheckpoint(ctx, &core.Checkpoint{
		ProcessorType: CheckpointName,
		LastID:        lastID,
		Processed:     processed,
		UpdatedAt:     time.Now().UTC(),
	})
}
