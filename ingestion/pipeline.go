package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/rina/ai"
	"github.com/poiesic/rina/core"
	"github.com/poiesic/rina/storage"
	"golang.org/x/time/rate"
)

const (
	// DefaultBatchSize is the number of listings embedded per call.
	DefaultBatchSize = 16

	// DefaultCallInterval spaces embedding calls to stay under provider rate limits.
	DefaultCallInterval = 350 * time.Millisecond
)

// Pipeline ingests listings into the listing index.
type Pipeline struct {
	listings    storage.ListingRepository
	checkpoints storage.CheckpointRepository
	pool        *ants.Pool
	limiter     *rate.Limiter
	proc        processor
	batchSize   int
	logger      *slog.Logger
}

// Result summarizes one Ingest call.
type Result struct {
	Stored  int
	Skipped int
	Failed  int
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithBatchSize sets how many listings are embedded per call. Default is DefaultBatchSize.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			return ErrInvalidBatchSize
		}
		p.batchSize = size
		return nil
	}
}

// WithRateLimit throttles embedding calls to limit per second with the given burst.
// Default is one call per DefaultCallInterval.
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(p *Pipeline) error {
		p.limiter = rate.NewLimiter(limit, max(1, burst))
		return nil
	}
}

// WithCheckpoints records ingestion progress in repo.
func WithCheckpoints(repo storage.CheckpointRepository) Option {
	return func(p *Pipeline) error {
		p.checkpoints = repo
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(listings storage.ListingRepository, embedder ai.Embedder, opts ...Option) (*Pipeline, error) {
	if listings == nil {
		return nil, ErrListingRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	pool, err := ants.NewPool(max(1, runtime.NumCPU()/2))
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		listings:  listings,
		pool:      pool,
		limiter:   rate.NewLimiter(rate.Every(DefaultCallInterval), 1),
		batchSize: DefaultBatchSize,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}
	p.logger = p.logger.With("component", "ingestion")

	// Created after options so it sees the final limiter and logger.
	proc, err := newEmbeddingProcessor(listings, p.checkpoints, embedder, p.limiter, p.logger)
	if err != nil {
		p.Release()
		return nil, err
	}
	p.proc = proc

	return p, nil
}

// Ingest validates, embeds and stores listings, waiting for every batch.
// Invalid listings are skipped and logged. A failed batch does not stop the
// others; its error is joined into the returned error.
func (p *Pipeline) Ingest(ctx context.Context, listings []*core.Listing) (Result, error) {
	var result Result

	valid := make([]*core.Listing, 0, len(listings))
	for _, l := range listings {
		if err := core.ValidateListing(l); err != nil {
			p.logger.Warn("skipping invalid listing", "err", err)
			result.Skipped++
			continue
		}
		valid = append(valid, l)
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for start := 0; start < len(valid); start += p.batchSize {
		batch := valid[start:min(start+p.batchSize, len(valid))]

		wg.Add(1)
		err := p.pool.Submit(func() {
			defer wg.Done()
			err := p.proc.process(ctx, batch)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				p.logger.Error("error processing listing batch", "listings", len(batch), "err", err)
				errs = append(errs, err)
				result.Failed += len(batch)
				return
			}
			result.Stored += len(batch)
		})
		if err != nil {
			wg.Done()
			mu.Lock()
			errs = append(errs, fmt.Errorf("submit batch: %w", err))
			result.Failed += len(batch)
			mu.Unlock()
		}
	}
	wg.Wait()

	if err := p.proc.checkpoint(ctx); err != nil {
		p.logger.Error("error applying ingestion checkpoint", "err", err)
	}

	p.logger.Info("ingestion finished", "stored", result.Stored, "skipped", result.Skipped, "failed", result.Failed)
	return result, errors.Join(errs...)
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
