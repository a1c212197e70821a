package search

import (
	"context"
	"log/slog"
	"unicode/utf8"

	"github.com/poiesic/rina/ai"
	"github.com/poiesic/rina/core"
	"github.com/poiesic/rina/storage"
)

const (
	// DefaultThreshold is the minimum similarity for a listing to be returned.
	DefaultThreshold = 0.5

	// DefaultMaxQueryBytes is the byte budget a query is truncated to before embedding.
	DefaultMaxQueryBytes = 8000
)

// Retriever finds listings semantically similar to a free-text query.
type Retriever struct {
	index         storage.VectorIndex
	embedder      ai.Embedder
	threshold     float64
	maxQueryBytes int
	logger        *slog.Logger
}

// Option configures a Retriever.
type Option func(*Retriever) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Retriever) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// WithThreshold sets the minimum similarity in [0,1].
// Default is DefaultThreshold.
func WithThreshold(threshold float64) Option {
	return func(r *Retriever) error {
		if threshold < 0 || threshold > 1 {
			return ErrInvalidThreshold
		}
		r.threshold = threshold
		return nil
	}
}

// WithMaxQueryBytes sets the byte budget for queries.
// Default is DefaultMaxQueryBytes.
func WithMaxQueryBytes(n int) Option {
	return func(r *Retriever) error {
		if n <= 0 {
			return ErrInvalidQueryBudget
		}
		r.maxQueryBytes = n
		return nil
	}
}

// NewRetriever creates a new retriever.
func NewRetriever(index storage.VectorIndex, embedder ai.Embedder, opts ...Option) (*Retriever, error) {
	if index == nil {
		return nil, ErrIndexRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	r := &Retriever{
		index:         index,
		embedder:      embedder,
		threshold:     DefaultThreshold,
		maxQueryBytes: DefaultMaxQueryBytes,
		logger:        slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	r.logger = r.logger.With("component", "retriever")

	return r, nil
}

// Threshold returns the configured similarity threshold.
func (r *Retriever) Threshold() float64 {
	return r.threshold
}

// Retrieve returns up to topK listings similar to query, in the index's order.
// No match above the threshold yields an empty slice and a nil error.
func (r *Retriever) Retrieve(ctx context.Context, query string, topK int) ([]core.RetrievalResult, error) {
	return r.RetrieveWithMonitor(ctx, query, topK, nil)
}

// RetrieveWithMonitor is Retrieve with progress callbacks.
func (r *Retriever) RetrieveWithMonitor(ctx context.Context, query string, topK int, monitor RetrievalMonitor) ([]core.RetrievalResult, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	truncated := TruncateUTF8(query, r.maxQueryBytes)
	monitor.Start(truncated, len(truncated) < len(query))

	embedding, err := r.embedder.EmbedText(ctx, truncated)
	if err != nil {
		monitor.Finish(nil, err)
		return nil, err
	}
	monitor.AfterEmbedding(len(embedding))

	results, err := r.index.FindSimilar(ctx, embedding, r.threshold, topK)
	if err != nil {
		monitor.Finish(nil, err)
		return nil, err
	}
	if results == nil {
		results = []core.RetrievalResult{}
	}

	r.logger.Debug("retrieved listings", "count", len(results), "top_k", topK)
	monitor.Finish(results, nil)
	return results, nil
}

// TruncateUTF8 cuts s to at most maxBytes bytes without splitting a rune.
func TruncateUTF8(s string, maxBytes int) string {
	if len(s) <= maxBytes {
		return s
	}
	cut := maxBytes
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
