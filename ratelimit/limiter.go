package ratelimit

import (
	"context"
	"log/slog"
	"time"

	"github.com/poiesic/rina/storage"
)

const (
	// DefaultWindow is the length of a counting window.
	DefaultWindow = 15 * time.Second

	// DefaultLimit is the number of messages allowed per window.
	DefaultLimit = 6

	keyPrefix = "ratelimit:"
)

// Decision is the outcome of one admission check.
type Decision struct {
	Allowed bool
	// Count is the post-increment counter value, 0 when the store failed.
	Count int64
	// FailOpen is set when the request was allowed because the store failed.
	FailOpen bool
	Err      error
}

// Limiter is a per-identity fixed-window rate limiter.
type Limiter struct {
	store  storage.CounterStore
	window time.Duration
	limit  int64
	logger *slog.Logger
}

// Option configures a Limiter.
type Option func(*Limiter) error

// WithWindow sets the counting window. Default is DefaultWindow.
func WithWindow(window time.Duration) Option {
	return func(l *Limiter) error {
		if window <= 0 {
			return ErrInvalidWindow
		}
		l.window = window
		return nil
	}
}

// WithLimit sets the number of messages allowed per window. Default is DefaultLimit.
func WithLimit(limit int) Option {
	return func(l *Limiter) error {
		if limit <= 0 {
			return ErrInvalidLimit
		}
		l.limit = int64(limit)
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Limiter) error {
		if logger == nil {
			logger = slog.Default()
		}
		l.logger = logger
		return nil
	}
}

// NewLimiter creates a Limiter over store.
func NewLimiter(store storage.CounterStore, opts ...Option) (*Limiter, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	l := &Limiter{
		store:  store,
		window: DefaultWindow,
		limit:  DefaultLimit,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}
	l.logger = l.logger.With("component", "rate_limiter")
	return l, nil
}

// Window returns the configured window.
func (l *Limiter) Window() time.Duration {
	return l.window
}

// Limit returns the configured per-window limit.
func (l *Limiter) Limit() int {
	return int(l.limit)
}

// Check counts one message from identity and reports whether it is admitted.
func (l *Limiter) Check(ctx context.Context, identity string) Decision {
	count, err := l.store.IncrementAndExpire(ctx, Key(identity), l.window)
	if err != nil {
		l.logger.Warn("counter store failed, allowing request", "identity", identity, "err", err)
		return Decision{Allowed: true, FailOpen: true, Err: err}
	}

	allowed := count <= l.limit
	if !allowed {
		l.logger.Debug("rate limited", "identity", identity, "count", count, "limit", l.limit)
	}
	return Decision{Allowed: allowed, Count: count}
}

// Allow counts one message from identity and reports whether it is admitted.
func (l *Limiter) Allow(ctx context.Context, identity string) bool {
	return l.Check(ctx, identity).Allowed
}

// TimeUntilReset returns how long until identity's counter expires.
// It is 0 when there is no counter or the store fails.
func (l *Limiter) TimeUntilReset(ctx context.Context, identity string) time.Duration {
	ttl, err := l.store.TTL(ctx, Key(identity))
	if err != nil {
		l.logger.Warn("counter ttl lookup failed", "identity", identity, "err", err)
		return 0
	}
	return max(0, ttl)
}

// Key returns the counter key for identity.
func Key(identity string) string {
	return keyPrefix + identity
}
