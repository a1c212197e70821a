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

// Package rina assembles the housing assistant: storage, AI provider,
// language detection, intent routing, rate limiting, retrieval and the
// conversation orchestrator.
package rina

import (
	"errors"
	"log/slog"
	"time"

	"github.com/poiesic/rina/ai"
	"github.com/poiesic/rina/ai/openai"
	"github.com/poiesic/rina/chat"
	"github.com/poiesic/rina/ingestion"
	"github.com/poiesic/rina/intent"
	"github.com/poiesic/rina/lang"
	"github.com/poiesic/rina/ratelimit"
	"github.com/poiesic/rina/reembed"
	"github.com/poiesic/rina/search"
	"github.com/poiesic/rina/server"
	"github.com/poiesic/rina/storage/badger"
	"github.com/poiesic/rina/trace"
)

// Assistant owns every long-lived component. Close it when done.
type Assistant struct {
	store        *badger.Store
	provider     ai.AIProvider
	retriever    *search.Retriever
	limiter      *ratelimit.Limiter
	orchestrator *chat.Orchestrator
	traceFile    *trace.FileSink
	logger       *slog.Logger
}

// Option configures an Assistant.
type Option func(*options)

type options struct {
	aiConfig    *ai.Config
	provider    ai.AIProvider
	traceDir    string
	rateLimit   int
	rateWindow  time.Duration
	noRateLimit bool
	callTimeout time.Duration
	logger      *slog.Logger
}

// WithAIConfig sets the OpenAI-compatible provider configuration.
func WithAIConfig(cfg *ai.Config) Option {
	return func(o *options) {
		o.aiConfig = cfg
	}
}

// WithProvider uses an existing provider instead of building one from the AI config.
// The Assistant takes ownership and closes it.
func WithProvider(p ai.AIProvider) Option {
	return func(o *options) {
		o.provider = p
	}
}

// WithTraceDir appends traces to dir/traces.jsonl in addition to the store.
func WithTraceDir(dir string) Option {
	return func(o *options) {
		o.traceDir = dir
	}
}

// WithRateLimit overrides the per-identity limit and window.
// Zero values keep the defaults.
func WithRateLimit(limit int, window time.Duration) Option {
	return func(o *options) {
		o.rateLimit = limit
		o.rateWindow = window
	}
}

// WithoutRateLimit admits every message. Intended for local CLI use.
func WithoutRateLimit() Option {
	return func(o *options) {
		o.noRateLimit = true
	}
}

// WithCallTimeout bounds each outbound model call.
func WithCallTimeout(d time.Duration) Option {
	return func(o *options) {
		o.callTimeout = d
	}
}

// WithLogger sets the logger passed to every component.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Open opens the store at path and builds the assistant.
// An empty path opens an in-memory store.
func Open(path string, opts ...Option) (*Assistant, error) {
	o := &options{
		aiConfig: ai.DefaultConfig(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}

	var (
		store *badger.Store
		err   error
	)
	if path == "" {
		store, err = badger.NewMemoryStore()
	} else {
		store, err = badger.Open(path)
	}
	if err != nil {
		return nil, err
	}

	provider := o.provider
	if provider == nil {
		if provider, err = openai.NewProvider(o.aiConfig); err != nil {
			store.Close()
			return nil, err
		}
	}

	a := &Assistant{
		store:    store,
		provider: provider,
		logger:   o.logger.With("component", "assistant"),
	}
	if err := a.build(o); err != nil {
		a.closeAll()
		return nil, err
	}
	return a, nil
}

func (a *Assistant) build(o *options) error {
	detector, err := lang.NewDetector(lang.WithLogger(o.logger))
	if err != nil {
		return err
	}

	classifier, err := intent.NewClassifier(a.provider.Completer(), intent.WithClassifierLogger(o.logger))
	if err != nil {
		return err
	}
	router, err := intent.NewRouter(classifier, intent.WithRouterLogger(o.logger))
	if err != nil {
		return err
	}

	if a.retriever, err = search.NewRetriever(a.store.Listings, a.provider.Embedder(), search.WithLogger(o.logger)); err != nil {
		return err
	}

	chatOpts := []chat.Option{
		chat.WithChatRepository(a.store.Chats),
		chat.WithFavoriteRepository(a.store.Favorites),
		chat.WithInquiryRepository(a.store.Inquiries),
		chat.WithTraceSink(trace.NewRepositorySink(a.store.Traces)),
		chat.WithLogger(o.logger),
	}
	if o.callTimeout > 0 {
		chatOpts = append(chatOpts, chat.WithCallTimeout(o.callTimeout))
	}
	if o.traceDir != "" {
		a.traceFile = trace.NewFileSink(o.traceDir)
		chatOpts = append(chatOpts, chat.WithTraceSink(a.traceFile))
	}
	if !o.noRateLimit {
		limitOpts := []ratelimit.Option{ratelimit.WithLogger(o.logger)}
		if o.rateLimit > 0 {
			limitOpts = append(limitOpts, ratelimit.WithLimit(o.rateLimit))
		}
		if o.rateWindow > 0 {
			limitOpts = append(limitOpts, ratelimit.WithWindow(o.rateWindow))
		}
		if a.limiter, err = ratelimit.NewLimiter(a.store.Counters, limitOpts...); err != nil {
			return err
		}
		chatOpts = append(chatOpts, chat.WithRateLimiter(a.limiter))
	}

	a.orchestrator, err = chat.New(detector, router, a.retriever, a.provider.Completer(), chatOpts...)
	return err
}

// Close drains background writes, then closes the provider and the store.
func (a *Assistant) Close() error {
	return a.closeAll()
}

func (a *Assistant) closeAll() error {
	var errs []error
	if a.orchestrator != nil {
		if err := a.orchestrator.Close(); err != nil {
			a.logger.Warn("background writes did not drain", "err", err)
		}
	}
	if a.provider != nil {
		if err := a.provider.Close(); err != nil {
			a.logger.Error("error closing AI provider", "err", err)
			errs = append(errs, err)
		}
	}
	if err := a.store.Close(); err != nil {
		a.logger.Error("error closing store", "err", err)
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Orchestrator returns the conversation orchestrator.
func (a *Assistant) Orchestrator() *chat.Orchestrator {
	return a.orchestrator
}

// Store returns the underlying store.
func (a *Assistant) Store() *badger.Store {
	return a.store
}

// Retriever returns the listing retriever.
func (a *Assistant) Retriever() *search.Retriever {
	return a.retriever
}

// RateLimiter returns the limiter, or nil when rate limiting is disabled.
func (a *Assistant) RateLimiter() *ratelimit.Limiter {
	return a.limiter
}

// TracePath returns the JSONL trace file, or "" when file traces are off.
func (a *Assistant) TracePath() string {
	if a.traceFile == nil {
		return ""
	}
	return a.traceFile.Path()
}

// NewIngestionPipeline creates a pipeline that embeds into this assistant's store.
// Progress is checkpointed in the store.
func (a *Assistant) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	opts = append([]ingestion.Option{
		ingestion.WithCheckpoints(a.store.Checkpoints),
		ingestion.WithLogger(a.logger),
	}, opts...)
	return ingestion.NewPipeline(a.store.Listings, a.provider.Embedder(), opts...)
}

// NewReembedder creates a re-embedder over this assistant's listings.
func (a *Assistant) NewReembedder(opts ...reembed.Option) (*reembed.Reembedder, error) {
	opts = append([]reembed.Option{
		reembed.WithCheckpoints(a.store.Checkpoints),
		reembed.WithLogger(a.logger),
	}, opts...)
	return reembed.NewReembedder(a.store.Listings, a.provider.Embedder(), opts...)
}

// NewServer creates the HTTP server. ingester may be nil to disable listing uploads.
func (a *Assistant) NewServer(ingester server.Ingester, adminKey string, opts ...server.Option) (*server.Server, error) {
	opts = append([]server.Option{
		server.WithTraceRepository(a.store.Traces),
		server.WithFavorites(a.store.Favorites, a.store.Listings),
		server.WithLogger(a.logger),
	}, opts...)
	if ingester != nil {
		opts = append(opts, server.WithIngester(ingester, adminKey))
	}
	return server.New(a.orchestrator, opts...)
}
