package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/poiesic/rina/chat"
	"github.com/poiesic/rina/core"
	"github.com/poiesic/rina/ingestion"
	"github.com/poiesic/rina/storage"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultBodyLimit caps request bodies other than listing uploads.
const DefaultBodyLimit = 64 << 10

// listingBodyLimit caps admin listing uploads.
const listingBodyLimit = 8 << 20

// Conversation answers inbound messages.
type Conversation interface {
	Handle(ctx context.Context, msg core.Message) chat.Reply
	HandleTraced(ctx context.Context, msg core.Message) (chat.Reply, *core.Trace)
}

// Ingester stores uploaded listings.
type Ingester interface {
	Ingest(ctx context.Context, listings []*core.Listing) (ingestion.Result, error)
}

// Option configures a Server.
type Option func(*Server) error

// WithIngester enables POST /api/listings, guarded by adminKey.
// The route answers 404 when either is missing.
func WithIngester(ing Ingester, adminKey string) Option {
	return func(s *Server) error {
		s.ingester = ing
		s.adminKey = adminKey
		return nil
	}
}

// WithTraceRepository enables GET /api/traces/{id}.
func WithTraceRepository(repo storage.TraceRepository) Option {
	return func(s *Server) error {
		s.traces = repo
		return nil
	}
}

// WithFavorites enables GET /api/favorites/{identity}. listings may be nil,
// in which case favorites are returned without listing details.
func WithFavorites(favorites storage.FavoriteRepository, listings storage.ListingRepository) Option {
	return func(s *Server) error {
		s.favorites = favorites
		s.listings = listings
		return nil
	}
}

// WithBodyLimit sets the maximum request body size for chat and webhook requests.
func WithBodyLimit(n int64) Option {
	return func(s *Server) error {
		if n <= 0 {
			return ErrInvalidBodyLimit
		}
		s.bodyLimit = n
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) error {
		if logger != nil {
			s.logger = logger
		}
		return nil
	}
}

// Server holds the HTTP handlers.
type Server struct {
	conversation Conversation
	ingester     Ingester
	adminKey     string
	traces       storage.TraceRepository
	favorites    storage.FavoriteRepository
	listings     storage.ListingRepository
	bodyLimit    int64
	validate     *validator.Validate
	logger       *slog.Logger
}

// New creates a Server.
func New(conversation Conversation, opts ...Option) (*Server, error) {
	if conversation == nil {
		return nil, ErrConversationRequired
	}
	s := &Server{
		conversation: conversation,
		bodyLimit:    DefaultBodyLimit,
		validate:     validator.New(validator.WithRequiredStructEnabled()),
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.logger = s.logger.With("component", "server")
	return s, nil
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Heartbeat("/health"))

	r.Handle("/metrics", promhttp.Handler())
	r.Post("/webhook", s.handleWebhook)
	r.Route("/api", func(r chi.Router) {
		r.Post("/chat", s.handleChat)
		r.Post("/listings", s.handleListings)
		r.Get("/traces/{id}", s.handleTrace)
		r.Get("/favorites/{identity}", s.handleFavorites)
	})
	return r
}

// NewHTTPServer wraps Routes in an http.Server listening on addr.
func (s *Server) NewHTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			s.logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", chimiddleware.GetReqID(r.Context()),
			)
		}()
		next.ServeHTTP(ww, r)
	})
}
