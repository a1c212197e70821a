package server

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/poiesic/rina/chat"
	"github.com/poiesic/rina/core"
	"github.com/poiesic/rina/ingestion"
	"github.com/poiesic/rina/storage"
)

// WebhookChannel prefixes webhook identities.
const WebhookChannel = "whatsapp"

type chatRequest struct {
	UserID  string `json:"user_id" validate:"omitempty,max=128"`
	Message string `json:"message" validate:"max=4000"`
}

type chatResponse struct {
	Reply      string  `json:"reply"`
	Language   string  `json:"language"`
	Intent     string  `json:"intent,omitempty"`
	Confidence float64 `json:"confidence"`
	Branch     string  `json:"branch"`
	Outcome    string  `json:"outcome"`
	TraceID    string  `json:"trace_id,omitempty"`
}

type ingestResponse struct {
	Stored  int    `json:"stored"`
	Skipped int    `json:"skipped"`
	Failed  int    `json:"failed"`
	Error   string `json:"error,omitempty"`
}

type favoriteResponse struct {
	ListingID string        `json:"listing_id"`
	SavedAt   time.Time     `json:"saved_at"`
	Listing   *core.Listing `json:"listing,omitempty"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.bodyLimit)

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	reply, t := s.conversation.HandleTraced(r.Context(), core.NewMessage(req.UserID, req.Message))
	resp := chatResponse{
		Reply:      reply.Text,
		Language:   string(reply.Language),
		Intent:     string(reply.Intent.Label),
		Confidence: reply.Intent.Confidence,
		Branch:     string(reply.Branch),
		Outcome:    string(reply.Outcome),
	}
	if t != nil {
		resp.TraceID = t.TraceID
	}

	status := http.StatusOK
	if reply.RateLimited {
		w.Header().Set("Retry-After", retryAfterSeconds(reply.RetryAfter))
		status = http.StatusTooManyRequests
	}
	writeJSON(w, status, resp)
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.bodyLimit)
	if err := r.ParseForm(); err != nil {
		writeText(w, http.StatusBadRequest, "invalid form body")
		return
	}

	identity := WebhookIdentity(r.PostForm.Get("From"))
	reply := s.conversation.Handle(r.Context(), core.NewMessage(identity, r.PostForm.Get("Body")))
	if reply.RateLimited {
		w.Header().Set("Retry-After", retryAfterSeconds(reply.RetryAfter))
	}
	writeText(w, http.StatusOK, reply.Text)
}

func (s *Server) handleListings(w http.ResponseWriter, r *http.Request) {
	if s.ingester == nil || s.adminKey == "" {
		http.NotFound(w, r)
		return
	}
	if !s.authorized(r) {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, listingBodyLimit)
	listings, err := ingestion.Decode(r.Body, ingestion.FormatJSON)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.ingester.Ingest(r.Context(), listings)
	resp := ingestResponse{Stored: result.Stored, Skipped: result.Skipped, Failed: result.Failed}
	if err != nil {
		s.logger.Error("listing upload failed", "stored", result.Stored, "failed", result.Failed, "err", err)
		resp.Error = "ingestion failed"
		writeJSON(w, http.StatusBadGateway, resp)
		return
	}
	s.logger.Info("listings uploaded", "stored", result.Stored, "skipped", result.Skipped)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTrace(w http.ResponseWriter, r *http.Request) {
	if s.traces == nil {
		http.NotFound(w, r)
		return
	}
	t, err := s.traces.GetTrace(r.Context(), chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, "trace not found")
	case err != nil:
		s.logger.Error("trace lookup failed", "err", err)
		writeError(w, http.StatusInternalServerError, "trace lookup failed")
	default:
		writeJSON(w, http.StatusOK, t)
	}
}

func (s *Server) handleFavorites(w http.ResponseWriter, r *http.Request) {
	if s.favorites == nil {
		http.NotFound(w, r)
		return
	}
	identity := chi.URLParam(r, "identity")
	favs, err := s.favorites.ListFavorites(r.Context(), identity)
	if err != nil {
		s.logger.Error("favorites lookup failed", "identity", identity, "err", err)
		writeError(w, http.StatusInternalServerError, "favorites lookup failed")
		return
	}

	out := make([]favoriteResponse, 0, len(favs))
	for _, f := range favs {
		item := favoriteResponse{ListingID: f.ListingID, SavedAt: f.CreatedAt}
		if s.listings != nil {
			l, err := s.listings.GetListing(r.Context(), f.ListingID)
			if err != nil && !errors.Is(err, storage.ErrNotFound) {
				s.logger.Warn("favorite listing lookup failed", "listing_id", f.ListingID, "err", err)
			}
			if l != nil {
				l.Vector = nil
				item.Listing = l
			}
		}
		out = append(out, item)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) authorized(r *http.Request) bool {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(strings.TrimSpace(token)), []byte(s.adminKey)) == 1
}

// WebhookIdentity maps a sender address such as "whatsapp:+254 712 345678"
// to "whatsapp:254712345678". A sender without digits maps to "".
func WebhookIdentity(from string) string {
	var b strings.Builder
	for _, r := range from {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return ""
	}
	return WebhookChannel + ":" + b.String()
}

func retryAfterSeconds(d time.Duration) string {
	return strconv.Itoa(max(1, int(math.Ceil(d.Seconds()))))
}

var _ Conversation = (*chat.Orchestrator)(nil)
