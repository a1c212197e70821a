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

package core

import (
	"encoding/hex"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// IDFromContent generates a deterministic listing ID from text content using BLAKE2b hashing.
// The result is 16 lowercase hex characters, which the save and inquiry commands
// recognise as a listing reference.
func IDFromContent(text string) string {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

// Message is a single inbound message. It is treated as immutable once received.
type Message struct {
	Text       string
	SenderID   string
	ReceivedAt time.Time
}

// NewMessage creates a Message stamped with the current time.
func NewMessage(senderID, text string) Message {
	return Message{
		Text:       text,
		SenderID:   senderID,
		ReceivedAt: time.Now().UTC(),
	}
}

// LanguageTag identifies the language or dialect of a message.
// Statistical detection may pass through other ISO 639-1 codes, so the
// type is an open string enum.
type LanguageTag string

const (
	LanguageEnglish LanguageTag = "en"
	LanguageSwahili LanguageTag = "sw"
	LanguageSheng   LanguageTag = "sheng"
	LanguageOther   LanguageTag = "other"
)

// IsSwahiliFamily reports whether replies should use the Swahili templates.
func (l LanguageTag) IsSwahiliFamily() bool {
	return l == LanguageSwahili || l == LanguageSheng
}

// IntentLabel is one of the fixed handling branches.
type IntentLabel string

const (
	IntentSearchListings IntentLabel = "search_listings"
	IntentSaveListing    IntentLabel = "save_listing"
	IntentCreateInquiry  IntentLabel = "create_inquiry"
	IntentGreeting       IntentLabel = "greeting"
	IntentFallback       IntentLabel = "fallback"
)

// IntentLabels lists the canonical labels in declaration order.
var IntentLabels = []IntentLabel{
	IntentSearchListings,
	IntentSaveListing,
	IntentCreateInquiry,
	IntentGreeting,
	IntentFallback,
}

// ParseIntentLabel returns the canonical label for s, or false if s is not one.
func ParseIntentLabel(s string) (IntentLabel, bool) {
	for _, l := range IntentLabels {
		if string(l) == s {
			return l, true
		}
	}
	return "", false
}

// Intent pairs a label with the classifier's confidence in [0,1].
type Intent struct {
	Label      IntentLabel
	Confidence float64
}

// Listing is a read-only snapshot of a housing listing.
// Empty strings and nil pointers mean the attribute is absent.
type Listing struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	Location           string    `json:"location,omitempty"`
	Price              *float64  `json:"price,omitempty"`
	RoomType           string    `json:"room_type,omitempty"`
	Furnishing         string    `json:"furnishing,omitempty"`
	PropertyType       string    `json:"property_type,omitempty"`
	Contact            string    `json:"contact,omitempty"`
	NeighborhoodRating *float64  `json:"neighborhood_rating,omitempty"`
	Description        string    `json:"description,omitempty"`
	Utilities          string    `json:"utilities,omitempty"`
	Amenities          []string  `json:"amenities,omitempty"`
	SizeSqm            *float64  `json:"size_sqm,omitempty"`
	Vector             []float32 `json:"vector,omitempty"`
	InsertedAt         time.Time `json:"inserted_at,omitzero"`
	UpdatedAt          time.Time `json:"updated_at,omitzero"`
}

// RetrievalResult is a listing returned by vector search with its similarity in [0,1].
type RetrievalResult struct {
	Listing    *Listing
	Similarity float64
}

// RankedResult is a retrieval result with its rerank score.
type RankedResult struct {
	RetrievalResult
	Score float64
}

// Constraints are explicit user preferences used to rerank candidates.
type Constraints struct {
	PropertyType string
	MaxPrice     *float64
	Furnishing   string
}

// IsZero reports whether no constraint is set.
func (c Constraints) IsZero() bool {
	return c.PropertyType == "" && c.MaxPrice == nil && c.Furnishing == ""
}

// RateWindow is the counter state for one identity as reported by a counter store.
type RateWindow struct {
	Key       string
	Count     int64
	ExpiresAt time.Time
}

// StepType classifies a trace step.
type StepType string

const (
	StepPlan     StepType = "plan"
	StepAct      StepType = "act"
	StepCritique StepType = "critique"
	StepDecision StepType = "decision"
)

// TraceStep is one append-only entry of a Trace.
type TraceStep struct {
	StepNo   int            `json:"step_no"`
	StepType StepType       `json:"step_type"`
	Content  map[string]any `json:"content"`
	Success  bool           `json:"success"`
}

// Trace is the structured reasoning record of one request.
type Trace struct {
	TraceID   string         `json:"trace_id"`
	Timestamp time.Time      `json:"ts"`
	Actor     string         `json:"actor"`
	UserID    string         `json:"user_id"`
	SessionID string         `json:"session_id"`
	Task      string         `json:"task"`
	Goal      map[string]any `json:"goal"`
	Steps     []TraceStep    `json:"steps"`
	Result    map[string]any `json:"result,omitempty"`
	Finalized bool           `json:"finalized"`
}

// Clone returns a copy whose step slice does not alias the receiver's.
func (t *Trace) Clone() *Trace {
	c := *t
	c.Steps = append([]TraceStep(nil), t.Steps...)
	return &c
}

// ChatExchange is one persisted user message and bot reply.
type ChatExchange struct {
	ID          uint64      `json:"id"`
	Identity    string      `json:"identity"`
	UserMessage string      `json:"user_message"`
	BotResponse string      `json:"bot_response"`
	Language    LanguageTag `json:"language,omitempty"`
	Intent      IntentLabel `json:"intent,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

// Favorite records that an identity saved a listing.
type Favorite struct {
	Identity  string    `json:"identity"`
	ListingID string    `json:"listing_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Inquiry is a message from an identity to a listing's landlord.
type Inquiry struct {
	ID        uint64    `json:"id"`
	Identity  string    `json:"identity"`
	ListingID string    `json:"listing_id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Checkpoint records how far a resumable processor has advanced.
type Checkpoint struct {
	ProcessorType string    `json:"processor_type"`
	LastID        string    `json:"last_id"`
	Processed     int       `json:"processed"`
	UpdatedAt     time.Time `json:"updated_at"`
}
