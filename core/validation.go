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
	"fmt"
	"time"
)

// ValidateMessage validates a Message according to domain rules.
//
// Validation rules:
//   - SenderID must not be empty
//   - ReceivedAt must not be in the future (zero is allowed)
//
// Empty text is valid; the orchestrator answers it with a greeting prompt.
func ValidateMessage(msg Message) error {
	if msg.SenderID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidMessage, ErrEmptySender)
	}
	if !msg.ReceivedAt.IsZero() && !IsValidTimestamp(msg.ReceivedAt) {
		return fmt.Errorf("%w: %w", ErrInvalidMessage, ErrInvalidTimestamp)
	}
	return nil
}

// ValidateListing validates a Listing according to domain rules.
//
// Validation rules:
//   - Title must not be empty
//   - Price, when present, must not be negative
//   - NeighborhoodRating, when present, must be within 0-10
//
// NOT validated:
//   - ID (assigned from content at ingestion when empty)
//   - Vector (populated by the ingestion pipeline)
func ValidateListing(listing *Listing) error {
	if listing == nil {
		return fmt.Errorf("%w: listing is nil", ErrInvalidListing)
	}
	if listing.Title == "" {
		return fmt.Errorf("%w: %w", ErrInvalidListing, ErrEmptyTitle)
	}
	if listing.Price != nil && *listing.Price < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidListing, ErrNegativePrice)
	}
	if r := listing.NeighborhoodRating; r != nil && (*r < 0 || *r > 10) {
		return fmt.Errorf("%w: %w: %v", ErrInvalidListing, ErrRatingOutOfRange, *r)
	}
	return nil
}

// ValidateTraceStep validates a TraceStep's type and numbering.
func ValidateTraceStep(step TraceStep) error {
	switch step.StepType {
	case StepPlan, StepAct, StepCritique, StepDecision:
	default:
		return fmt.Errorf("%w: %w: %q", ErrInvalidTraceStep, ErrInvalidStepType, step.StepType)
	}
	if step.StepNo < 1 {
		return fmt.Errorf("%w: step_no must be >= 1, got %d", ErrInvalidTraceStep, step.StepNo)
	}
	return nil
}

// IsValidTimestamp checks if a timestamp is valid (not in the future).
func IsValidTimestamp(ts time.Time) bool {
	return !ts.After(time.Now())
}
