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

import "errors"

// Domain validation errors
var (
	// ErrInvalidMessage indicates a Message failed validation.
	ErrInvalidMessage = errors.New("invalid message")

	// ErrInvalidListing indicates a Listing failed validation.
	ErrInvalidListing = errors.New("invalid listing")

	// ErrInvalidTraceStep indicates a TraceStep failed validation.
	ErrInvalidTraceStep = errors.New("invalid trace step")

	// ErrEmptySender indicates the SenderID field is empty.
	ErrEmptySender = errors.New("sender cannot be empty")

	// ErrInvalidTimestamp indicates a timestamp is in the future.
	ErrInvalidTimestamp = errors.New("timestamp cannot be in the future")

	// ErrEmptyTitle indicates the listing Title field is empty.
	ErrEmptyTitle = errors.New("listing title cannot be empty")

	// ErrNegativePrice indicates a listing price below zero.
	ErrNegativePrice = errors.New("listing price cannot be negative")

	// ErrRatingOutOfRange indicates a neighborhood rating outside 0-10.
	ErrRatingOutOfRange = errors.New("neighborhood rating must be between 0 and 10")

	// ErrInvalidStepType indicates an unknown StepType value.
	ErrInvalidStepType = errors.New("invalid step type")
)
