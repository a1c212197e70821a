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

package storage

import "errors"

var (
	// ErrNotFound is returned when a listing, trace or other keyed record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrStorageClosed is returned by operations on a closed backend.
	ErrStorageClosed = errors.New("storage is closed")

	// ErrInvalidQuery is returned for empty keys, non-positive limits and similar.
	ErrInvalidQuery = errors.New("invalid query parameters")

	// ErrSerializationFailed wraps JSON encode and decode failures of stored values.
	ErrSerializationFailed = errors.New("serialization failed")

	// ErrTruncatedData is returned when a stored ID or counter is shorter than 8 bytes.
	ErrTruncatedData = errors.New("truncated data")

	// ErrTooManyConflicts is returned when a counter or sequence update keeps
	// conflicting after every retry.
	ErrTooManyConflicts = errors.New("too many transaction conflicts")
)
