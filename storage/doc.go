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

// Package storage provides the storage abstraction layer for RINA.
//
// This package defines repository interfaces that decouple storage implementation
// from business logic: the chat log, favorites, inquiries, traces, listings with
// their vector index, processor checkpoints, and the expiring counter store used
// for rate limiting.
//
// # Architecture
//
//   - VectorIndex: Similarity search over listing embeddings
//   - CounterStore: Atomic increment with per-key expiry
//   - ListingRepository: Listings plus VectorIndex
//   - ChatRepository, FavoriteRepository, InquiryRepository: Conversation side effects
//   - TraceRepository: Finalized reasoning traces
//   - CheckpointRepository: Resumable batch job progress
//
// # Usage
//
//	store, err := badger.Open("/path/to/db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
// Use in tests with in-memory storage:
//
//	store, err := badger.NewMemoryStore()
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
//
// # Context Support
//
// All repository methods accept context.Context for cancellation
// and timeout support.
package storage
