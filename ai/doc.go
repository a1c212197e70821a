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

// Package ai provides abstractions for the AI services used by RINA.
//
// The package defines two capability interfaces and a provider that bundles them:
//
//   - Embedder: Generates vector embeddings from text
//   - Completer: Produces a single chat completion
//   - AIProvider: Aggregates both for convenient initialization
//
// # Implementation Packages
//
//   - ai/openai: Production implementation using OpenAI-compatible APIs
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// Public production constructors return interface types. Mock constructors
// return concrete types so tests can inject behavior and inspect calls.
//
// # Usage Example
//
//	provider, err := openai.NewProvider(ai.NewConfig(ai.WithToken(key)))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vec, err := provider.Embedder().EmbedText(ctx, "bedsitter near KU")
//	reply, err := provider.Completer().Complete(ctx, ai.CompletionRequest{
//	    Messages: []ai.ChatMessage{ai.User("Hello")},
//	})
package ai
