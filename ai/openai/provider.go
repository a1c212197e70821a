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

package openai

import (
	"log/slog"
	"net/http"

	"github.com/poiesic/rina/ai"
)

// Provider implements ai.AIProvider using OpenAI-compatible services.
// The embedder and completer share one HTTP client.
type Provider struct {
	config     *ai.Config
	httpClient *http.Client
	embedder   *Embedder
	completer  *Completer
	logger     *slog.Logger
}

// NewProvider creates a new AI provider with OpenAI-compatible services.
// The config is validated and normalized before use.
//
// Returns ai.AIProvider interface (not *Provider) to enforce abstraction
// and prevent coupling to OpenAI-specific implementation details.
func NewProvider(config *ai.Config) (ai.AIProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	httpClient := &http.Client{Timeout: config.Timeout}

	embedder, err := newEmbedder(config, httpClient)
	if err != nil {
		return nil, err
	}

	completer, err := newCompleter(config, httpClient)
	if err != nil {
		return nil, err
	}

	return &Provider{
		config:     config,
		httpClient: httpClient,
		embedder:   embedder,
		completer:  completer,
		logger:     slog.Default().With("component", "openai-provider"),
	}, nil
}

// Embedder returns the text embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// Completer returns the chat completion service.
func (p *Provider) Completer() ai.Completer {
	return p.completer
}

// Close releases idle connections held by the shared HTTP client.
func (p *Provider) Close() error {
	p.logger.Debug("closing OpenAI provider")
	p.httpClient.CloseIdleConnections()
	return nil
}
