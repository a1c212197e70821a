package mock

import (
	"context"
	"sync"

	"github.com/poiesic/rina/ai"
)

// MockCompleter is a test double for ai.Completer.
//
// Behavior, in priority order: CompleteFunc if set; otherwise the next entry of
// Responses (cycling); otherwise DefaultResponse.
type MockCompleter struct {
	CompleteFunc    func(ctx context.Context, req ai.CompletionRequest) (string, error)
	Responses       []string
	DefaultResponse string

	mu       sync.Mutex
	index    int
	requests []ai.CompletionRequest
}

// NewMockCompleter creates a mock completer that answers with the given responses in turn.
func NewMockCompleter(responses ...string) *MockCompleter {
	return &MockCompleter{Responses: responses, DefaultResponse: "ok"}
}

// Complete records the request and returns the scripted response.
func (m *MockCompleter) Complete(ctx context.Context, req ai.CompletionRequest) (string, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	fn := m.CompleteFunc
	resp := m.DefaultResponse
	if fn == nil && len(m.Responses) > 0 {
		resp = m.Responses[m.index%len(m.Responses)]
		m.index++
	}
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}
	return resp, nil
}

// CallCount returns the number of Complete calls.
func (m *MockCompleter) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Requests returns a copy of every recorded request.
func (m *MockCompleter) Requests() []ai.CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ai.CompletionRequest(nil), m.requests...)
}

// Reset clears recorded requests and the response cursor.
func (m *MockCompleter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.index = 0
	m.requests = nil
	m.CompleteFunc = nil
}
