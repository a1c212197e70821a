package search

import "github.com/poiesic/rina/core"

// RetrievalMonitor provides hooks to observe the retrieval process.
// The CLI uses it to print intermediate steps in verbose mode.
type RetrievalMonitor interface {
	Start(query string, truncated bool)
	AfterEmbedding(dimensions int)
	Finish(results []core.RetrievalResult, err error)
}

// noopMonitor is a no-op implementation of RetrievalMonitor
type noopMonitor struct{}

var _ RetrievalMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string, _ bool)                   {}
func (n *noopMonitor) AfterEmbedding(_ int)                     {}
func (n *noopMonitor) Finish(_ []core.RetrievalResult, _ error) {}
