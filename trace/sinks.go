package trace

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/poiesic/rina/core"
	"github.com/poiesic/rina/storage"
)

// DefaultFileName is the JSONL file FileSink appends to.
const DefaultFileName = "traces.jsonl"

// FileSink appends each trace as one JSON line to a file.
// The directory is created on first write.
type FileSink struct {
	path string
	mu   sync.Mutex
}

var _ Sink = (*FileSink)(nil)

// NewFileSink creates a sink writing to dir/traces.jsonl.
func NewFileSink(dir string) *FileSink {
	return &FileSink{path: filepath.Join(dir, DefaultFileName)}
}

// Path returns the file the sink appends to.
func (s *FileSink) Path() string {
	return s.path
}

// Write appends t as a single line.
func (s *FileSink) Write(ctx context.Context, t *core.Trace) error {
	line, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encode trace: %w", err)
	}
	line = append(line, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(line); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// RepositorySink stores traces in a storage.TraceRepository.
type RepositorySink struct {
	repo storage.TraceRepository
}

var _ Sink = (*RepositorySink)(nil)

// NewRepositorySink wraps repo.
func NewRepositorySink(repo storage.TraceRepository) *RepositorySink {
	return &RepositorySink{repo: repo}
}

// Write implements Sink.
func (s *RepositorySink) Write(ctx context.Context, t *core.Trace) error {
	return s.repo.SaveTrace(ctx, t)
}
