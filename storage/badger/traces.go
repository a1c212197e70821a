package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/rina/core"
	"github.com/poiesic/rina/storage"
)

// TraceRepository implements storage.TraceRepository for BadgerDB.
type TraceRepository struct {
	backend *Backend
}

var _ storage.TraceRepository = (*TraceRepository)(nil)

// NewTraceRepository creates a new TraceRepository.
func NewTraceRepository(backend *Backend) *TraceRepository {
	return &TraceRepository{backend: backend}
}

// SaveTrace stores or replaces a trace by TraceID.
func (r *TraceRepository) SaveTrace(ctx context.Context, trace *core.Trace) error {
	if trace.TraceID == "" {
		return storage.ErrInvalidQuery
	}
	value, err := storage.Marshal(trace)
	if err != nil {
		return err
	}
	return r.backend.Update(func(tx *badger.Txn) error {
		return tx.Set(makeTraceKey(trace.TraceID), value)
	})
}

// GetTrace retrieves a trace by ID.
func (r *TraceRepository) GetTrace(ctx context.Context, traceID string) (*core.Trace, error) {
	var trace *core.Trace
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeTraceKey(traceID))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var err error
			trace, err = storage.Unmarshal[core.Trace](val)
			return err
		})
	}, false)
	return trace, err
}
