package badger

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/rina/storage"
)

// CounterStore implements storage.CounterStore on BadgerDB entry TTLs.
// Expiry has one-second resolution.
type CounterStore struct {
	backend *Backend
	stripes [counterStripes]sync.Mutex
}

// counterStripes is the number of locks increments on distinct keys are spread over.
const counterStripes = 64

var _ storage.CounterStore = (*CounterStore)(nil)

// NewCounterStore creates a new CounterStore.
func NewCounterStore(backend *Backend) *CounterStore {
	return &CounterStore{backend: backend}
}

// IncrementAndExpire increments the counter at key and re-arms its expiry to window.
// Increments on the same key are serialized in-process before the transaction starts,
// so a burst from one identity never exhausts the conflict retries. The read and write
// still happen in one serializable transaction.
func (s *CounterStore) IncrementAndExpire(ctx context.Context, key string, window time.Duration) (int64, error) {
	var count int64
	k := makeCounterKey(key)

	mu := s.stripe(key)
	mu.Lock()
	defer mu.Unlock()

	err := s.backend.Update(func(tx *badger.Txn) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		count = 0
		item, err := tx.Get(k)
		switch {
		case err == nil:
			if err := item.Value(func(val []byte) error {
				var err error
				count, err = storage.UnmarshalCounter(val)
				return err
			}); err != nil {
				return err
			}
		case err != badger.ErrKeyNotFound:
			return err
		}

		count++
		return tx.SetEntry(badger.NewEntry(k, storage.MarshalCounter(count)).WithTTL(window))
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// TTL returns the remaining lifetime of key, or 0 if the key is absent or expired.
func (s *CounterStore) TTL(ctx context.Context, key string) (time.Duration, error) {
	var ttl time.Duration
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeCounterKey(key))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return nil
			}
			return err
		}
		if exp := item.ExpiresAt(); exp > 0 {
			ttl = max(0, time.Until(time.Unix(int64(exp), 0)))
		}
		return nil
	}, false)
	return ttl, err
}

func (s *CounterStore) stripe(key string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(key))
	return &s.stripes[h.Sum32()%counterStripes]
}
