package badger

import (
	"bytes"
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/rina/core"
	"github.com/poiesic/rina/storage"
)

// ChatRepository implements storage.ChatRepository for BadgerDB.
type ChatRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.ChatRepository = (*ChatRepository)(nil)

// NewChatRepository creates a new ChatRepository.
func NewChatRepository(backend *Backend) (*ChatRepository, error) {
	idSeq, err := backend.GetSequence(chatIDSeq)
	if err != nil {
		return nil, err
	}

	return &ChatRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *ChatRepository) Close() error {
	return r.idSeq.Release()
}

// SaveChat appends an exchange to the identity's log.
func (r *ChatRepository) SaveChat(ctx context.Context, exchange *core.ChatExchange) error {
	if exchange.ID == 0 {
		id, err := nextID(r.idSeq)
		if err != nil {
			return err
		}
		exchange.ID = id
	}
	if exchange.CreatedAt.IsZero() {
		exchange.CreatedAt = time.Now().UTC()
	}

	value, err := storage.Marshal(exchange)
	if err != nil {
		return err
	}
	key := makeChatKey(exchange.Identity, exchange.CreatedAt, exchange.ID)

	return r.backend.Update(func(tx *badger.Txn) error {
		return tx.Set(key, value)
	})
}

// RecentChats returns up to limit exchanges for identity, most recent first.
func (r *ChatRepository) RecentChats(ctx context.Context, identity string, limit int) ([]*core.ChatExchange, error) {
	if limit <= 0 {
		return nil, storage.ErrInvalidQuery
	}

	var results []*core.ChatExchange
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		// Use reverse iterator to get most recent records first
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		iter := tx.NewIterator(opts)
		defer iter.Close()

		prefix := makeIdentityPrefix(chatPrefix, identity)
		for iter.Seek(prefixEnd(prefix)); iter.Valid() && len(results) < limit; iter.Next() {
			key := iter.Item().Key()
			if !bytes.HasPrefix(key, prefix) {
				if bytes.Compare(key, prefix) < 0 {
					break
				}
				continue
			}

			var exchange *core.ChatExchange
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				exchange, err = storage.Unmarshal[core.ChatExchange](val)
				return err
			}); err != nil {
				return err
			}
			results = append(results, exchange)
		}
		return nil
	}, false)

	return results, err
}
