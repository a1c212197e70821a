package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/rina/core"
	"github.com/poiesic/rina/storage"
)

// InquiryRepository implements storage.InquiryRepository for BadgerDB.
type InquiryRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.InquiryRepository = (*InquiryRepository)(nil)

// NewInquiryRepository creates a new InquiryRepository.
func NewInquiryRepository(backend *Backend) (*InquiryRepository, error) {
	idSeq, err := backend.GetSequence(inquiryIDSeq)
	if err != nil {
		return nil, err
	}
	return &InquiryRepository{backend: backend, idSeq: idSeq}, nil
}

// Close releases the ID sequence.
func (r *InquiryRepository) Close() error {
	return r.idSeq.Release()
}

// CreateInquiry stores an inquiry.
func (r *InquiryRepository) CreateInquiry(ctx context.Context, inquiry *core.Inquiry) error {
	if inquiry.ID == 0 {
		id, err := nextID(r.idSeq)
		if err != nil {
			return err
		}
		inquiry.ID = id
	}
	if inquiry.CreatedAt.IsZero() {
		inquiry.CreatedAt = time.Now().UTC()
	}

	value, err := storage.Marshal(inquiry)
	if err != nil {
		return err
	}
	key := makeInquiryKey(inquiry.Identity, inquiry.ID)

	return r.backend.Update(func(tx *badger.Txn) error {
		return tx.Set(key, value)
	})
}

// ListInquiries returns identity's inquiries in creation order.
func (r *InquiryRepository) ListInquiries(ctx context.Context, identity string) ([]*core.Inquiry, error) {
	var results []*core.Inquiry
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeIdentityPrefix(inquiryPrefix, identity)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := iter.Item().Value(func(val []byte) error {
				inquiry, err := storage.Unmarshal[core.Inquiry](val)
				if err != nil {
					return err
				}
				results = append(results, inquiry)
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	}, false)
	return results, err
}
