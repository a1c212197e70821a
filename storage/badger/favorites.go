package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/rina/core"
	"github.com/poiesic/rina/storage"
)

// FavoriteRepository implements storage.FavoriteRepository for BadgerDB.
type FavoriteRepository struct {
	backend *Backend
}

var _ storage.FavoriteRepository = (*FavoriteRepository)(nil)

// NewFavoriteRepository creates a new FavoriteRepository.
func NewFavoriteRepository(backend *Backend) *FavoriteRepository {
	return &FavoriteRepository{backend: backend}
}

// SaveFavorite records that identity saved listingID.
// An existing favorite keeps its original CreatedAt.
func (r *FavoriteRepository) SaveFavorite(ctx context.Context, identity, listingID string) error {
	key := makeFavoriteKey(identity, listingID)
	return r.backend.Update(func(tx *badger.Txn) error {
		_, err := tx.Get(key)
		if err == nil {
			return nil
		}
		if err != badger.ErrKeyNotFound {
			return err
		}

		value, err := storage.Marshal(&core.Favorite{
			Identity:  identity,
			ListingID: listingID,
			CreatedAt: time.Now().UTC(),
		})
		if err != nil {
			return err
		}
		return tx.Set(key, value)
	})
}

// ListFavorites returns identity's favorites ordered by listing ID.
func (r *FavoriteRepository) ListFavorites(ctx context.Context, identity string) ([]*core.Favorite, error) {
	var results []*core.Favorite
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeIdentityPrefix(favoritePrefix, identity)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := iter.Item().Value(func(val []byte) error {
				fav, err := storage.Unmarshal[core.Favorite](val)
				if err != nil {
					return err
				}
				results = append(results, fav)
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	}, false)
	return results, err
}
