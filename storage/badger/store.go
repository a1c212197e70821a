package badger

import "errors"

// Store bundles every BadgerDB repository over one shared Backend.
type Store struct {
	Backend     *Backend
	Listings    *ListingRepository
	Chats       *ChatRepository
	Favorites   *FavoriteRepository
	Inquiries   *InquiryRepository
	Traces      *TraceRepository
	Counters    *CounterStore
	Checkpoints *CheckpointRepository
}

// Open opens (or creates) a store at path.
func Open(path string) (*Store, error) {
	return openStore(path, false)
}

func openStore(path string, inMemory bool) (*Store, error) {
	backend, err := OpenBackend(path, inMemory)
	if err != nil {
		return nil, err
	}

	chats, err := NewChatRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	inquiries, err := NewInquiryRepository(backend)
	if err != nil {
		chats.Close()
		backend.Close()
		return nil, err
	}

	return &Store{
		Backend:     backend,
		Listings:    NewListingRepository(backend),
		Chats:       chats,
		Favorites:   NewFavoriteRepository(backend),
		Inquiries:   inquiries,
		Traces:      NewTraceRepository(backend),
		Counters:    NewCounterStore(backend),
		Checkpoints: NewCheckpointRepository(backend),
	}, nil
}

// Close releases the ID sequences and closes the database.
func (s *Store) Close() error {
	return errors.Join(
		s.Chats.Close(),
		s.Inquiries.Close(),
		s.Backend.Close(),
	)
}
