package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"tuneshelf/logger"
	"tuneshelf/model"
	"tuneshelf/storage"

	"github.com/google/uuid"
)

// Storage key owned by the library store.
const songsKey = "songs"

// LibraryStore owns the song collection. All owners share one persisted
// list under "songs"; the store keeps an in-memory visible set holding
// only the subset of the account it last loaded for. Owner email is a
// pure partition key here, the store never checks the account exists.
type LibraryStore struct {
	mu      sync.Mutex
	st      storage.Store
	visible []model.Song
}

// NewLibraryStore creates a LibraryStore over the given storage medium.
func NewLibraryStore(st storage.Store) *LibraryStore {
	return &LibraryStore{st: st}
}

// loadAll reads the full persisted collection, all owners interleaved.
// A missing or unparseable record reads as an empty collection.
func (s *LibraryStore) loadAll(ctx context.Context) ([]model.Song, error) {
	raw, ok, err := s.st.Get(ctx, songsKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read song collection: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var songs []model.Song
	if err := json.Unmarshal([]byte(raw), &songs); err != nil {
		logger.Warn("song collection is not valid JSON, treating as empty",
			logger.ErrorField(err))
		return nil, nil
	}
	return songs, nil
}

func (s *LibraryStore) saveAll(ctx context.Context, songs []model.Song) error {
	data, err := json.Marshal(songs)
	if err != nil {
		return fmt.Errorf("failed to encode song collection: %w", err)
	}
	if err := s.st.Set(ctx, songsKey, string(data)); err != nil {
		return fmt.Errorf("failed to persist song collection: %w", err)
	}
	return nil
}

// ownedBy returns the subset of songs owned by email, in storage order.
func ownedBy(songs []model.Song, email string) []model.Song {
	owned := make([]model.Song, 0, len(songs))
	for _, song := range songs {
		if song.OwnerEmail == email {
			owned = append(owned, song)
		}
	}
	return owned
}

// Create assigns song a fresh identifier, records ownerEmail as its
// owner and appends it to the persisted collection. The visible set is
// refreshed to the owner's subset. Field-level validation is the
// caller's job; the store accepts what it is given.
func (s *LibraryStore) Create(ctx context.Context, song model.Song, ownerEmail string) (model.Song, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	song.ID = uuid.NewString()
	song.OwnerEmail = ownerEmail

	songs, err := s.loadAll(ctx)
	if err != nil {
		return model.Song{}, err
	}
	songs = append(songs, song)
	if err := s.saveAll(ctx, songs); err != nil {
		return model.Song{}, err
	}
	s.visible = ownedBy(songs, ownerEmail)

	logger.Info("song created",
		logger.String("id", song.ID),
		logger.String("title", song.Title),
		logger.String("owner", ownerEmail))
	return song, nil
}

// Update replaces the persisted song whose identifier matches. It
// returns ErrSongNotFound if no song carries the identifier; all other
// songs are left untouched either way. The visible set is refreshed for
// the updated song's owner.
func (s *LibraryStore) Update(ctx context.Context, song model.Song) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	songs, err := s.loadAll(ctx)
	if err != nil {
		return err
	}
	found := false
	for i := range songs {
		if songs[i].ID == song.ID {
			songs[i] = song
			found = true
			break
		}
	}
	if !found {
		return ErrSongNotFound
	}
	if err := s.saveAll(ctx, songs); err != nil {
		return err
	}
	s.visible = ownedBy(songs, song.OwnerEmail)
	return nil
}

// Delete removes every persisted song with the given identifier (at
// most one in practice) and refreshes the visible set for ownerEmail.
// Deleting an identifier that is already gone is a no-op.
func (s *LibraryStore) Delete(ctx context.Context, id, ownerEmail string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	songs, err := s.loadAll(ctx)
	if err != nil {
		return err
	}
	kept := songs[:0]
	for _, song := range songs {
		if song.ID != id {
			kept = append(kept, song)
		}
	}
	if err := s.saveAll(ctx, kept); err != nil {
		return err
	}
	s.visible = ownedBy(kept, ownerEmail)
	return nil
}

// LoadForOwner reads the full collection and sets the visible set to
// exactly the songs owned by ownerEmail, in storage order. This is the
// only read path; it is a linear scan every call.
func (s *LibraryStore) LoadForOwner(ctx context.Context, ownerEmail string) ([]model.Song, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	songs, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	s.visible = ownedBy(songs, ownerEmail)

	out := make([]model.Song, len(s.visible))
	copy(out, s.visible)
	return out, nil
}

// Visible returns a copy of the in-memory visible set as of the last
// operation.
func (s *LibraryStore) Visible() []model.Song {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Song, len(s.visible))
	copy(out, s.visible)
	return out
}
