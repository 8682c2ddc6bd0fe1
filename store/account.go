package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"tuneshelf/logger"
	"tuneshelf/model"
	"tuneshelf/storage"
)

// Storage keys owned by the account store.
const (
	usersKey       = "users"
	currentUserKey = "currentUser"
)

// AccountStore owns the registry of known accounts and the identity of
// the current one. The registry lives under "users" in the storage
// medium, the session snapshot under "currentUser"; both are rewritten
// whole on every change. A mutex serializes the read-check-then-write
// cycles so two registrations cannot interleave within the process.
type AccountStore struct {
	mu      sync.Mutex
	st      storage.Store
	current *model.User
}

// NewAccountStore creates an AccountStore over the given storage medium.
func NewAccountStore(st storage.Store) *AccountStore {
	return &AccountStore{st: st}
}

// loadUsers reads the full registry. A missing or unparseable record
// reads as an empty registry.
func (s *AccountStore) loadUsers(ctx context.Context) ([]model.User, error) {
	raw, ok, err := s.st.Get(ctx, usersKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read user registry: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var users []model.User
	if err := json.Unmarshal([]byte(raw), &users); err != nil {
		logger.Warn("user registry is not valid JSON, treating as empty",
			logger.ErrorField(err))
		return nil, nil
	}
	return users, nil
}

func (s *AccountStore) saveUsers(ctx context.Context, users []model.User) error {
	data, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("failed to encode user registry: %w", err)
	}
	if err := s.st.Set(ctx, usersKey, string(data)); err != nil {
		return fmt.Errorf("failed to persist user registry: %w", err)
	}
	return nil
}

func (s *AccountStore) saveCurrent(ctx context.Context, user model.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode current user: %w", err)
	}
	if err := s.st.Set(ctx, currentUserKey, string(data)); err != nil {
		return fmt.Errorf("failed to persist current user: %w", err)
	}
	return nil
}

// Register appends a new account to the registry and signs it in. It
// fails with ErrDuplicateAccount if the email is already registered;
// email comparison is case-sensitive, matching how emails are stored.
func (s *AccountStore) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.Email == email {
			return nil, ErrDuplicateAccount
		}
	}

	user := model.User{Name: name, Email: email, Password: password}
	if err := s.saveUsers(ctx, append(users, user)); err != nil {
		return nil, err
	}
	if err := s.saveCurrent(ctx, user); err != nil {
		return nil, err
	}
	s.current = &user

	logger.Info("account registered", logger.String("email", email))
	return &user, nil
}

// Authenticate scans the registry for an exact email and password match.
// On success the account becomes the current one and its snapshot is
// persisted; on failure any prior session is left untouched.
func (s *AccountStore) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.Email == email && u.Password == password {
			if err := s.saveCurrent(ctx, u); err != nil {
				return nil, err
			}
			matched := u
			s.current = &matched
			return &matched, nil
		}
	}
	return nil, ErrInvalidCredentials
}

// SignOut clears the session snapshot and the in-memory reference.
// Signing out with no session is a no-op.
func (s *AccountStore) SignOut(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.st.Remove(ctx, currentUserKey); err != nil {
		return fmt.Errorf("failed to clear current user: %w", err)
	}
	s.current = nil
	return nil
}

// RestoreSession reads the persisted session snapshot, if any, and
// populates the in-memory current account from it. Called once at
// startup. An unparseable snapshot reads as no session.
func (s *AccountStore) RestoreSession(ctx context.Context) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok, err := s.st.Get(ctx, currentUserKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read current user: %w", err)
	}
	if !ok {
		s.current = nil
		return nil, nil
	}
	var user model.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		logger.Warn("current user snapshot is not valid JSON, ignoring",
			logger.ErrorField(err))
		s.current = nil
		return nil, nil
	}
	s.current = &user
	return &user, nil
}

// Current returns the signed-in account, or nil if there is none.
func (s *AccountStore) Current() *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil
	}
	user := *s.current
	return &user
}
