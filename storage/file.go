package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"tuneshelf/logger"
)

// FileStore keeps the whole key-value map in a single JSON document on
// disk and rewrites it on every mutation. It is the default medium for
// a single-machine library.
//
// A file that is missing or does not parse is treated as an empty map
// rather than an error, so a corrupted library degrades to a fresh one
// instead of wedging the application.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a FileStore backed by the JSON document at path.
// Nothing is written until the first Set.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) load() map[string]string {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return map[string]string{}
	}
	var entries map[string]string
	if err := json.Unmarshal(data, &entries); err != nil {
		logger.Warn("storage file is not valid JSON, starting empty",
			logger.String("path", s.path), logger.ErrorField(err))
		return map[string]string{}
	}
	if entries == nil {
		entries = map[string]string{}
	}
	return entries
}

func (s *FileStore) save(entries map[string]string) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode storage file: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create storage directory: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write storage file: %w", err)
	}
	return nil
}

// Get returns the value stored under key, reading the file fresh each
// call so external edits are picked up.
func (s *FileStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.load()[key]
	return value, ok, nil
}

// Set stores value under key and rewrites the whole document.
func (s *FileStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.load()
	entries[key] = value
	return s.save(entries)
}

// Remove deletes key. Removing an absent key is a no-op.
func (s *FileStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.load()
	if _, ok := entries[key]; !ok {
		return nil
	}
	delete(entries, key)
	return s.save(entries)
}

// Close is a no-op; the file is not held open between operations.
func (s *FileStore) Close() error { return nil }
