// Package memory provides an in-memory KeyValueStore for tests and
// throwaway sessions. Nothing survives process exit.
package memory

import (
	"context"
	"sync"

	"github.com/ericfisherdev/accountdesk/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.KeyValueStore = (*Store)(nil)

// Store is a mutex-protected map of storage slots.
type Store struct {
	mu    sync.RWMutex
	slots map[string]string
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{slots: make(map[string]string)}
}

// Get returns the value stored under key.
func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.slots[key]
	return v, ok, nil
}

// Set replaces the value stored under key.
func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[key] = value
	return nil
}
