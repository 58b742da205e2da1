// Package keyring provides a KeyValueStore backed by the operating system's
// credential store (macOS Keychain, Secret Service, Windows Credential Manager).
// Each slot is one keyring item under a fixed service name.
package keyring

import (
	"context"
	"errors"
	"fmt"
	"strings"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/ericfisherdev/accountdesk/internal/domain/port/driven"
)

// DefaultService is the keyring service name used when none is configured.
const DefaultService = "accountdesk"

// Compile-time interface satisfaction check.
var _ driven.KeyValueStore = (*Store)(nil)

// Store keeps slots in the OS keyring.
type Store struct {
	service string
}

// NewStore returns a Store that files its items under service. An empty
// service falls back to DefaultService.
func NewStore(service string) *Store {
	if service == "" {
		service = DefaultService
	}
	return &Store{service: service}
}

// Get reads the keyring item for key. A missing item is not an error.
func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	val, err := gokeyring.Get(s.service, key)
	if errors.Is(err, gokeyring.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("keyring get %s/%s: %w", s.service, key, err)
	}
	// Windows cmdkey interleaves null bytes (UTF-16 leftovers).
	return strings.ReplaceAll(val, "\x00", ""), true, nil
}

// Set creates or replaces the keyring item for key.
func (s *Store) Set(_ context.Context, key, value string) error {
	if err := gokeyring.Set(s.service, key, value); err != nil {
		return fmt.Errorf("keyring set %s/%s: %w", s.service, key, err)
	}
	return nil
}
