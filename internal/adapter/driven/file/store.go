// Package file provides a KeyValueStore that keeps each slot in its own file
// under a data directory. Writes replace the file atomically, so a crash
// leaves either the previous snapshot or the new one.
package file

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/natefinch/atomic"

	"github.com/ericfisherdev/accountdesk/internal/domain/port/driven"
)

const slotExt = ".json"

// Compile-time interface satisfaction check.
var _ driven.KeyValueStore = (*Store)(nil)

// Store is a directory of slot files.
type Store struct {
	dir string
	mu  sync.Mutex
}

// NewStore returns a Store rooted at dir, creating the directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Get reads the slot file for key. A missing file is not an error.
func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read slot %q: %w", key, err)
	}
	return string(b), true, nil
}

// Set replaces the slot file for key with value.
func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// New slot files keep the 0600 mode of atomic's temp file; replaced ones
	// keep their existing mode.
	if err := atomic.WriteFile(s.path(key), strings.NewReader(value)); err != nil {
		return fmt.Errorf("write slot %q: %w", key, err)
	}
	return nil
}

// path maps key to a file name inside dir. Keys are escaped so they can never
// name a file outside the directory.
func (s *Store) path(key string) string {
	return filepath.Join(s.dir, url.PathEscape(key)+slotExt)
}
