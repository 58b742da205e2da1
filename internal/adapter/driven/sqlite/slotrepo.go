package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ericfisherdev/accountdesk/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.KeyValueStore = (*SlotRepo)(nil)

// SlotRepo is the SQLite implementation of the KeyValueStore port interface.
// Each key is one row in storage_slots; Set replaces the row in full.
type SlotRepo struct {
	db *DB
}

// NewSlotRepo creates a new SlotRepo backed by the given DB.
func NewSlotRepo(db *DB) *SlotRepo {
	return &SlotRepo{db: db}
}

// Get retrieves the value stored under key. Returns ("", false, nil) if the
// slot has never been written.
func (r *SlotRepo) Get(ctx context.Context, key string) (string, bool, error) {
	const query = `SELECT value FROM storage_slots WHERE key = ?`

	var value string
	err := r.db.Reader.QueryRowContext(ctx, query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get slot %q: %w", key, err)
	}
	return value, true, nil
}

// Set stores or replaces the value under key.
func (r *SlotRepo) Set(ctx context.Context, key, value string) error {
	const query = `INSERT OR REPLACE INTO storage_slots (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)`

	if _, err := r.db.Writer.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("set slot %q: %w", key, err)
	}
	return nil
}
