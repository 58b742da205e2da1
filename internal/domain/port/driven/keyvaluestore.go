package driven

import "context"

// KeyValueStore defines the driven port for durable string-keyed storage
// slots. Each Set overwrites the slot in full; there are no partial writes.
type KeyValueStore interface {
	// Get returns the value stored under key. ok is false when the slot has
	// never been written.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
}
