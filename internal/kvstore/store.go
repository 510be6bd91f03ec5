package kvstore

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrNotFound is returned when a key does not exist in the store.
var ErrNotFound = errors.New("key not found")

// Entry is a single key/value pair returned by prefix scans.
type Entry struct {
	Key   string
	Value json.RawMessage
}

// Store persists JSON documents under string keys and supports prefix scans.
// The store does not interpret keys; multi-tenant isolation is achieved only
// through the user key prefix supplied by callers.
type Store interface {
	// Get unmarshals the document stored at key into out.
	Get(ctx context.Context, key string, out any) error
	// Put marshals value as JSON and upserts it at key.
	Put(ctx context.Context, key string, value any) error
	// Delete removes the document at key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// List returns all entries whose key starts with prefix, in key order.
	List(ctx context.Context, prefix string) ([]Entry, error)
	// Count returns the number of keys starting with prefix.
	Count(ctx context.Context, prefix string) (int, error)
}
