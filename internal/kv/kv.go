// Package kv provides the key-value persistence layer. Collections are stored
// as JSON blobs under fixed string keys; the backend only needs an atomic
// put-by-key primitive.
package kv

import "context"

// Store is the storage boundary: get-by-key returning the value or absence,
// and an atomic set-by-key. Implementations must be safe for use from
// multiple goroutines.
type Store interface {
	// Get returns the value stored under key, and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	// Put overwrites the value stored under key. The write is atomic per key.
	Put(ctx context.Context, key, value string) error
	Close() error
}
