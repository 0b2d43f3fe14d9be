// Package blob provides byte storage for cached price series and run
// reports, backed by the local filesystem or an S3-compatible service.
package blob

import "context"

// Store is a flat key/value byte store
type Store interface {
	// Put stores data under the given key
	Put(ctx context.Context, key string, data []byte) error

	// Get retrieves the data stored under the key
	Get(ctx context.Context, key string) ([]byte, error)

	// Exists reports whether a key is present
	Exists(ctx context.Context, key string) (bool, error)

	// Keys returns all keys matching the prefix
	Keys(ctx context.Context, prefix string) ([]string, error)
}
