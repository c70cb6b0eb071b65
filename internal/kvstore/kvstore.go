// Package kvstore provides the durable key-value storage the persistence
// codec writes session state into. Implementations must be safe for
// concurrent use.
package kvstore

import "context"

type Store interface {
	// Get returns the stored value and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
