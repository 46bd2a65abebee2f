// Package kvstore provides the key-value persistence capability used for
// wishlist and search-history state. Callers depend on the Store interface
// so the backing can be swapped without touching them.
package kvstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a key has no value.
var ErrNotFound = errors.New("key not found")

type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
