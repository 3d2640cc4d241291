// Package store defines the key-value boundary every service persists
// through. Values are opaque byte slices holding JSON; the store has no
// schema awareness and callers own encoding and decoding. Each Write
// replaces the key's value atomically, so a reader never observes a
// partially written value.
package store

import "context"

// Collection keys used by the services. Each collection lives under a
// single key as one JSON document (array or object).
const (
	KeyUsers     = "users"
	KeySession   = "session"
	KeyProducts  = "products"
	KeyCartItems = "cart_items"
	KeyPurchases = "purchases"
)

// Store is the uniform persistence contract. Read returns (nil, nil)
// when the key is absent; absence is an expected state, not an error.
// Write replaces the value under key in a single atomic step. Remove
// is a no-op when the key does not exist.
type Store interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}
