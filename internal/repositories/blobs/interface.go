package blobs

import "context"

// Store is a set of named byte slots.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetAll(ctx context.Context, items map[string][]byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
