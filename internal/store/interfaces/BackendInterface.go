package interfaces

import "context"

// BackendInterface is a flat key/value space. Get returns an error wrapping
// store.ErrNotFound for absent keys. List returns keys with the given prefix
// in lexical order.
type BackendInterface interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]string, error)
	Restore() error
	Persist() error
	Close() error
}
