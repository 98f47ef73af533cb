// Package kv persists opaque values by string key in the local SQLite store.
package kv

import "context"

// Repository is a flat key/value table. Get returns (nil, nil) for a missing
// key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}

// Transactor runs fn against a repository bound to a single transaction.
type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context, repo Repository) error) error
}
