package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a key or field has no value.
var ErrNotFound = errors.New("store: not found")

// Store is the field-addressed key/value surface the progress tracker runs
// against. Production uses Redis hashes; tests use the in-memory variant.
// Implementations must be safe for concurrent use.
type Store interface {
	GetField(ctx context.Context, key, field string) (string, error)
	SetField(ctx context.Context, key, field, value string) error
	DeleteKey(ctx context.Context, key string) error
	KeysByPrefix(ctx context.Context, prefix string) ([]string, error)
	Close() error
}
