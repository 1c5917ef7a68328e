// Package kv defines the small JSON key-value store used for view state
// and other per-user settings.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned (wrapped) by Get on a missing key.
var ErrNotFound = errors.New("kv: key not found")

// KV is the interface for a persistent key-value store.
// Keys are strings, values are JSON-serializable.
type KV interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
	Has(ctx context.Context, key string) (bool, error)
	ListKeys(ctx context.Context) ([]string, error)
}
