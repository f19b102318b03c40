// Package storage holds the key/value backends behind the selection store.
package storage

import (
	"context"
	"errors"
)

var (
	ErrNotFound      = errors.New("key not found")
	ErrQuotaExceeded = errors.New("storage quota exceeded")
	ErrUnavailable   = errors.New("storage unavailable")
)

// Backend is a minimal string-keyed byte store, shaped after the browser
// Storage API (setItem/getItem/removeItem).
type Backend interface {
	SetItem(ctx context.Context, key string, value []byte) error
	// GetItem returns ErrNotFound when the key is missing.
	GetItem(ctx context.Context, key string) ([]byte, error)
	RemoveItem(ctx context.Context, key string) error
	Name() string
}
