// Package localstore provides the key/value substrate behind persisted record
// stores: string keys to string values, with an optional size quota.
package localstore

import (
	"context"
	"errors"
)

var (
	// ErrQuotaExceeded is returned by SetItem when the write would push the
	// substrate past its byte quota.
	ErrQuotaExceeded = errors.New("storage quota exceeded")

	// ErrCorrupt indicates a stored value could not be decoded.
	ErrCorrupt = errors.New("corrupt stored value")
)

// Storage is a string key/value store. Individual calls are serialized by
// the implementation.
type Storage interface {
	// GetItem returns the value for key and whether it exists.
	GetItem(ctx context.Context, key string) (string, bool, error)
	// SetItem stores value under key. May fail with ErrQuotaExceeded.
	SetItem(ctx context.Context, key, value string) error
	// RemoveItem deletes key. Removing a missing key is not an error.
	RemoveItem(ctx context.Context, key string) error
}

// itemSize is the number of bytes a key/value pair counts against a quota.
func itemSize(key, value string) int64 {
	return int64(len(key) + len(value))
}
