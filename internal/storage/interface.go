package storage

import (
	"context"
	"errors"
)

// ErrCorrupt is returned when stored session data cannot be decoded
var ErrCorrupt = errors.New("corrupt session file")

// Storage is the key/value store backing a client session.
// Multi-key writes and removals are all-or-nothing: no caller can observe
// a partially applied SetItems or RemoveItems.
type Storage interface {
	// GetItem returns the value stored under key and whether it was present
	GetItem(ctx context.Context, key string) (string, bool, error)
	// SetItems writes every key in items
	SetItems(ctx context.Context, items map[string]string) error
	// RemoveItems deletes the given keys; missing keys are ignored
	RemoveItems(ctx context.Context, keys ...string) error
}
