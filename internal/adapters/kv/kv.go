// Package kv is the durable key-value capability behind the local history and
// gains cache. Every backend enforces a quota on the total size of stored
// values and reports ErrQuotaExceeded when a write would exceed it.
package kv

import (
	"context"
	"fmt"
	"strings"
)

// DefaultQuotaBytes mirrors the storage budget of a browser origin.
const DefaultQuotaBytes int64 = 5 << 20

// Store is a small transactional key-value store.
type Store interface {
	// Get returns the value for key and whether it exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Put replaces the value for key. A rejected write leaves the old value.
	Put(ctx context.Context, key string, value []byte) error
	// Delete removes all keys in one transaction.
	Delete(ctx context.Context, keys ...string) error
	// Usage returns the total size of stored values in bytes.
	Usage(ctx context.Context) (int64, error)
	Close() error
}

// Open creates the store named by backend ("memory", "bolt" or "sqlite").
func Open(backend, path string, opts ...Option) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "memory", "mem":
		return NewMemory(opts...), nil
	case "bolt", "bbolt", "":
		return OpenBolt(path, opts...)
	case "sqlite", "sqlite3":
		return OpenSQLite(path, opts...)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, backend)
	}
}

// checkQuota reports ErrQuotaExceeded when replacing a value of oldSize with
// one of newSize would push usage past quota. A non-positive quota disables
// the check.
func checkQuota(quota, usage int64, oldSize, newSize int) error {
	if quota <= 0 {
		return nil
	}
	next := usage - int64(oldSize) + int64(newSize)
	if next > quota && newSize > oldSize {
		return fmt.Errorf("%w: %d of %d bytes", ErrQuotaExceeded, next, quota)
	}
	return nil
}

func validKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	return nil
}
