package kv

import "errors"

// Sentinel errors for key-value stores.
var (
	ErrQuotaExceeded = errors.New("storage quota exceeded")
	ErrClosed        = errors.New("store is closed")
	ErrInvalidKey    = errors.New("key is required")
	ErrUnknownDriver = errors.New("unknown storage backend")
)
