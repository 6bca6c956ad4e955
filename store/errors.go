package store

import "errors"

var (
	// ErrInvalidBackend is returned for unknown or misconfigured backends.
	ErrInvalidBackend = errors.New("invalid store backend")
	// ErrClosed is returned by operations on a closed store.
	ErrClosed = errors.New("store is closed")
)
