// Package store remembers which inbound messages have already been handled,
// so repeated syncs only report new ones.
package store

import (
	"fmt"
	"strings"
	"time"
)

// Store is a TTL-bounded set of message ids.
type Store interface {
	Seen(id string) (bool, error)
	Mark(id string) error
	Close() error
}

// Options controls retention.
type Options struct {
	TTL             time.Duration
	CleanupInterval time.Duration
}

const (
	defaultTTL             = 30 * 24 * time.Hour
	defaultCleanupInterval = 24 * time.Hour
)

// Backend names accepted by Open.
const (
	BackendNone  = "none"
	BackendBbolt = "bbolt"
)

// Open creates the configured backend. An empty backend disables the store.
func Open(backend, path string, opts Options) (Store, error) {
	backend = strings.ToLower(strings.TrimSpace(backend))
	opts = normalizeOptions(opts)

	switch backend {
	case "", BackendNone:
		return noopStore{}, nil
	case BackendBbolt:
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("%w: bbolt store requires a path", ErrInvalidBackend)
		}
		s, err := openBolt(path, opts, time.Now)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidBackend, backend)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.TTL <= 0 {
		opts.TTL = defaultTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Seen(string) (bool, error) { return false, nil }
func (noopStore) Mark(string) error         { return nil }
func (noopStore) Close() error              { return nil }
