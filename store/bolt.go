package store

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

var seenBucket = []byte("inbounds")

// boltStore keeps ids in a single bucket with the expiry as the value.
type boltStore struct {
	db  *bolt.DB
	ttl time.Duration
	now func() time.Time

	cleanupInterval time.Duration
	mu              sync.Mutex
	lastCleanup     time.Time
	closed          bool
}

func openBolt(path string, opts Options, now func() time.Time) (*boltStore, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(seenBucket)
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}

	return &boltStore{
		db:              db,
		ttl:             opts.TTL,
		now:             now,
		cleanupInterval: opts.CleanupInterval,
		lastCleanup:     now(),
	}, nil
}

// Seen reports whether id was marked and has not expired. Expired entries
// are removed on lookup.
func (b *boltStore) Seen(id string) (bool, error) {
	now := b.now()
	if err := b.maybeCleanup(now); err != nil {
		return false, err
	}

	var seen bool
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(seenBucket)
		value := bucket.Get([]byte(id))
		if value == nil {
			return nil
		}
		if expiry, ok := decodeExpiry(value); ok && expiry.After(now) {
			seen = true
			return nil
		}
		return bucket.Delete([]byte(id))
	})
	if err != nil {
		return false, fmt.Errorf("failed to look up %s: %w", id, err)
	}
	return seen, nil
}

// Mark records id as seen until the TTL elapses.
func (b *boltStore) Mark(id string) error {
	now := b.now()
	if err := b.maybeCleanup(now); err != nil {
		return err
	}

	value := make([]byte, 8)
	binary.BigEndian.PutUint64(value, uint64(now.Add(b.ttl).Unix()))

	err := b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(seenBucket).Put([]byte(id), value)
	})
	if err != nil {
		return fmt.Errorf("failed to mark %s: %w", id, err)
	}
	return nil
}

// Close closes the database. Calling it twice is a no-op.
func (b *boltStore) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	return b.db.Close()
}

// maybeCleanup sweeps expired entries at most once per cleanup interval.
func (b *boltStore) maybeCleanup(now time.Time) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrClosed
	}
	if now.Sub(b.lastCleanup) < b.cleanupInterval {
		return nil
	}

	err := b.db.Update(func(tx *bolt.Tx) error {
		c := tx.Bucket(seenBucket).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			if expiry, ok := decodeExpiry(v); !ok || !expiry.After(now) {
				if err := c.Delete(); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to remove expired entries: %w", err)
	}
	b.lastCleanup = now
	return nil
}

// count returns the number of stored entries, expired or not.
func (b *boltStore) count() (int, error) {
	n := 0
	err := b.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket(seenBucket).Stats().KeyN
		return nil
	})
	return n, err
}

func decodeExpiry(value []byte) (time.Time, bool) {
	if len(value) != 8 {
		return time.Time{}, false
	}
	unix := int64(binary.BigEndian.Uint64(value))
	if unix <= 0 {
		return time.Time{}, false
	}
	return time.Unix(unix, 0), true
}
