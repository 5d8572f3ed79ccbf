package memory

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/kailas-cloud/circuitdex/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Config sizes the in-process cache.
type Config struct {
	// MaxBytes bounds the total size of stored values.
	MaxBytes int64
	// MaxItems is the expected number of live keys; counters are sized at 10x.
	MaxItems int64
}

// Store implements db.Store on top of a ristretto cache.
// Writes are applied before Set returns, so a Get that follows sees them
// unless the admission policy rejected the value.
type Store struct {
	cache  *ristretto.Cache[string, []byte]
	closed atomic.Bool
}

// NewStore creates an in-process store.
func NewStore(cfg Config) (*Store, error) {
	if cfg.MaxBytes <= 0 {
		return nil, fmt.Errorf("max bytes must be positive")
	}
	if cfg.MaxItems <= 0 {
		return nil, fmt.Errorf("max items must be positive")
	}

	cache, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: cfg.MaxItems * 10,
		MaxCost:     cfg.MaxBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create ristretto cache: %w", err)
	}
	return &Store{cache: cache}, nil
}

// Ping reports ErrClosed after Close.
func (s *Store) Ping(_ context.Context) error {
	if s.closed.Load() {
		return &db.Error{Op: db.OpPing, Err: db.ErrClosed}
	}
	return nil
}

// Close releases the cache. Further calls fail with ErrClosed.
func (s *Store) Close() {
	if s.closed.CompareAndSwap(false, true) {
		s.cache.Close()
	}
}

// WaitForReady returns immediately: an open in-process store is always ready.
func (s *Store) WaitForReady(ctx context.Context, _ time.Duration) error {
	return s.Ping(ctx)
}

// Get retrieves a copy of the value stored at key.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	if s.closed.Load() {
		return nil, &db.Error{Op: db.OpGet, Err: db.ErrClosed}
	}
	v, ok := s.cache.Get(key)
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

// Set stores value at key without expiration.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	return s.SetWithTTL(ctx, key, value, 0)
}

// SetWithTTL stores value at key. A ttl of 0 keeps the entry until evicted.
func (s *Store) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if s.closed.Load() {
		return &db.Error{Op: db.OpSet, Err: db.ErrClosed}
	}
	if ttl < 0 {
		return &db.Error{Op: db.OpSet, Err: fmt.Errorf("negative ttl %s", ttl)}
	}
	v := make([]byte, len(value))
	copy(v, value)
	cost := int64(len(v))
	if cost == 0 {
		cost = 1
	}
	s.cache.SetWithTTL(key, v, cost, ttl)
	s.cache.Wait()
	return nil
}

// Del removes key. Missing keys are not an error.
func (s *Store) Del(_ context.Context, key string) error {
	if s.closed.Load() {
		return &db.Error{Op: db.OpDel, Err: db.ErrClosed}
	}
	s.cache.Del(key)
	return nil
}
