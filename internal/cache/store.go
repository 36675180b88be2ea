package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by a Store when the key is absent or expired.
var ErrMiss = errors.New("cache: miss")

// Store is a string-keyed byte store with per-entry expiry.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close() error
}

// NoopStore never holds anything. It backs the façade when no store is
// configured or the configured one was unreachable at start.
type NoopStore struct{}

func (NoopStore) Get(context.Context, string) ([]byte, error) { return nil, ErrMiss }

func (NoopStore) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (NoopStore) Close() error { return nil }
