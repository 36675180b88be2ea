// Package cache is the read-through cache in front of the catalog providers.
//
// Cache never returns an error to its callers: a store that fails to answer
// is a miss, and a store that fails to write is ignored. Whether a "not found"
// result is worth caching is decided by the caller, not here.
package cache

import (
	"context"
	"errors"
	"time"

	"cinelist/internal/config"
	"cinelist/internal/metrics"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
)

const (
	BackendRedis  = "redis"
	BackendMemory = "memory"
	BackendNone   = "none"
)

type Cache struct {
	store   Store
	backend string
	logger  *logrus.Logger
}

func New(store Store, backend string, logger *logrus.Logger) *Cache {
	if store == nil {
		store, backend = NoopStore{}, BackendNone
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Cache{store: store, backend: backend, logger: logger}
}

// Open picks the store described by cfg. A store that cannot be reached is
// replaced by NoopStore for the rest of the process; Open never fails.
func Open(ctx context.Context, cfg config.CacheConfig, logger *logrus.Logger) *Cache {
	if logger == nil {
		logger = logrus.New()
	}

	switch cfg.Backend {
	case BackendRedis:
		if cfg.RedisURL == "" {
			logger.Warn("REDIS_URL not set, cache disabled")
			break
		}
		store, err := NewRedisStore(ctx, cfg.RedisURL)
		if err != nil {
			logger.WithError(err).Warn("Failed to connect to Redis, cache disabled")
			break
		}
		logger.Info("Connection to Redis successful")
		return New(store, BackendRedis, logger)
	case BackendMemory:
		store, err := NewMemoryStore()
		if err != nil {
			logger.WithError(err).Warn("Failed to open in-memory cache, cache disabled")
			break
		}
		logger.Info("Using in-memory cache")
		return New(store, BackendMemory, logger)
	}

	return New(NoopStore{}, BackendNone, logger)
}

// Get decodes the entry stored under key into dst and reports whether it did.
func (c *Cache) Get(ctx context.Context, key string, dst any) bool {
	if c == nil {
		return false
	}

	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			metrics.CacheErrors.WithLabelValues("get").Inc()
			c.logger.WithError(err).WithField("key", key).Warn("Failed to read from cache")
		}
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return false
	}

	if err := json.Unmarshal(data, dst); err != nil {
		metrics.CacheErrors.WithLabelValues("decode").Inc()
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		c.logger.WithError(err).WithField("key", key).Warn("Failed to unmarshal cached value")
		return false
	}

	metrics.CacheLookups.WithLabelValues("hit").Inc()
	c.logger.WithField("key", key).Debug("Cache hit")
	return true
}

// Put stores value under key for ttl. Failures are logged and dropped.
func (c *Cache) Put(ctx context.Context, key string, value any, ttl time.Duration) {
	if c == nil || ttl <= 0 {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		metrics.CacheErrors.WithLabelValues("encode").Inc()
		c.logger.WithError(err).WithField("key", key).Warn("Failed to marshal value for caching")
		return
	}

	if err := c.store.Set(ctx, key, data, ttl); err != nil {
		metrics.CacheErrors.WithLabelValues("set").Inc()
		c.logger.WithError(err).WithField("key", key).Warn("Failed to write to cache")
		return
	}

	c.logger.WithFields(logrus.Fields{"key": key, "ttl": ttl}).Debug("Value cached")
}

// Backend names the active store: "redis", "memory" or "none".
func (c *Cache) Backend() string {
	if c == nil {
		return BackendNone
	}
	return c.backend
}

func (c *Cache) Close() {
	if c == nil {
		return
	}
	if err := c.store.Close(); err != nil {
		c.logger.WithError(err).Warn("Failed to close cache store")
		return
	}
	if c.backend != BackendNone {
		c.logger.Info("Cache connection closed")
	}
}
