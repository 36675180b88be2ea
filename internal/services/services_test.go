package services

import (
	"context"
	"io"
	"testing"
	"time"

	"cinelist/internal/cache"
	"cinelist/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

const (
	testListTTL   = 10 * time.Minute
	testDetailTTL = time.Hour
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestCache(t *testing.T) (*cache.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	store, err := cache.NewRedisStore(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return cache.New(store, cache.BackendRedis, quietLogger()), mr
}

func testClientConfig(c *cache.Cache) ClientConfig {
	return ClientConfig{
		Upstream: config.UpstreamConfig{
			Timeout:   5 * time.Second,
			UserAgent: "CineList-test",
		},
		Cache:     c,
		ListTTL:   testListTTL,
		DetailTTL: testDetailTTL,
		Logger:    quietLogger(),
	}
}
