package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryStore_RoundTrip(t *testing.T) {
	store, err := NewMemoryStore()
	require.NoError(t, err)
	defer store.Close()

	c := New(store, BackendMemory, quietLogger())
	ctx := context.Background()

	want := entry{ID: 21, Title: "One Piece", Tags: []string{"Action", "Adventure"}}
	c.Put(ctx, "anilist:detail:anime:21", want, time.Hour)

	var got entry
	require.True(t, c.Get(ctx, "anilist:detail:anime:21", &got))
	require.Equal(t, want, got)

	_, err = store.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrMiss)
}

func TestMemoryStore_Expiry(t *testing.T) {
	if testing.Short() {
		t.Skip("waits for a TTL to elapse")
	}

	store, err := NewMemoryStore()
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "short", []byte(`"v"`), time.Second))

	got, err := store.Get(ctx, "short")
	require.NoError(t, err)
	require.Equal(t, []byte(`"v"`), got)

	time.Sleep(2100 * time.Millisecond)
	_, err = store.Get(ctx, "short")
	require.ErrorIs(t, err, ErrMiss)
}

func TestMemoryStore_SubSecondTTL(t *testing.T) {
	store, err := NewMemoryStore()
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	for i := 0; i < 20; i++ {
		key := fmt.Sprintf("k%d", i)
		require.NoError(t, store.Set(ctx, key, []byte(`"v"`), 900*time.Millisecond))

		got, err := store.Get(ctx, key)
		require.NoError(t, err, "round %d", i)
		require.Equal(t, []byte(`"v"`), got)
	}
}

func TestExpiresAt_NeverBeforeTTL(t *testing.T) {
	for _, tc := range []struct {
		now time.Time
		ttl time.Duration
	}{
		{time.Unix(10, 950_000_000), 900 * time.Millisecond},
		{time.Unix(10, 950_000_000), time.Second},
		{time.Unix(10, 0), 1500 * time.Millisecond},
		{time.Unix(10, 0), time.Hour},
	} {
		deadline := tc.now.Add(tc.ttl)
		// last instant still inside the TTL must not count as expired
		last := deadline.Add(-time.Nanosecond)
		require.Greater(t, expiresAt(tc.now, tc.ttl), uint64(last.Unix()), "now=%v ttl=%v", tc.now, tc.ttl)
	}
}
