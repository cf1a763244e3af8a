package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCacheDisabledNeverStores(t *testing.T) {
	c, err := New(Config{})
	require.NoError(t, err)

	c.Set("k", "v")
	_, ok := c.Get("k")
	require.False(t, ok)
	require.Equal(t, 0, c.Len())

	c.Close()
}

func TestCacheSetGetRoundTrip(t *testing.T) {
	c, err := New(Config{MaxEntries: 10, EnableLRU: true, DefaultTTL: time.Minute})
	require.NoError(t, err)
	defer c.Close()

	c.Set("k", 42)
	v, ok := c.Get("k")
	require.True(t, ok)
	require.Equal(t, 42, v)

	_, ok = c.Get("missing")
	require.False(t, ok)

	stats := c.Stats()
	require.Equal(t, uint64(1), stats.Hits)
	require.Equal(t, uint64(1), stats.Misses)
	require.Equal(t, 0.5, stats.HitRate)
	require.Equal(t, 1, stats.CurrentSize)
}

func TestCacheStatsHitRateZeroWhenUnused(t *testing.T) {
	c, err := New(DefaultConfig)
	require.NoError(t, err)
	defer c.Close()

	require.Equal(t, 0.0, c.Stats().HitRate)
}

func TestCacheInvalidateRemovesEntry(t *testing.T) {
	c, err := New(Config{MaxEntries: 10, EnableLRU: true, DefaultTTL: time.Minute})
	require.NoError(t, err)
	defer c.Close()

	c.Set("k", "v")
	c.Invalidate("k")
	_, ok := c.Get("k")
	require.False(t, ok)
}

func TestCacheTTLExpiryOnGet(t *testing.T) {
	c, err := New(Config{MaxEntries: 10, EnableLRU: true})
	require.NoError(t, err)
	defer c.Close()

	c.SetTTL("k", "v", 10*time.Millisecond)
	_, ok := c.Get("k")
	require.True(t, ok)

	time.Sleep(30 * time.Millisecond)
	_, ok = c.Get("k")
	require.False(t, ok)
	require.Equal(t, uint64(1), c.Stats().ExpiredRemovals)
	require.Equal(t, uint64(0), c.Stats().Evictions)
}

func TestCacheZeroTTLNeverExpires(t *testing.T) {
	c, err := New(Config{MaxEntries: 10, EnableLRU: true})
	require.NoError(t, err)
	defer c.Close()

	c.SetTTL("k", "v", 0)
	time.Sleep(20 * time.Millisecond)
	v, ok := c.Get("k")
	require.True(t, ok)
	require.Equal(t, "v", v)
}

func TestCacheLRUEvictsOldestOnOverflow(t *testing.T) {
	c, err := New(Config{MaxEntries: 2, EnableLRU: true, DefaultTTL: time.Minute})
	require.NoError(t, err)
	defer c.Close()

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	require.Equal(t, 2, c.Len())
	_, ok := c.Get("a")
	require.False(t, ok, "oldest entry should have been evicted")

	stats := c.Stats()
	require.Equal(t, uint64(1), stats.Evictions)
	require.Equal(t, uint64(0), stats.ExpiredRemovals)
	require.True(t, stats.MaxSizeReached)
}

func TestCacheLRURefreshesRecencyOnGet(t *testing.T) {
	c, err := New(Config{MaxEntries: 2, EnableLRU: true, DefaultTTL: time.Minute})
	require.NoError(t, err)
	defer c.Close()

	c.Set("a", 1)
	c.Set("b", 2)
	_, ok := c.Get("a")
	require.True(t, ok)

	c.Set("c", 3)

	_, ok = c.Get("b")
	require.False(t, ok, "b should be evicted: it is now the least recently used")
	_, ok = c.Get("a")
	require.True(t, ok)
	_, ok = c.Get("c")
	require.True(t, ok)
}

func TestCacheWithoutLRUIsUnbounded(t *testing.T) {
	c, err := New(Config{MaxEntries: 2, EnableLRU: false, DefaultTTL: time.Minute})
	require.NoError(t, err)
	defer c.Close()

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	require.Equal(t, 3, c.Len())
	for _, k := range []string{"a", "b", "c"} {
		_, ok := c.Get(k)
		require.True(t, ok, "key %s should still be present without LRU bounding", k)
	}
	require.Equal(t, uint64(0), c.Stats().Evictions)
}

func TestCacheCleanupSweepRemovesExpiredInBackground(t *testing.T) {
	c, err := New(Config{MaxEntries: 10, EnableLRU: true, CleanupInterval: 10 * time.Millisecond})
	require.NoError(t, err)
	defer c.Close()

	c.SetTTL("k", "v", 5*time.Millisecond)
	require.Equal(t, 1, c.Len())

	require.Eventually(t, func() bool {
		return c.Len() == 0
	}, 200*time.Millisecond, 5*time.Millisecond)

	require.Equal(t, uint64(1), c.Stats().ExpiredRemovals)
}

func TestCacheCloseIsIdempotent(t *testing.T) {
	c, err := New(Config{MaxEntries: 10, EnableLRU: true, CleanupInterval: 5 * time.Millisecond})
	require.NoError(t, err)

	c.Close()
	require.NotPanics(t, c.Close)
}

func TestDefaultConfigMatchesDocumentedValues(t *testing.T) {
	require.Equal(t, 5000, DefaultConfig.MaxEntries)
	require.Equal(t, 30*time.Second, DefaultConfig.DefaultTTL)
	require.Equal(t, 60*time.Second, DefaultConfig.CleanupInterval)
	require.True(t, DefaultConfig.EnableLRU)
}
