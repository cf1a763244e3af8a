// Package cache implements the TTL+LRU response cache rpcclient.Client
// uses for RPC results that are immutable once observed (blocks,
// transactions, contract state) or cheap to serve slightly stale
// (balances, version, validators).
package cache

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Config configures a Cache; a non-positive MaxEntries with EnableLRU
// unset disables caching entirely. Every field is YAML-taggable so an
// operator can tune cache sizing from a config file alongside the rest
// of Options.
type Config struct {
	// MaxEntries bounds the cache when EnableLRU is set, evicting the
	// least-recently-used entry on overflow.
	MaxEntries int `yaml:"max_entries"`
	// DefaultTTL is how long an entry stays valid after being Set with
	// no explicit override; zero means entries never expire on their
	// own (only LRU eviction removes them).
	DefaultTTL time.Duration `yaml:"default_ttl"`
	// CleanupInterval is how often the background sweep scans for and
	// removes expired entries; zero disables the sweep, leaving expiry
	// to be caught lazily on the next Get of that key.
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
	// EnableLRU bounds the cache at MaxEntries; disabling it drops the
	// size bound and keeps only TTL-based expiry.
	EnableLRU bool `yaml:"enable_lru"`
}

// DefaultConfig is a reasonable default for a long-lived Client: up to
// 5000 entries, a 30 second default TTL, a minute between cleanup
// sweeps, LRU eviction enabled. Individual call sites in
// rpcclient.Client override DefaultTTL per method via SetTTL.
var DefaultConfig = Config{
	MaxEntries:      5000,
	DefaultTTL:      30 * time.Second,
	CleanupInterval: 60 * time.Second,
	EnableLRU:       true,
}

type entry struct {
	value interface{}
	setAt time.Time
	ttl   time.Duration
}

func (e entry) expired(now time.Time) bool {
	return e.ttl > 0 && now.Sub(e.setAt) > e.ttl
}

// Cache is a thread-safe TTL+LRU cache keyed by an opaque string (the
// caller's choice — rpcclient.Client keys by method+params). With
// EnableLRU set it bounds itself at MaxEntries; otherwise every key is
// kept until it expires or is explicitly invalidated, and a
// CleanupInterval sweep is the only thing bounding memory.
type Cache struct {
	mu sync.Mutex

	lru     *lru.Cache[string, entry]
	entries map[string]entry

	defaultTTL time.Duration
	maxEntries int

	hits, misses, evictions, expiredRemovals uint64
	maxSizeReached                           bool
	expiring                                 bool

	metrics *Metrics

	done      chan struct{}
	closeOnce sync.Once
	sweepWG   sync.WaitGroup
}

// New builds a Cache from cfg. A Cache with no backing store (MaxEntries
// <= 0 and EnableLRU unset) never stores anything — Get always misses —
// which callers use to disable caching without special-casing call
// sites.
func New(cfg Config) (*Cache, error) {
	c := &Cache{
		defaultTTL: cfg.DefaultTTL,
		maxEntries: cfg.MaxEntries,
		done:       make(chan struct{}),
	}
	switch {
	case cfg.EnableLRU && cfg.MaxEntries > 0:
		l, err := lru.NewWithEvict[string, entry](cfg.MaxEntries, c.onEvicted)
		if err != nil {
			return nil, err
		}
		c.lru = l
	case !cfg.EnableLRU && cfg.MaxEntries > 0:
		c.entries = make(map[string]entry)
	default:
		return c, nil
	}
	if cfg.CleanupInterval > 0 {
		c.sweepWG.Add(1)
		go c.cleanupLoop(cfg.CleanupInterval)
	}
	return c, nil
}

// onEvicted is the hashicorp lru.Cache eviction callback: it fires for
// every removal, not only capacity-driven ones, so Get and the cleanup
// sweep set c.expiring around their own explicit removals to steer the
// count into expiredRemovals instead of evictions.
func (c *Cache) onEvicted(_ string, _ entry) {
	if c.expiring {
		c.expiredRemovals++
		if c.metrics != nil {
			c.metrics.expiredRemovals.Inc()
		}
		return
	}
	c.evictions++
	if c.metrics != nil {
		c.metrics.evictions.Inc()
	}
}

func (c *Cache) active() bool {
	return c.lru != nil || c.entries != nil
}

// Get returns the cached value for key and true if present and not
// expired.
func (c *Cache) Get(key string) (interface{}, bool) {
	if !c.active() {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.lookup(key)
	if !ok {
		c.recordMiss()
		return nil, false
	}
	if e.expired(time.Now()) {
		c.expiring = true
		c.remove(key)
		c.expiring = false
		c.recordMiss()
		return nil, false
	}
	c.recordHit()
	return e.value, true
}

func (c *Cache) lookup(key string) (entry, bool) {
	if c.lru != nil {
		return c.lru.Get(key)
	}
	e, ok := c.entries[key]
	return e, ok
}

func (c *Cache) remove(key string) {
	if c.lru != nil {
		c.lru.Remove(key)
		return
	}
	delete(c.entries, key)
}

// Set stores value under key with the cache's DefaultTTL, evicting the
// least-recently-used entry if EnableLRU is set and the cache is at
// capacity.
func (c *Cache) Set(key string, value interface{}) {
	c.SetTTL(key, value, c.defaultTTL)
}

// SetTTL stores value under key with an explicit TTL override, letting
// callers differentiate how long immutable results (blocks, confirmed
// transactions) stay cached from results that go stale quickly
// (balances, contract state).
func (c *Cache) SetTTL(key string, value interface{}, ttl time.Duration) {
	if !c.active() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	e := entry{value: value, setAt: time.Now(), ttl: ttl}
	if c.lru != nil {
		c.lru.Add(key, e)
		if c.lru.Len() >= c.maxEntries {
			c.maxSizeReached = true
		}
		return
	}
	c.entries[key] = e
}

// Invalidate removes key from the cache, used after a state-changing
// call (e.g. sendrawtransaction) whose effects would otherwise be
// masked by a stale cached read.
func (c *Cache) Invalidate(key string) {
	if !c.active() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remove(key)
}

// Len returns the current entry count.
func (c *Cache) Len() int {
	if !c.active() {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size()
}

func (c *Cache) size() int {
	if c.lru != nil {
		return c.lru.Len()
	}
	return len(c.entries)
}

// Stats is a point-in-time snapshot of a Cache's cumulative counters.
type Stats struct {
	Hits, Misses               uint64
	Evictions, ExpiredRemovals uint64
	CurrentSize                int
	MaxSizeReached             bool
	HitRate                    float64
}

// Stats reports the cache's cumulative counters: hits and misses,
// entries evicted by the LRU policy, entries removed for having
// expired, the current entry count, whether MaxEntries has ever been
// reached, and the overall hit rate (zero until the cache has served
// at least one request).
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := Stats{
		Hits:            c.hits,
		Misses:          c.misses,
		Evictions:       c.evictions,
		ExpiredRemovals: c.expiredRemovals,
		CurrentSize:     c.size(),
		MaxSizeReached:  c.maxSizeReached,
	}
	if total := s.Hits + s.Misses; total > 0 {
		s.HitRate = float64(s.Hits) / float64(total)
	}
	return s
}

func (c *Cache) recordHit() {
	c.hits++
	if c.metrics != nil {
		c.metrics.hits.Inc()
	}
}

func (c *Cache) recordMiss() {
	c.misses++
	if c.metrics != nil {
		c.metrics.misses.Inc()
	}
}

// cleanupLoop removes expired entries on a CleanupInterval tick,
// acquiring the exclusive lock only for the duration of each scan, not
// across ticks.
func (c *Cache) cleanupLoop(interval time.Duration) {
	defer c.sweepWG.Done()
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-t.C:
			c.sweep()
		}
	}
}

func (c *Cache) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	c.expiring = true
	defer func() { c.expiring = false }()
	if c.lru != nil {
		for _, key := range c.lru.Keys() {
			e, ok := c.lru.Peek(key)
			if ok && e.expired(now) {
				c.lru.Remove(key)
			}
		}
		return
	}
	for key, e := range c.entries {
		if e.expired(now) {
			delete(c.entries, key)
			c.expiredRemovals++
			if c.metrics != nil {
				c.metrics.expiredRemovals.Inc()
			}
		}
	}
}

// Close stops the background cleanup sweep, if one was started. Safe
// to call more than once and safe to call on a Cache that never
// started a sweep.
func (c *Cache) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
	c.sweepWG.Wait()
}
