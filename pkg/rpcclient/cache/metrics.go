package cache

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the optional Prometheus counters a Cache reports hit/
// miss/eviction events to; nil-safe, so a Cache built without
// RegisterMetrics simply skips instrumentation.
type Metrics struct {
	hits            prometheus.Counter
	misses          prometheus.Counter
	evictions       prometheus.Counter
	expiredRemovals prometheus.Counter
}

// RegisterMetrics registers hit/miss/eviction counters with reg under
// the "neo_go_sdk_rpc_cache" namespace and attaches them to c;
// subsequent Get/Set calls increment whichever counter applies.
func (c *Cache) RegisterMetrics(reg prometheus.Registerer) error {
	hits := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "neo_go_sdk",
		Subsystem: "rpc_cache",
		Name:      "hits_total",
		Help:      "Number of RPC response cache hits.",
	})
	misses := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "neo_go_sdk",
		Subsystem: "rpc_cache",
		Name:      "misses_total",
		Help:      "Number of RPC response cache misses.",
	})
	evictions := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "neo_go_sdk",
		Subsystem: "rpc_cache",
		Name:      "evictions_total",
		Help:      "Number of entries evicted by the LRU policy on overflow.",
	})
	expired := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "neo_go_sdk",
		Subsystem: "rpc_cache",
		Name:      "expired_removals_total",
		Help:      "Number of entries removed for having exceeded their TTL.",
	})
	for _, coll := range []prometheus.Collector{hits, misses, evictions, expired} {
		if err := reg.Register(coll); err != nil {
			return err
		}
	}
	c.mu.Lock()
	c.metrics = &Metrics{hits: hits, misses: misses, evictions: evictions, expiredRemovals: expired}
	c.mu.Unlock()
	return nil
}
