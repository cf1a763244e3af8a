package eventmonitor

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the optional Prometheus counters/gauge a Monitor
// reports poll activity to; nil-safe, so a Monitor built without
// RegisterMetrics simply skips instrumentation.
type Metrics struct {
	blocksProcessed prometheus.Counter
	eventsEmitted   prometheus.Counter
	pollErrors      prometheus.Counter
	lastBlock       prometheus.Gauge
}

// RegisterMetrics registers a Monitor's counters with reg under the
// "neo_go_sdk_eventmonitor" namespace and attaches them to m;
// subsequent polls increment whichever counters apply.
func (m *Monitor) RegisterMetrics(reg prometheus.Registerer) error {
	metrics := &Metrics{
		blocksProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "neo_go_sdk",
			Subsystem: "eventmonitor",
			Name:      "blocks_processed_total",
			Help:      "Number of blocks walked for notifications.",
		}),
		eventsEmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "neo_go_sdk",
			Subsystem: "eventmonitor",
			Name:      "events_emitted_total",
			Help:      "Number of notifications matched and emitted.",
		}),
		pollErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "neo_go_sdk",
			Subsystem: "eventmonitor",
			Name:      "poll_errors_total",
			Help:      "Number of poll ticks that returned an error.",
		}),
		lastBlock: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "neo_go_sdk",
			Subsystem: "eventmonitor",
			Name:      "last_processed_block",
			Help:      "Index of the last block successfully processed.",
		}),
	}
	for _, c := range []prometheus.Collector{metrics.blocksProcessed, metrics.eventsEmitted, metrics.pollErrors, metrics.lastBlock} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	m.mu.Lock()
	m.metrics = metrics
	m.mu.Unlock()
	return nil
}
