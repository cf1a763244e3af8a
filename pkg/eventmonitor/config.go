// Package eventmonitor implements a poll-driven stand-in for server-
// pushed event subscriptions: it periodically walks new blocks'
// application logs and reports the notifications matching a caller-
// registered set of filters, for nodes or deployments where a
// WebSocket subscription (see wsclient) isn't available or desired.
package eventmonitor

import "time"

// Config configures a Monitor; every field is YAML-taggable so an
// operator can tune polling alongside the rest of an application's
// configuration.
type Config struct {
	// PollInterval is how long Run waits between ticks. Defaults to
	// 10 seconds if zero.
	PollInterval time.Duration `yaml:"poll_interval"`

	// ProcessedCacheSize bounds the LRU of transaction hashes a
	// Monitor remembers having already reported notifications for.
	// Once full, the oldest entries are evicted first, which can
	// cause a long-stopped-then-restarted Monitor to redeliver
	// notifications for blocks it's seen before; this is a documented
	// tradeoff (bounded memory over perfect dedup), not a bug.
	// Defaults to 4096 if zero.
	ProcessedCacheSize int `yaml:"processed_cache_size"`

	// ChannelBufferSize sizes the channel Events returns. A slow
	// consumer backs Run up to this many pending events before the
	// emitting goroutine blocks on send, which in turn stalls the
	// next poll tick; size it to the consumer's expected lag.
	// Defaults to 64 if zero.
	ChannelBufferSize int `yaml:"channel_buffer_size"`

	// StartBlock is the block index polling resumes from (exclusive:
	// the first block examined is StartBlock+1). Zero starts from the
	// chain's current height at the first tick, so a fresh Monitor
	// doesn't replay the whole chain's history.
	StartBlock uint32 `yaml:"start_block"`
}

// DefaultConfig is a reasonable default for a long-lived Monitor: a 10
// second poll tick, a 4096-entry dedup cache, and a 64-event output
// buffer.
var DefaultConfig = Config{
	PollInterval:       10 * time.Second,
	ProcessedCacheSize: 4096,
	ChannelBufferSize:  64,
}

func (c Config) withDefaults() Config {
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultConfig.PollInterval
	}
	if c.ProcessedCacheSize <= 0 {
		c.ProcessedCacheSize = DefaultConfig.ProcessedCacheSize
	}
	if c.ChannelBufferSize <= 0 {
		c.ChannelBufferSize = DefaultConfig.ChannelBufferSize
	}
	return c
}
