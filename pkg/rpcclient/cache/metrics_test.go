package cache

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestRegisterMetricsTracksHitsAndMisses(t *testing.T) {
	c, err := New(Config{MaxEntries: 10, EnableLRU: true, DefaultTTL: time.Minute})
	require.NoError(t, err)
	defer c.Close()

	reg := prometheus.NewRegistry()
	require.NoError(t, c.RegisterMetrics(reg))

	c.Set("k", "v")
	c.Get("k")
	c.Get("missing")

	families, err := reg.Gather()
	require.NoError(t, err)

	counts := map[string]float64{}
	for _, f := range families {
		counts[f.GetName()] = f.Metric[0].GetCounter().GetValue()
	}
	require.Equal(t, float64(1), counts["neo_go_sdk_rpc_cache_hits_total"])
	require.Equal(t, float64(1), counts["neo_go_sdk_rpc_cache_misses_total"])
}

func TestRegisterMetricsRejectsDuplicateRegistration(t *testing.T) {
	c1, err := New(Config{MaxEntries: 10, EnableLRU: true})
	require.NoError(t, err)
	defer c1.Close()
	c2, err := New(Config{MaxEntries: 10, EnableLRU: true})
	require.NoError(t, err)
	defer c2.Close()

	reg := prometheus.NewRegistry()
	require.NoError(t, c1.RegisterMetrics(reg))
	require.Error(t, c2.RegisterMetrics(reg))
}
