package prometheus

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/marmos91/dfcache/internal/server"
	"github.com/marmos91/dfcache/pkg/cache"
)

var (
	_ cache.Metrics  = (*CacheMetrics)(nil)
	_ server.Metrics = (*ServerMetrics)(nil)
)

func TestCacheMetricsRecordsObservations(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCacheMetrics(reg)

	m.ObserveRead(1024, 5*time.Millisecond)
	m.ObserveWrite(2048, 10*time.Millisecond)
	m.RecordEviction()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}

	counts := map[string]float64{}
	for _, fam := range families {
		for _, metric := range fam.Metric {
			counts[fam.GetName()] += sumMetric(metric)
		}
	}

	if counts["dfcache_reads_total"] != 1 {
		t.Fatalf("expected 1 read recorded, got %v", counts["dfcache_reads_total"])
	}
	if counts["dfcache_writes_total"] != 1 {
		t.Fatalf("expected 1 write recorded, got %v", counts["dfcache_writes_total"])
	}
	if counts["dfcache_evictions_total"] != 1 {
		t.Fatalf("expected 1 eviction recorded, got %v", counts["dfcache_evictions_total"])
	}
}

func TestServerMetricsTracksActiveConnections(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewServerMetrics(reg)

	m.ConnectionOpened()
	m.ConnectionOpened()
	m.ConnectionClosed()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}

	for _, fam := range families {
		if fam.GetName() == "dfcache_connections_active" {
			if got := fam.Metric[0].GetGauge().GetValue(); got != 1 {
				t.Fatalf("expected 1 active connection, got %v", got)
			}
		}
	}
}

func sumMetric(m *dto.Metric) float64 {
	if m.Counter != nil {
		return m.Counter.GetValue()
	}
	if m.Histogram != nil {
		return float64(m.Histogram.GetSampleCount())
	}
	return 0
}
