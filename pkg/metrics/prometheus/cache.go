// Package prometheus provides Prometheus-backed implementations of
// cache.Metrics and server.Metrics.
package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// CacheMetrics is the Prometheus implementation of cache.Metrics.
type CacheMetrics struct {
	readOperations  prometheus.Counter
	readDuration    prometheus.Histogram
	readBytes       prometheus.Histogram
	writeOperations prometheus.Counter
	writeDuration   prometheus.Histogram
	writeBytes      prometheus.Histogram
	evictions       prometheus.Counter
}

var ioBuckets = []float64{
	4096,     // 4KiB
	32768,    // 32KiB
	131072,   // 128KiB
	524288,   // 512KiB
	1048576,  // 1MiB
	4194304,  // 4MiB
	10485760, // 10MiB
}

var durationBuckets = []float64{
	0.1, 0.5, 1, 5, 10, 50, 100, 500, 1000, // milliseconds
}

// NewCacheMetrics registers and returns cache instrumentation against reg.
func NewCacheMetrics(reg prometheus.Registerer) *CacheMetrics {
	return &CacheMetrics{
		readOperations: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "dfcache_reads_total",
			Help: "Total number of FileCache.Get calls that loaded from disk.",
		}),
		readDuration: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "dfcache_read_duration_milliseconds",
			Help:    "Duration of disk reads performed by FileCache.Get.",
			Buckets: durationBuckets,
		}),
		readBytes: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "dfcache_read_bytes",
			Help:    "Size in bytes of values loaded by FileCache.Get.",
			Buckets: ioBuckets,
		}),
		writeOperations: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "dfcache_writes_total",
			Help: "Total number of FileCache.Update calls that persisted to disk.",
		}),
		writeDuration: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "dfcache_write_duration_milliseconds",
			Help:    "Duration of disk writes performed by FileCache.Update.",
			Buckets: durationBuckets,
		}),
		writeBytes: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "dfcache_write_bytes",
			Help:    "Size in bytes of values persisted by FileCache.Update.",
			Buckets: ioBuckets,
		}),
		evictions: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "dfcache_evictions_total",
			Help: "Total number of entries evicted to satisfy the memory budget.",
		}),
	}
}

func (m *CacheMetrics) ObserveRead(bytes int64, d time.Duration) {
	m.readOperations.Inc()
	m.readDuration.Observe(float64(d.Milliseconds()))
	m.readBytes.Observe(float64(bytes))
}

func (m *CacheMetrics) ObserveWrite(bytes int64, d time.Duration) {
	m.writeOperations.Inc()
	m.writeDuration.Observe(float64(d.Milliseconds()))
	m.writeBytes.Observe(float64(bytes))
}

func (m *CacheMetrics) RecordEviction() {
	m.evictions.Inc()
}
