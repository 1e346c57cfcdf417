package prometheus

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ServerMetrics is the Prometheus implementation of server.Metrics.
type ServerMetrics struct {
	connectionsOpened prometheus.Counter
	connectionsActive prometheus.Gauge
}

// NewServerMetrics registers and returns connection instrumentation against reg.
func NewServerMetrics(reg prometheus.Registerer) *ServerMetrics {
	return &ServerMetrics{
		connectionsOpened: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "dfcache_connections_opened_total",
			Help: "Total number of client connections accepted.",
		}),
		connectionsActive: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "dfcache_connections_active",
			Help: "Number of client connections currently open.",
		}),
	}
}

func (m *ServerMetrics) ConnectionOpened() {
	m.connectionsOpened.Inc()
	m.connectionsActive.Inc()
}

func (m *ServerMetrics) ConnectionClosed() {
	m.connectionsActive.Dec()
}

// Handler returns the HTTP handler serving reg's metrics in the Prometheus
// exposition format, for mounting at e.g. "/metrics".
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
