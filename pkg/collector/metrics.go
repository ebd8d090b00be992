package collector

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics are the collector's operator-facing counters, scraped from the
// admin HTTP surface's /metrics endpoint. Each Collector owns its own
// registry so multiple instances (as in tests) never collide on a
// process-global default registerer.
type metrics struct {
	registry *prometheus.Registry

	ingressBytes         prometheus.Counter
	ingressChunksDropped prometheus.Counter
	shuttleDepth         prometheus.Gauge
	subscribersConnected prometheus.Gauge
	subscriberWriteErrs  prometheus.Counter
}

func newMetrics() *metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &metrics{
		registry: reg,
		ingressBytes: f.NewCounter(prometheus.CounterOpts{
			Name: "dlt_collector_ingress_bytes_total",
			Help: "Total bytes received from producer connections.",
		}),
		ingressChunksDropped: f.NewCounter(prometheus.CounterOpts{
			Name: "dlt_collector_shuttle_chunks_dropped_total",
			Help: "Byte chunks dropped because the shuttle queue was full.",
		}),
		shuttleDepth: f.NewGauge(prometheus.GaugeOpts{
			Name: "dlt_collector_shuttle_depth",
			Help: "Current number of byte chunks resident in the shuttle queue.",
		}),
		subscribersConnected: f.NewGauge(prometheus.GaugeOpts{
			Name: "dlt_collector_subscribers_connected",
			Help: "Number of currently connected TCP subscribers.",
		}),
		subscriberWriteErrs: f.NewCounter(prometheus.CounterOpts{
			Name: "dlt_collector_subscriber_write_errors_total",
			Help: "Write errors observed while forwarding chunks to subscribers.",
		}),
	}
}
