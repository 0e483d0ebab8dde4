package web

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jmylchreest/toastui/internal/toast"
)

// MetricsNamespace prefixes every metric name.
const MetricsNamespace = "toastui"

// Metrics holds the Prometheus collectors fed by toast lifecycle events.
type Metrics struct {
	registry *prometheus.Registry

	shown   *prometheus.CounterVec
	removed *prometheus.CounterVec
	paused  prometheus.Counter
	active  prometheus.Gauge
	clients prometheus.Gauge
}

// NewMetrics creates the collectors on a private registry, alongside the Go
// runtime and process collectors.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		shown: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "toasts_shown_total",
			Help:      "Total number of toasts shown by type",
		}, []string{"type"}),

		removed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "toasts_removed_total",
			Help:      "Total number of toasts detached by type and reason",
		}, []string{"type", "reason"}),

		paused: factory.NewCounter(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "toasts_paused_total",
			Help:      "Total number of times a dismiss timer was paused",
		}),

		active: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Name:      "toasts_active",
			Help:      "Number of toasts currently attached",
		}),

		clients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Name:      "websocket_clients",
			Help:      "Number of connected WebSocket clients",
		}),
	}
}

// Observe records a lifecycle event. It is a toast.Observer.
func (m *Metrics) Observe(ev toast.Event) {
	typ := string(ev.Toast.Type)
	switch ev.Kind {
	case toast.EventShown:
		m.shown.WithLabelValues(typ).Inc()
		m.active.Inc()
	case toast.EventPaused:
		m.paused.Inc()
	case toast.EventRemoved:
		m.removed.WithLabelValues(typ, ev.Reason.String()).Inc()
		m.active.Dec()
	}
}

// SetClients records the number of connected WebSocket clients.
func (m *Metrics) SetClients(n int) {
	m.clients.Set(float64(n))
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
