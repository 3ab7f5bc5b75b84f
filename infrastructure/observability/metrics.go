package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the prometheus collectors of the service.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	advisoryFailures  *prometheus.CounterVec
	storeReadFailures *prometheus.CounterVec
	storeWrites       *prometheus.CounterVec
	interactions      *prometheus.CounterVec
	applications      *prometheus.CounterVec
	keepAlivePings    *prometheus.CounterVec
	eventsForwarded   *prometheus.CounterVec
}

var (
	defaultMetrics *Metrics
	defaultOnce    sync.Once
)

// Default returns the metrics registered with the global prometheus registry
func Default() *Metrics {
	defaultOnce.Do(func() {
		defaultMetrics = NewMetrics(prometheus.DefaultRegisterer)
	})
	return defaultMetrics
}

// NewMetrics registers the collectors with the given registry.
// Returns nil when registry is nil.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		return nil
	}

	factory := promauto.With(registry)

	return &Metrics{
		advisoryFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "xenory_advisory_failures_total",
			Help: "Total number of failed advisory platform operations",
		}, []string{"operation"}),
		storeReadFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "xenory_config_store_read_failures_total",
			Help: "Total number of config reads that fell back to defaults because the backend failed",
		}, []string{"backend"}),
		storeWrites: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "xenory_config_store_writes_total",
			Help: "Total number of config saves by result",
		}, []string{"backend", "result"}),
		interactions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "xenory_interactions_total",
			Help: "Total number of handled Discord interactions by kind",
		}, []string{"kind"}),
		applications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "xenory_applications_total",
			Help: "Total number of recruitment application transitions",
		}, []string{"stage"}),
		keepAlivePings: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "xenory_keepalive_pings_total",
			Help: "Total number of keep-alive pings by result",
		}, []string{"result"}),
		eventsForwarded: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "xenory_events_forwarded_total",
			Help: "Total number of domain events forwarded to NATS by result",
		}, []string{"event_type", "result"}),
	}
}

// AdvisoryFailure counts a failed advisory operation
func (m *Metrics) AdvisoryFailure(operation string) {
	if m == nil {
		return
	}
	m.advisoryFailures.WithLabelValues(operation).Inc()
}

// StoreReadFailure counts a config read that degraded to defaults
func (m *Metrics) StoreReadFailure(backend string) {
	if m == nil {
		return
	}
	m.storeReadFailures.WithLabelValues(backend).Inc()
}

// StoreWrite counts a config save
func (m *Metrics) StoreWrite(backend string, err error) {
	if m == nil {
		return
	}
	m.storeWrites.WithLabelValues(backend, result(err)).Inc()
}

// Interaction counts a handled interaction
func (m *Metrics) Interaction(kind string) {
	if m == nil {
		return
	}
	m.interactions.WithLabelValues(kind).Inc()
}

// Application counts a recruitment transition (opened, submitted, approved, rejected)
func (m *Metrics) Application(stage string) {
	if m == nil {
		return
	}
	m.applications.WithLabelValues(stage).Inc()
}

// KeepAlivePing counts a keep-alive ping
func (m *Metrics) KeepAlivePing(err error) {
	if m == nil {
		return
	}
	m.keepAlivePings.WithLabelValues(result(err)).Inc()
}

// EventForwarded counts an event published to NATS
func (m *Metrics) EventForwarded(eventType string, err error) {
	if m == nil {
		return
	}
	m.eventsForwarded.WithLabelValues(eventType, result(err)).Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
