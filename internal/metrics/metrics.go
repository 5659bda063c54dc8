// Package metrics exposes virtual clock state to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/HerbHall/timeshift/pkg/timeshift"
)

const namespace = "timeshift"

// Operation labels for the operations counter.
const (
	OpShift = "shift"
	OpJump  = "jump"
	OpReset = "reset"
)

// Metrics owns a private registry so tests and embedders never collide
// with the default registry.
type Metrics struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	failures   *prometheus.CounterVec
}

// New creates the collectors and registers them. The offset and
// virtual gauges read timeshift state at scrape time.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Clock control operations applied, by operation.",
		}, []string{"op"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_failures_total",
			Help:      "Clock control operations rejected, by operation.",
		}, []string{"op"}),
	}

	offset := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "offset_seconds",
		Help:      "Current virtual clock offset from real time.",
	}, func() float64 {
		return timeshift.CurrentOffset().Seconds()
	})
	virtual := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "virtual",
		Help:      "1 when the virtual clock is installed, 0 otherwise.",
	}, func() float64 {
		if timeshift.IsVirtual() {
			return 1
		}
		return 0
	})

	m.registry.MustRegister(m.operations, m.failures, offset, virtual)
	return m
}

// Observe counts one applied operation.
func (m *Metrics) Observe(op string) {
	m.operations.WithLabelValues(op).Inc()
}

// Fail counts one rejected operation.
func (m *Metrics) Fail(op string) {
	m.failures.WithLabelValues(op).Inc()
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
