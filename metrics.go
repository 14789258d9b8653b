package vuefire

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/faresg/vuefire/internal/metrics"
)

// NewPrometheusMetrics creates a Prometheus-backed MetricsCollector.
//
// Registration is lazy: collectors register on the first observation, so a
// binder that never binds registers nothing.
//
// Parameters:
//   - reg: Registry to register with (prometheus.DefaultRegisterer if nil)
//   - namespace: Metric namespace ("vuefire" if empty)
//
// Returns:
//   - MetricsCollector: Collector to pass to WithMetrics
//
// Example:
//
//	collector := vuefire.NewPrometheusMetrics(nil, "myapp")
//	b, _ := vuefire.NewBinder(&cfg, ref, vuefire.WithMetrics(collector))
func NewPrometheusMetrics(reg prometheus.Registerer, namespace string) MetricsCollector {
	return metrics.NewPrometheus(reg, namespace)
}

// NewNopMetrics returns a MetricsCollector that records nothing. This is the
// default when WithMetrics is not supplied.
func NewNopMetrics() MetricsCollector {
	return metrics.NewNop()
}
