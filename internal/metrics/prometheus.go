package metrics

import (
	"errors"
	"sync"

	"github.com/faresg/vuefire/types"
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector implements types.MetricsCollector backed by Prometheus.
//
// Metric registration is lazy: collectors are created and registered on the
// first recorded observation, so constructing the collector never panics on
// duplicate registration when no binding is ever started.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	snapshotsApplied *prometheus.CounterVec
	snapshotLatency  prometheus.Histogram
	staleBatches     prometheus.Counter
	retargets        prometheus.Counter
	deferredWrites   prometheus.Counter
	promotedWrites   *prometheus.CounterVec
	errorsTotal      prometheus.Counter
	unbinds          *prometheus.CounterVec
}

// Compile-time assertion that PrometheusCollector implements MetricsCollector.
var _ types.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheus creates a new Prometheus-backed metrics collector.
//
// Parameters:
//   - reg: Prometheus registerer interface (uses prometheus.DefaultRegisterer if nil)
//   - namespace: Prometheus metrics namespace (defaults to "vuefire" if empty)
//
// Returns:
//   - *PrometheusCollector: A MetricsCollector implementation using Prometheus
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "vuefire"
	}

	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.snapshotsApplied = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "binding",
			Name:      "snapshots_applied_total",
			Help:      "Total change batches applied, labeled by batch size bucket.",
		}, []string{"size"})

		p.snapshotLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "binding",
			Name:      "snapshot_apply_seconds",
			Help:      "Latency of applying one change batch in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 8), // 10us .. ~160ms
		})

		p.staleBatches = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "binding",
			Name:      "stale_batches_total",
			Help:      "Total batches discarded by subscription generation mismatch.",
		})

		p.retargets = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "binding",
			Name:      "retargets_total",
			Help:      "Total subscription re-targets (generation advances).",
		})

		p.deferredWrites = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "binding",
			Name:      "deferred_writes_total",
			Help:      "Total provisional changes held back by the wait option.",
		})

		p.promotedWrites = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "binding",
			Name:      "promoted_writes_total",
			Help:      "Total deferred changes committed, by trigger (durable,completion).",
		}, []string{"trigger"})

		p.errorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "binding",
			Name:      "subscription_errors_total",
			Help:      "Total terminal upstream subscription errors.",
		})

		p.unbinds = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "binding",
			Name:      "unbinds_total",
			Help:      "Total binding teardowns, by reset disposition (freeze,reset).",
		}, []string{"disposition"})

		collectors := []prometheus.Collector{
			p.snapshotsApplied, p.snapshotLatency, p.staleBatches, p.retargets,
			p.deferredWrites, p.promotedWrites, p.errorsTotal, p.unbinds,
		}
		for _, c := range collectors {
			// Tolerate re-registration across collector instances sharing a registry.
			if err := p.reg.Register(c); err != nil {
				var are prometheus.AlreadyRegisteredError
				if !errors.As(err, &are) {
					panic(err)
				}
			}
		}
	})
}

// RecordSnapshotApplied records one fully-applied change batch.
func (p *PrometheusCollector) RecordSnapshotApplied(_ uint64, changes int, durationSeconds float64) {
	p.ensureRegistered()
	p.snapshotsApplied.WithLabelValues(sizeBucket(changes)).Inc()
	p.snapshotLatency.Observe(durationSeconds)
}

// RecordStaleBatch records a batch discarded by generation mismatch.
func (p *PrometheusCollector) RecordStaleBatch(_ uint64) {
	p.ensureRegistered()
	p.staleBatches.Inc()
}

// RecordRetarget records a subscription re-target.
func (p *PrometheusCollector) RecordRetarget(_ uint64) {
	p.ensureRegistered()
	p.retargets.Inc()
}

// RecordDeferredWrite records a provisional change held back by the wait option.
func (p *PrometheusCollector) RecordDeferredWrite() {
	p.ensureRegistered()
	p.deferredWrites.Inc()
}

// RecordPromotedWrite records a deferred change committed to the list.
func (p *PrometheusCollector) RecordPromotedWrite(trigger string) {
	p.ensureRegistered()
	p.promotedWrites.WithLabelValues(trigger).Inc()
}

// RecordSubscriptionError records a terminal upstream error.
func (p *PrometheusCollector) RecordSubscriptionError() {
	p.ensureRegistered()
	p.errorsTotal.Inc()
}

// RecordUnbind records a binding teardown.
func (p *PrometheusCollector) RecordUnbind(reset bool) {
	p.ensureRegistered()
	disposition := "freeze"
	if reset {
		disposition = "reset"
	}
	p.unbinds.WithLabelValues(disposition).Inc()
}

// sizeBucket coarsely buckets batch sizes to keep label cardinality bounded.
func sizeBucket(n int) string {
	switch {
	case n <= 1:
		return "1"
	case n <= 10:
		return "10"
	case n <= 100:
		return "100"
	default:
		return "inf"
	}
}
