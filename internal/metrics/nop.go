// Package metrics provides metrics collector implementations for the
// vuefire library.
package metrics

import "github.com/faresg/vuefire/types"

// NopMetrics implements a no-op metrics collector.
//
// All metrics are discarded. Useful for testing or when external
// metrics collection is used.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector.
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// RecordSnapshotApplied discards the snapshot metric.
func (n *NopMetrics) RecordSnapshotApplied(_ /* generation */ uint64, _ /* changes */ int, _ /* durationSeconds */ float64) {
	// No-op
}

// RecordStaleBatch discards the stale batch metric.
func (n *NopMetrics) RecordStaleBatch(_ /* generation */ uint64) {
	// No-op
}

// RecordRetarget discards the retarget metric.
func (n *NopMetrics) RecordRetarget(_ /* generation */ uint64) {
	// No-op
}

// RecordDeferredWrite discards the deferred write metric.
func (n *NopMetrics) RecordDeferredWrite() {
	// No-op
}

// RecordPromotedWrite discards the promoted write metric.
func (n *NopMetrics) RecordPromotedWrite(_ /* trigger */ string) {
	// No-op
}

// RecordSubscriptionError discards the subscription error metric.
func (n *NopMetrics) RecordSubscriptionError() {
	// No-op
}

// RecordUnbind discards the unbind metric.
func (n *NopMetrics) RecordUnbind(_ /* reset */ bool) {
	// No-op
}
