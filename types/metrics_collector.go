package types

// MetricsCollector defines the instrumentation surface of a binding.
//
// Implementations must be safe for concurrent use. The library always holds a
// non-nil collector (a no-op by default), so implementations never need to
// guard against partial wiring.
type MetricsCollector interface {
	// RecordSnapshotApplied records one fully-applied change batch.
	//
	// Parameters:
	//   - generation: Subscription generation the batch belonged to
	//   - changes: Number of change records in the batch
	//   - durationSeconds: Wall time spent applying the batch
	RecordSnapshotApplied(generation uint64, changes int, durationSeconds float64)

	// RecordStaleBatch records a batch discarded by generation mismatch.
	RecordStaleBatch(generation uint64)

	// RecordRetarget records a subscription re-target (new generation).
	RecordRetarget(generation uint64)

	// RecordDeferredWrite records a provisional change held back by the
	// wait option.
	RecordDeferredWrite()

	// RecordPromotedWrite records a deferred change committed to the list.
	// trigger is "durable" when the source confirmed the write and
	// "completion" when the caller-supplied write signal settled first.
	RecordPromotedWrite(trigger string)

	// RecordSubscriptionError records a terminal upstream error.
	RecordSubscriptionError()

	// RecordUnbind records a binding teardown. reset reports whether a
	// reset policy replaced the list value.
	RecordUnbind(reset bool)
}
