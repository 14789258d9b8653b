// Package vuefire keeps an in-memory ordered document list continuously in
// sync with a live, server-pushed query result set, and exposes it through
// observable state cells a UI layer can consume.
//
// The library converts an asynchronous stream of add/modify/remove
// notifications, possibly racing against re-targets of the subscribed query,
// into a deterministic observable ordered list. Each subscription lifetime is
// tagged with a monotonically increasing generation; callbacks from a
// superseded generation are silently discarded, which is the sole guard
// against stale snapshots overwriting newer state.
//
// # Quick Start
//
//	coll := source.NewCollection(nil)
//	ref := cell.New[vuefire.Query](coll.Query())
//
//	b, err := vuefire.NewBinder(&vuefire.Config{}, ref)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := b.Bind(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer b.Unbind()
//
//	docs, err := b.Await(ctx) // initial snapshot
//	_ = b.Data().Get()        // observable list from here on
//
// Re-targeting is just writing the reference cell:
//
//	ref.Set(otherQuery) // old subscription is released, generation advances
//
// # Key Features
//
//   - Generation-guarded re-targeting: changing the bound reference never
//     lets an in-flight stale snapshot overwrite the new target's data
//   - Ordered diff application: source-reported indices drive insert,
//     identity-preserving replace, and delete, batch-atomically
//   - Initial-load promise: exactly one resolution or rejection per
//     generation, surfaced via Promise/Await
//   - Wait mode: provisional locally-echoed writes stay hidden until the
//     store confirms them or the write's completion signal settles
//   - Reset policies: on unbind the list is frozen, cleared, or replaced by
//     a caller-supplied value
//
// # Architecture
//
// A Binder watches a query reference cell. Each observed change tears down
// the previous subscription and opens a new one through the snapshot
// listener, which tags every upstream callback with its generation. Batches
// that still carry the active generation flow into the ordered collection
// synchronizer and surface through the data, pending, and error cells plus
// the per-generation promise.
package vuefire
