package types

import "context"

// SnapshotFunc receives one ordered batch of document changes.
//
// Batches must be applied in full before the receiver yields control, so
// downstream observers never see a partially-applied snapshot.
type SnapshotFunc func(changes []Change)

// ErrorFunc receives a terminal subscription error.
type ErrorFunc func(err error)

// CancelFunc releases an upstream subscription. Implementations must be
// idempotent: calling it after the subscription is already closed is a no-op.
type CancelFunc func()

// Query is the upstream streaming surface the binder subscribes to.
//
// Subscribe opens exactly one upstream listener and delivers ordered change
// batches through onSnapshot until the returned CancelFunc is called or the
// context is cancelled. On upstream failure the implementation calls onError
// exactly once instead of a batch and stops delivering further batches.
//
// Implementations decide what "ordered" means (key order, query order); the
// binder only requires that the Index fields in each batch are consistent
// with the membership previously reported on the same subscription.
type Query interface {
	Subscribe(ctx context.Context, onSnapshot SnapshotFunc, onError ErrorFunc) (CancelFunc, error)
}

// Converter maps a raw stored record to an entity Document.
//
// The default converter decodes JSON into the field map and injects the
// synthetic id. A custom converter owns the record shape entirely; no id is
// injected on its behalf.
type Converter func(id string, data []byte) (Document, error)

// WriteResult is the completion signal of a single write operation issued
// against the backing store.
//
// Under the wait option the binder consumes this signal to promote the
// write's provisional local echo once the operation settles, even if the
// source has not yet marked the document durable.
type WriteResult interface {
	// DocID returns the identity of the document the write targets.
	DocID() string

	// Done is closed-over with the write outcome: it receives nil on
	// success or the write error, then is closed.
	Done() <-chan error
}
