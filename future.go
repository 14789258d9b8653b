package vuefire

import (
	"context"
	"sync"

	"github.com/faresg/vuefire/types"
)

// Future is the initial-load promise of one subscription generation.
//
// It settles exactly once: resolved with the applied list when the first
// change batch of its generation lands, or rejected with the upstream error
// if that fires first. A re-target or unbind before the first batch rejects
// the future so no waiter hangs forever.
type Future struct {
	done chan struct{}
	once sync.Once

	docs []types.Document
	err  error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// resolve settles the future successfully. Later calls are no-ops.
func (f *Future) resolve(docs []types.Document) {
	f.once.Do(func() {
		f.docs = docs
		close(f.done)
	})
}

// reject settles the future with an error. Later calls are no-ops.
func (f *Future) reject(err error) {
	f.once.Do(func() {
		f.err = err
		close(f.done)
	})
}

// Done returns a channel closed when the future settles.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Result returns the settled outcome.
//
// Valid only after Done is closed; before that it returns nil, nil.
func (f *Future) Result() ([]types.Document, error) {
	select {
	case <-f.done:
		return f.docs, f.err
	default:
		return nil, nil
	}
}

// Await blocks until the future settles or the context is cancelled.
//
// Returns:
//   - []types.Document: The list as of the first applied snapshot
//   - error: The upstream error, a lifecycle rejection, or ctx.Err()
func (f *Future) Await(ctx context.Context) ([]types.Document, error) {
	select {
	case <-f.done:
		return f.docs, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
