package vuefire

import (
	"context"
	"sync/atomic"

	"github.com/faresg/vuefire/types"
)

// listener is the snapshot listener adapter: it owns one upstream
// subscription and forwards its callbacks into the binder tagged with the
// generation the subscription was opened under.
//
// After the upstream signals an error the listener delivers that single
// error and drops any further batches for its generation, matching the
// one-error-then-silence contract of the upstream surface.
type listener struct {
	binder     *Binder
	generation uint64
	failed     atomic.Bool
}

func newListener(b *Binder, generation uint64) *listener {
	return &listener{binder: b, generation: generation}
}

// attach opens the upstream subscription.
//
// The returned cancel func closes the upstream listener; releasing it is the
// caller's (the binder's) responsibility.
func (l *listener) attach(ctx context.Context, q types.Query) (types.CancelFunc, error) {
	return q.Subscribe(ctx, l.onSnapshot, l.onError)
}

func (l *listener) onSnapshot(changes []types.Change) {
	if l.failed.Load() {
		return
	}
	l.binder.handleSnapshot(l.generation, changes)
}

func (l *listener) onError(err error) {
	if !l.failed.CompareAndSwap(false, true) {
		return
	}
	l.binder.handleError(l.generation, err)
}
