package testing

import (
	"context"
	"sync"

	"github.com/faresg/vuefire/types"
)

// ScriptQuery is a hand-driven types.Query for deterministic binder tests.
//
// The test controls exactly when batches and errors are delivered: Emit and
// Fail invoke the current subscribers synchronously on the caller's
// goroutine, so a test observes the effect immediately after the call
// returns. Callbacks are never invoked from Subscribe itself.
type ScriptQuery struct {
	mu        sync.Mutex
	nextID    uint64
	subs      map[uint64]scriptSub
	attaches  int
	attachErr error
}

type scriptSub struct {
	onSnapshot types.SnapshotFunc
	onError    types.ErrorFunc
}

var _ types.Query = (*ScriptQuery)(nil)

// NewScriptQuery creates a scripted query with no subscribers.
func NewScriptQuery() *ScriptQuery {
	return &ScriptQuery{
		subs: make(map[uint64]scriptSub),
	}
}

// Subscribe registers the callbacks and returns a cancel that removes them.
func (q *ScriptQuery) Subscribe(_ context.Context, onSnapshot types.SnapshotFunc, onError types.ErrorFunc) (types.CancelFunc, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.attaches++

	if q.attachErr != nil {
		err := q.attachErr
		q.attachErr = nil

		return nil, err
	}

	id := q.nextID
	q.nextID++
	q.subs[id] = scriptSub{onSnapshot: onSnapshot, onError: onError}

	return func() {
		q.mu.Lock()
		delete(q.subs, id)
		q.mu.Unlock()
	}, nil
}

// Emit delivers one change batch to every current subscriber, synchronously.
func (q *ScriptQuery) Emit(batch []types.Change) {
	// Snapshot the subscriber set first; callbacks may call back into the
	// binder, which may cancel subscriptions.
	for _, sub := range q.snapshot() {
		sub.onSnapshot(batch)
	}
}

// Fail delivers a subscription error to every current subscriber.
func (q *ScriptQuery) Fail(err error) {
	for _, sub := range q.snapshot() {
		if sub.onError != nil {
			sub.onError(err)
		}
	}
}

// FailNextSubscribe makes the next Subscribe call return err.
func (q *ScriptQuery) FailNextSubscribe(err error) {
	q.mu.Lock()
	q.attachErr = err
	q.mu.Unlock()
}

// Subscribers returns the number of live subscriptions.
func (q *ScriptQuery) Subscribers() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.subs)
}

// Attaches returns how many times Subscribe has been called.
func (q *ScriptQuery) Attaches() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.attaches
}

func (q *ScriptQuery) snapshot() []scriptSub {
	q.mu.Lock()
	defer q.mu.Unlock()

	subs := make([]scriptSub, 0, len(q.subs))
	for _, sub := range q.subs {
		subs = append(subs, sub)
	}

	return subs
}
