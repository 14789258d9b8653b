package cell

import (
	"sync"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v4"
)

// Cell is an observable container for a single value.
//
// Get and Set are safe for concurrent use. Subscribers are invoked
// synchronously, in the goroutine that called Set, after the new value is
// stored; a subscriber that calls Get observes the value it was notified
// with (or a newer one). Subscriber invocation order is unspecified.
type Cell[T any] struct {
	mu    sync.RWMutex
	value T

	// Fan-out to subscribers
	subscribers      *xsync.Map[uint64, func(T)]
	nextSubscriberID atomic.Uint64
}

// New creates a cell holding the given initial value.
func New[T any](initial T) *Cell[T] {
	return &Cell[T]{
		value:       initial,
		subscribers: xsync.NewMap[uint64, func(T)](),
	}
}

// Get returns the current value.
func (c *Cell[T]) Get() T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.value
}

// Set replaces the value and notifies all subscribers with the new value.
//
// Notification happens outside the cell's lock, so subscribers may call Get
// or Subscribe without deadlocking. Set does not deduplicate: storing an
// equal value still notifies.
func (c *Cell[T]) Set(value T) {
	c.mu.Lock()
	c.value = value
	c.mu.Unlock()

	c.subscribers.Range(func(_ uint64, fn func(T)) bool {
		fn(value)
		return true
	})
}

// Subscribe registers a callback invoked on every subsequent Set.
//
// The callback does not receive the current value on registration; callers
// that need it read Get first. The returned cancel function removes the
// subscription and is idempotent.
//
// Example:
//
//	cancel := c.Subscribe(func(v int) { fmt.Println("now", v) })
//	defer cancel()
func (c *Cell[T]) Subscribe(fn func(T)) (cancel func()) {
	id := c.nextSubscriberID.Add(1)
	c.subscribers.Store(id, fn)

	return func() {
		c.subscribers.Delete(id)
	}
}
