package source

import (
	"context"
	"sync"

	"github.com/faresg/vuefire/types"
)

// liveQuery adapts a Collection to the types.Query surface.
type liveQuery struct {
	c *Collection
}

var _ types.Query = (*liveQuery)(nil)

// Subscribe registers a live subscriber. The initial full snapshot and all
// later change batches are delivered from a dedicated goroutine, never
// synchronously from Subscribe or from a mutation.
func (q *liveQuery) Subscribe(ctx context.Context, onSnapshot types.SnapshotFunc, onError types.ErrorFunc) (types.CancelFunc, error) {
	c := q.c

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, types.ErrCollectionClosed
	}

	id := c.nextSub
	c.nextSub++

	sub := newSubscriber()
	sub.push(c.snapshotLocked())
	c.subs[id] = sub
	c.mu.Unlock()

	go sub.pump(ctx, onSnapshot, onError)

	var once sync.Once
	cancel := func() {
		once.Do(func() { c.unsubscribe(id) })
	}

	return cancel, nil
}

// subscriber is one live query delivery queue. Batches are enqueued under the
// collection lock and drained by a single pump goroutine, preserving order.
type subscriber struct {
	mu     sync.Mutex
	queue  [][]types.Change
	err    error
	closed bool
	wake   chan struct{}
}

func newSubscriber() *subscriber {
	return &subscriber{
		wake: make(chan struct{}, 1),
	}
}

func (s *subscriber) push(batch []types.Change) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.queue = append(s.queue, batch)
	s.mu.Unlock()

	s.notify()
}

// fail terminates the subscriber after the already queued batches drain.
func (s *subscriber) fail(err error) {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		s.err = err
	}
	s.mu.Unlock()

	s.notify()
}

func (s *subscriber) close() {
	s.fail(nil)
}

func (s *subscriber) notify() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// pump delivers queued batches in order until the subscriber is closed or the
// context ends. A terminal error is delivered once, after the queue drains.
func (s *subscriber) pump(ctx context.Context, onSnapshot types.SnapshotFunc, onError types.ErrorFunc) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.wake:
		}

		for {
			s.mu.Lock()
			if len(s.queue) == 0 {
				err, closed := s.err, s.closed
				s.mu.Unlock()

				if closed {
					if err != nil && onError != nil {
						onError(err)
					}
					return
				}
				break
			}

			batch := s.queue[0]
			s.queue = s.queue[1:]
			s.mu.Unlock()

			select {
			case <-ctx.Done():
				return
			default:
			}

			onSnapshot(batch)
		}
	}
}
