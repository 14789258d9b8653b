// Package natskv adapts a NATS JetStream key-value bucket to the query
// surface consumed by the binder.
//
// Each bucket key is one document; the collection is ordered by key
// ascending. The watcher's initial replay becomes a single added-batch, and
// every later update becomes a one-change batch with the index computed from
// the sorted key set. JetStream only reports committed revisions, so every
// change is durable.
package natskv

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/faresg/vuefire/internal/logging"
	"github.com/faresg/vuefire/types"
)

// ErrWatcherClosed is reported when the bucket watcher terminates without the
// subscription being cancelled.
var ErrWatcherClosed = errors.New("key-value watcher closed")

// Options configures a bucket query.
type Options struct {
	// Converter maps a bucket entry's value to a document. Defaults to
	// types.DefaultConverter.
	Converter types.Converter

	// Logger receives conversion and watcher diagnostics. Defaults to a
	// no-op logger.
	Logger types.Logger
}

// Query is a live query over all keys of one JetStream key-value bucket.
type Query struct {
	kv     jetstream.KeyValue
	conv   types.Converter
	logger types.Logger
}

var _ types.Query = (*Query)(nil)

// New creates a query over the bucket. A nil opts uses defaults.
func New(kv jetstream.KeyValue, opts *Options) *Query {
	q := &Query{
		kv:     kv,
		conv:   types.DefaultConverter,
		logger: logging.NewNop(),
	}
	if opts != nil {
		if opts.Converter != nil {
			q.conv = opts.Converter
		}
		if opts.Logger != nil {
			q.logger = opts.Logger
		}
	}

	return q
}

// Subscribe starts watching the bucket. Change batches are delivered from a
// dedicated goroutine, never synchronously from Subscribe.
func (q *Query) Subscribe(ctx context.Context, onSnapshot types.SnapshotFunc, onError types.ErrorFunc) (types.CancelFunc, error) {
	watcher, err := q.kv.WatchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to watch bucket: %w", err)
	}

	stop := make(chan struct{})

	go q.run(ctx, watcher, stop, onSnapshot, onError)

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(stop)
			if err := watcher.Stop(); err != nil {
				q.logger.Warn("failed to stop watcher", "error", err)
			}
		})
	}

	return cancel, nil
}

// run drains the watcher: it accumulates the initial replay until the nil
// end-of-replay marker, emits it as one batch, then translates each later
// update into a single indexed change.
func (q *Query) run(ctx context.Context, watcher jetstream.KeyWatcher, stop <-chan struct{}, onSnapshot types.SnapshotFunc, onError types.ErrorFunc) {
	initial := make(map[string][]byte)
	replaying := true

	// keys mirrors the bucket's key set in ascending order once the replay
	// completes; change indices are positions in this slice.
	var keys []string

	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case entry, ok := <-watcher.Updates():
			if !ok {
				select {
				case <-stop:
				default:
					if ctx.Err() == nil && onError != nil {
						onError(ErrWatcherClosed)
					}
				}
				return
			}

			if entry == nil {
				// End of initial replay.
				if !replaying {
					continue
				}
				replaying = false

				batch, sorted, err := q.initialBatch(initial)
				if err != nil {
					q.logger.Error("failed to decode initial snapshot", "error", err)
					if onError != nil {
						onError(err)
					}
					return
				}
				keys = sorted
				initial = nil

				onSnapshot(batch)

				continue
			}

			if replaying {
				switch entry.Operation() {
				case jetstream.KeyValueDelete, jetstream.KeyValuePurge:
					delete(initial, entry.Key())
				default:
					initial[entry.Key()] = entry.Value()
				}

				continue
			}

			change, next, ok := q.translate(keys, entry)
			if !ok {
				continue
			}
			keys = next

			onSnapshot([]types.Change{change})
		}
	}
}

// initialBatch converts the accumulated replay into one added-batch.
func (q *Query) initialBatch(initial map[string][]byte) ([]types.Change, []string, error) {
	keys := make([]string, 0, len(initial))
	for key := range initial {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	batch := make([]types.Change, len(keys))
	for i, key := range keys {
		doc, err := q.conv(key, initial[key])
		if err != nil {
			return nil, nil, err
		}
		batch[i] = types.Change{
			Index:   i,
			Doc:     doc,
			Kind:    types.ChangeAdded,
			Durable: true,
		}
	}

	return batch, keys, nil
}

// translate maps one post-replay bucket update to an indexed change and the
// updated key set. Entries that decode badly or delete unknown keys are
// skipped.
func (q *Query) translate(keys []string, entry jetstream.KeyValueEntry) (types.Change, []string, bool) {
	key := entry.Key()
	idx := sort.SearchStrings(keys, key)
	exists := idx < len(keys) && keys[idx] == key

	switch entry.Operation() {
	case jetstream.KeyValueDelete, jetstream.KeyValuePurge:
		if !exists {
			return types.Change{}, keys, false
		}

		change := types.Change{
			Index:   idx,
			Doc:     types.NewDocument(key, nil),
			Kind:    types.ChangeRemoved,
			Durable: true,
		}
		keys = append(keys[:idx], keys[idx+1:]...)

		return change, keys, true

	default:
		doc, err := q.conv(key, entry.Value())
		if err != nil {
			q.logger.Error("failed to decode bucket entry", "key", key, "error", err)
			return types.Change{}, keys, false
		}

		kind := types.ChangeAdded
		if exists {
			kind = types.ChangeModified
		} else {
			keys = append(keys, "")
			copy(keys[idx+1:], keys[idx:])
			keys[idx] = key
		}

		return types.Change{
			Index:   idx,
			Doc:     doc,
			Kind:    kind,
			Durable: true,
		}, keys, true
	}
}
