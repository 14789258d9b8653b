package source

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/zeebo/xxh3"

	"github.com/faresg/vuefire/types"
)

// ErrAborted is the default outcome of an aborted provisional write when the
// caller supplies no cause.
var ErrAborted = errors.New("write aborted")

// CollectionOptions configures an in-memory collection.
type CollectionOptions struct {
	// ManualCommit keeps writes provisional. Mutations are echoed to
	// subscribers immediately as non-durable changes and their completion
	// signals stay pending until Commit or Abort is called for the document.
	//
	// When false (the default), every mutation is durable at once and its
	// completion signal settles immediately.
	ManualCommit bool

	// Converter maps the stored JSON record to a document. Defaults to
	// types.DefaultConverter.
	Converter types.Converter
}

// entry is one stored document, ordered by key ascending.
type entry struct {
	key     string
	fields  map[string]any
	hash    uint64
	durable bool
	doc     types.Document
}

// Collection is an in-memory ordered document store with live queries.
//
// Documents are ordered by id ascending. Every mutation is echoed to all
// live subscribers as an indexed change batch, and returns a Write whose
// completion signal settles per the ManualCommit option. The zero number of
// subscribers is fine; mutations simply update the store.
//
// All methods are safe for concurrent use.
type Collection struct {
	mu      sync.Mutex
	opts    CollectionOptions
	docs    []entry
	subs    map[uint64]*subscriber
	nextSub uint64
	pending map[string][]*Write
	closed  bool
}

// NewCollection creates an empty collection. A nil opts uses defaults.
func NewCollection(opts *CollectionOptions) *Collection {
	o := CollectionOptions{}
	if opts != nil {
		o = *opts
	}
	if o.Converter == nil {
		o.Converter = types.DefaultConverter
	}

	return &Collection{
		opts:    o,
		subs:    make(map[uint64]*subscriber),
		pending: make(map[string][]*Write),
	}
}

// Query returns a live query over the whole collection, ordered by id.
func (c *Collection) Query() types.Query {
	return &liveQuery{c: c}
}

// Add stores a new document under a generated id and returns its write.
func (c *Collection) Add(fields map[string]any) (*Write, error) {
	return c.put(uuid.NewString(), fields, false)
}

// Set stores the document under the given id, replacing any existing fields.
func (c *Collection) Set(id string, fields map[string]any) (*Write, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty document id", types.ErrInvalidConfig)
	}

	return c.put(id, fields, false)
}

// Update merges fields into an existing document. Returns
// types.ErrDocNotFound when the id is absent.
func (c *Collection) Update(id string, fields map[string]any) (*Write, error) {
	c.mu.Lock()
	merged, err := c.mergedLocked(id, fields)
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}

	return c.put(id, merged, true)
}

// Delete removes the document. The emitted change is always durable; any
// completion signals still pending for the document fail.
func (c *Collection) Delete(id string) (*Write, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, types.ErrCollectionClosed
	}

	idx, ok := c.find(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", types.ErrDocNotFound, id)
	}

	doc := c.docs[idx].doc
	c.docs = append(c.docs[:idx], c.docs[idx+1:]...)

	c.broadcastLocked([]types.Change{{
		Index:   idx,
		Doc:     doc,
		Kind:    types.ChangeRemoved,
		Durable: true,
	}})

	c.settlePendingLocked(id, fmt.Errorf("%w: deleted before commit", types.ErrDocNotFound))

	w := newWrite(id)
	w.settle(nil)

	return w, nil
}

// Commit marks a provisional document durable, re-emits it as a durable
// change and settles its pending completion signals with nil.
//
// Committing an already durable document is a no-op.
func (c *Collection) Commit(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return types.ErrCollectionClosed
	}

	idx, ok := c.find(id)
	if !ok {
		return fmt.Errorf("%w: %q", types.ErrDocNotFound, id)
	}
	if c.docs[idx].durable {
		return nil
	}

	c.docs[idx].durable = true

	c.broadcastLocked([]types.Change{{
		Index:   idx,
		Doc:     c.docs[idx].doc,
		Kind:    types.ChangeModified,
		Durable: true,
	}})

	c.settlePendingLocked(id, nil)

	return nil
}

// Abort rolls a provisional document back out of the collection, emits a
// durable removal and settles its pending completion signals with cause
// (ErrAborted when cause is nil).
func (c *Collection) Abort(id string, cause error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return types.ErrCollectionClosed
	}

	idx, ok := c.find(id)
	if !ok {
		return fmt.Errorf("%w: %q", types.ErrDocNotFound, id)
	}

	if cause == nil {
		cause = ErrAborted
	}

	doc := c.docs[idx].doc
	c.docs = append(c.docs[:idx], c.docs[idx+1:]...)

	c.broadcastLocked([]types.Change{{
		Index:   idx,
		Doc:     doc,
		Kind:    types.ChangeRemoved,
		Durable: true,
	}})

	c.settlePendingLocked(id, cause)

	return nil
}

// Get returns the document stored under id.
func (c *Collection) Get(id string) (types.Document, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx, ok := c.find(id)
	if !ok {
		return types.Document{}, false
	}

	return c.docs[idx].doc, true
}

// Len returns the number of stored documents.
func (c *Collection) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.docs)
}

// Docs returns all stored documents in id order.
func (c *Collection) Docs() []types.Document {
	c.mu.Lock()
	defer c.mu.Unlock()

	docs := make([]types.Document, len(c.docs))
	for i, e := range c.docs {
		docs[i] = e.doc
	}

	return docs
}

// Close terminates all live queries with types.ErrCollectionClosed and fails
// pending completion signals. Further mutations return
// types.ErrCollectionClosed. Close is idempotent.
func (c *Collection) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true

	for _, sub := range c.subs {
		sub.fail(types.ErrCollectionClosed)
	}
	c.subs = make(map[uint64]*subscriber)

	for id := range c.pending {
		c.settlePendingLocked(id, types.ErrCollectionClosed)
	}
}

// put upserts the document and echoes the change.
func (c *Collection) put(id string, fields map[string]any, mustExist bool) (*Write, error) {
	data, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document %q: %w", id, err)
	}

	doc, err := c.opts.Converter(id, data)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, types.ErrCollectionClosed
	}

	idx, exists := c.find(id)
	if mustExist && !exists {
		return nil, fmt.Errorf("%w: %q", types.ErrDocNotFound, id)
	}

	durable := !c.opts.ManualCommit
	hash := xxh3.Hash(data)
	w := newWrite(id)

	if exists && c.docs[idx].hash == hash && c.docs[idx].durable && durable {
		// Content unchanged, no echo.
		w.settle(nil)
		return w, nil
	}

	e := entry{
		key:     id,
		fields:  maps.Clone(fields),
		hash:    hash,
		durable: durable,
		doc:     doc,
	}

	kind := types.ChangeAdded
	if exists {
		kind = types.ChangeModified
		c.docs[idx] = e
	} else {
		c.docs = append(c.docs, entry{})
		copy(c.docs[idx+1:], c.docs[idx:])
		c.docs[idx] = e
	}

	c.broadcastLocked([]types.Change{{
		Index:   idx,
		Doc:     doc,
		Kind:    kind,
		Durable: durable,
	}})

	if durable {
		w.settle(nil)
	} else {
		c.pending[id] = append(c.pending[id], w)
	}

	return w, nil
}

// mergedLocked returns the existing fields of id overlaid with fields.
func (c *Collection) mergedLocked(id string, fields map[string]any) (map[string]any, error) {
	idx, ok := c.find(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", types.ErrDocNotFound, id)
	}

	merged := maps.Clone(c.docs[idx].fields)
	if merged == nil {
		merged = make(map[string]any, len(fields))
	}
	maps.Copy(merged, fields)

	return merged, nil
}

// find locates id in the ordered store, or its insertion point.
func (c *Collection) find(id string) (int, bool) {
	idx := sort.Search(len(c.docs), func(i int) bool {
		return c.docs[i].key >= id
	})

	return idx, idx < len(c.docs) && c.docs[idx].key == id
}

// broadcastLocked enqueues the batch on every subscriber. Enqueuing under the
// collection lock gives all subscribers the same batch order.
func (c *Collection) broadcastLocked(batch []types.Change) {
	for _, sub := range c.subs {
		sub.push(batch)
	}
}

// settlePendingLocked settles and forgets all pending writes for id.
func (c *Collection) settlePendingLocked(id string, err error) {
	for _, w := range c.pending[id] {
		w.settle(err)
	}
	delete(c.pending, id)
}

// snapshotLocked builds the full-state batch delivered to a new subscriber.
// An empty collection yields an empty, non-nil batch so the subscriber still
// observes an initial snapshot.
func (c *Collection) snapshotLocked() []types.Change {
	batch := make([]types.Change, len(c.docs))
	for i, e := range c.docs {
		batch[i] = types.Change{
			Index:   i,
			Doc:     e.doc,
			Kind:    types.ChangeAdded,
			Durable: e.durable,
		}
	}

	return batch
}

func (c *Collection) unsubscribe(id uint64) {
	c.mu.Lock()
	sub, ok := c.subs[id]
	delete(c.subs, id)
	c.mu.Unlock()

	if ok {
		sub.close()
	}
}
