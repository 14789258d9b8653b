// Package applier implements the ordered collection synchronizer: it applies
// source-reported change batches to an ordered document list.
//
// The applier keeps two views of the collection. The shadow list is the full
// snapshot exactly as the source reports it, with every change applied
// strictly by index. The visible list is the shadow list with wait-mode
// masks applied: a document whose provisional add is unconfirmed is skipped,
// one whose provisional modify is unconfirmed shows its pre-change value.
// Keeping the shadow list complete means source-reported indices stay valid
// even while some documents are masked.
//
// The applier is not safe for concurrent use; the binder serializes all
// calls behind its own lock.
package applier

import (
	"fmt"
	"slices"

	"github.com/faresg/vuefire/types"
)

// Promotion triggers reported in Result and to metrics.
const (
	// TriggerDurable marks a deferred write promoted by a source-reported
	// durable change.
	TriggerDurable = "durable"

	// TriggerCompletion marks a deferred write promoted by the
	// caller-supplied write completion signal.
	TriggerCompletion = "completion"
)

// Result summarizes the effect of one applied change batch.
type Result struct {
	// Docs is the visible list after the batch, freshly allocated.
	Docs []types.Document

	// Deferred counts provisional changes newly held back by this batch.
	Deferred int

	// PromotedDurable counts deferred documents committed because the
	// source marked them durable in this batch.
	PromotedDurable int

	// PromotedCompletion counts provisional changes applied immediately
	// because their write completion signal had already settled.
	PromotedCompletion int
}

// Applier applies change batches to the bound ordered list.
type Applier struct {
	wait   bool
	shadow []types.Document
	holds  *waitList
}

// New creates an applier. When wait is true, provisional (non-durable)
// changes stay invisible until a durable version of the same document is
// observed or the write's completion signal settles.
func New(wait bool) *Applier {
	return &Applier{
		wait:  wait,
		holds: newWaitList(),
	}
}

// Seed replaces the full snapshot with the given documents and clears all
// wait-mode bookkeeping. Used for the initial target value.
func (a *Applier) Seed(docs []types.Document) {
	a.shadow = slices.Clone(docs)
	a.holds = newWaitList()
}

// Docs returns a copy of the visible list.
func (a *Applier) Docs() []types.Document {
	return a.visible()
}

// Apply applies one change batch in order and returns the resulting state.
//
// The batch is applied to a scratch copy and committed only when every
// record applies cleanly, so a malformed batch never leaves the list
// half-updated. Index validation is strict: a record whose index does not
// fit the current shadow list rejects the whole batch with
// types.ErrIndexOutOfRange.
func (a *Applier) Apply(batch []types.Change) (Result, error) {
	var res Result

	work := slices.Clone(a.shadow)
	holds := a.holds.clone()

	for _, ch := range batch {
		// Capture the pre-change value before a modify overwrites it; a
		// deferred modify keeps showing it.
		var prev types.Document
		if ch.Kind == types.ChangeModified && ch.Index >= 0 && ch.Index < len(work) {
			prev = work[ch.Index]
		}

		var err error
		work, err = applyChange(work, ch)
		if err != nil {
			return Result{}, err
		}

		if !a.wait {
			continue
		}

		id := ch.Doc.ID()
		switch {
		case ch.Kind == types.ChangeRemoved:
			// A removed document can no longer be pending.
			holds.drop(id)

		case ch.Durable:
			if holds.settleDurable(id) {
				res.PromotedDurable++
			}

		case id == "":
			// Custom converters may omit the identity; an anonymous
			// provisional change can never be matched to a completion
			// signal, so it is applied immediately.

		case holds.confirmed(id):
			res.PromotedCompletion++

		case ch.Kind == types.ChangeAdded:
			if holds.hold(id, mask{present: false}) {
				res.Deferred++
			}

		default: // ChangeModified
			if holds.hold(id, mask{prev: prev, present: true}) {
				res.Deferred++
			}
		}
	}

	a.shadow = work
	a.holds = holds
	res.Docs = a.visible()

	return res, nil
}

// Confirm reports that the write targeting docID has settled.
//
// If a provisional change for that document is currently masked, it becomes
// visible and Confirm returns true. Otherwise the confirmation is remembered
// so a later provisional echo for the same document applies immediately.
func (a *Applier) Confirm(docID string) bool {
	if docID == "" {
		return false
	}

	return a.holds.confirm(docID)
}

// Hidden returns the number of documents currently masked.
func (a *Applier) Hidden() int {
	return a.holds.maskCount()
}

// visible materializes the shadow list with wait-mode masks applied.
func (a *Applier) visible() []types.Document {
	if a.holds.maskCount() == 0 {
		return slices.Clone(a.shadow)
	}

	docs := make([]types.Document, 0, len(a.shadow))
	for _, d := range a.shadow {
		m, ok := a.holds.masked(d.ID())
		if !ok {
			docs = append(docs, d)
			continue
		}
		if m.present {
			docs = append(docs, m.prev)
		}
		// Deferred add: skipped entirely.
	}

	return docs
}

// applyChange applies a single change record to docs by source-reported index.
func applyChange(docs []types.Document, ch types.Change) ([]types.Document, error) {
	switch ch.Kind {
	case types.ChangeAdded:
		if ch.Index < 0 || ch.Index > len(docs) {
			return nil, fmt.Errorf("%w: added at index %d with %d documents", types.ErrIndexOutOfRange, ch.Index, len(docs))
		}

		return slices.Insert(docs, ch.Index, ch.Doc), nil

	case types.ChangeModified:
		if ch.Index < 0 || ch.Index >= len(docs) {
			return nil, fmt.Errorf("%w: modified at index %d with %d documents", types.ErrIndexOutOfRange, ch.Index, len(docs))
		}

		// Identity-preserving replace, not delete+insert.
		docs[ch.Index] = ch.Doc

		return docs, nil

	case types.ChangeRemoved:
		if ch.Index < 0 || ch.Index >= len(docs) {
			return nil, fmt.Errorf("%w: removed at index %d with %d documents", types.ErrIndexOutOfRange, ch.Index, len(docs))
		}

		return slices.Delete(docs, ch.Index, ch.Index+1), nil

	default:
		return nil, fmt.Errorf("unknown change kind %d", ch.Kind)
	}
}
