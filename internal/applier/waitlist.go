package applier

import "github.com/faresg/vuefire/types"

// mask is what the visible list shows for a document whose provisional
// change is held back: nothing for a deferred add, the pre-change value for
// a deferred modify.
type mask struct {
	prev    types.Document
	present bool
}

// waitList tracks wait-mode bookkeeping per document identity.
//
// A document id is in one of three states: absent (normal), masked (a
// provisional change arrived and no confirmation has), or pre-confirmed
// (the write completion settled before its provisional echo arrived).
// settled additionally remembers ids whose mask was revealed by a durable
// change while the write's completion signal was still outstanding.
type waitList struct {
	masks        map[string]mask
	preConfirmed map[string]struct{}
	settled      map[string]struct{}
}

func newWaitList() *waitList {
	return &waitList{
		masks:        make(map[string]mask),
		preConfirmed: make(map[string]struct{}),
		settled:      make(map[string]struct{}),
	}
}

// clone returns an independent copy, used so a failed batch leaves the
// original bookkeeping untouched.
func (w *waitList) clone() *waitList {
	c := newWaitList()
	for id, m := range w.masks {
		c.masks[id] = m
	}
	for id := range w.preConfirmed {
		c.preConfirmed[id] = struct{}{}
	}
	for id := range w.settled {
		c.settled[id] = struct{}{}
	}

	return c
}

// hold masks the document. A document already masked keeps its original
// mask, so stacked provisional changes still reveal the oldest confirmed
// value. Returns false if it was already masked.
func (w *waitList) hold(id string, m mask) bool {
	if _, ok := w.masks[id]; ok {
		return false
	}
	w.masks[id] = m

	return true
}

// masked returns the document's mask, if any.
func (w *waitList) masked(id string) (mask, bool) {
	m, ok := w.masks[id]
	return m, ok
}

// maskCount returns the number of masked documents.
func (w *waitList) maskCount() int {
	return len(w.masks)
}

// confirmed consumes a pre-confirmation for the document if one is pending.
func (w *waitList) confirmed(id string) bool {
	if _, ok := w.preConfirmed[id]; !ok {
		return false
	}
	delete(w.preConfirmed, id)

	return true
}

// promote unmasks a document. Returns false if it was not masked.
func (w *waitList) promote(id string) bool {
	if _, ok := w.masks[id]; !ok {
		return false
	}
	delete(w.masks, id)

	return true
}

// settleDurable handles a durable change for the document. Durable state
// supersedes any completion bookkeeping: a stale pre-confirmation is
// forgotten, and a revealed mask leaves a settled marker so the write's late
// completion signal is not mistaken for a pre-confirmation of the next
// provisional write. Returns whether a mask was revealed.
func (w *waitList) settleDurable(id string) bool {
	delete(w.preConfirmed, id)
	if !w.promote(id) {
		return false
	}
	w.settled[id] = struct{}{}

	return true
}

// confirm handles an external write completion. If the document is masked it
// is revealed and confirm returns true. A completion matching a durable
// settlement is consumed silently. Otherwise the confirmation is stored for
// the echo that has not arrived yet.
func (w *waitList) confirm(id string) bool {
	if w.promote(id) {
		return true
	}
	if _, ok := w.settled[id]; ok {
		delete(w.settled, id)
		return false
	}
	w.preConfirmed[id] = struct{}{}

	return false
}

// drop forgets all bookkeeping for the document.
func (w *waitList) drop(id string) {
	delete(w.masks, id)
	delete(w.preConfirmed, id)
	delete(w.settled, id)
}
