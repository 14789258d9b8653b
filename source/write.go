package source

import (
	"sync"

	"github.com/faresg/vuefire/types"
)

// Write is the completion signal of one collection write operation.
//
// It settles exactly once: nil on success, the write error otherwise. Feed
// it to Binder.ObserveWrite to promote the write's provisional echo under
// the wait option.
type Write struct {
	docID string
	done  chan error
	once  sync.Once
}

// Compile-time assertion that Write implements WriteResult.
var _ types.WriteResult = (*Write)(nil)

func newWrite(docID string) *Write {
	return &Write{
		docID: docID,
		done:  make(chan error, 1),
	}
}

// DocID returns the identity of the document the write targets.
func (w *Write) DocID() string {
	return w.docID
}

// Done returns the completion channel: it receives the write outcome once,
// then is closed.
func (w *Write) Done() <-chan error {
	return w.done
}

// Err blocks until the write settles and returns its outcome.
func (w *Write) Err() error {
	return <-w.done
}

// settle records the write outcome. Later calls are no-ops.
func (w *Write) settle(err error) {
	w.once.Do(func() {
		w.done <- err
		close(w.done)
	})
}
