package source

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/faresg/vuefire/types"
)

// recorder buffers subscription callbacks for assertions.
type recorder struct {
	batches chan []types.Change
	errs    chan error
}

func newRecorder() *recorder {
	return &recorder{
		batches: make(chan []types.Change, 64),
		errs:    make(chan error, 4),
	}
}

func (r *recorder) next(t *testing.T) []types.Change {
	t.Helper()

	select {
	case batch := <-r.batches:
		return batch
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a change batch")
		return nil
	}
}

func (r *recorder) nextErr(t *testing.T) error {
	t.Helper()

	select {
	case err := <-r.errs:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a subscription error")
		return nil
	}
}

func (r *recorder) expectNone(t *testing.T) {
	t.Helper()

	select {
	case batch := <-r.batches:
		t.Fatalf("unexpected change batch: %v", batch)
	case <-time.After(100 * time.Millisecond):
	}
}

// subscribe attaches a recorder and returns it with the cancel func.
func subscribe(t *testing.T, c *Collection) (*recorder, types.CancelFunc) {
	t.Helper()

	r := newRecorder()
	cancel, err := c.Query().Subscribe(t.Context(),
		func(batch []types.Change) { r.batches <- batch },
		func(err error) { r.errs <- err },
	)
	require.NoError(t, err)
	t.Cleanup(cancel)

	return r, cancel
}

func TestCollectionInitialSnapshot(t *testing.T) {
	t.Run("empty collection delivers an empty batch", func(t *testing.T) {
		c := NewCollection(nil)
		defer c.Close()

		r, _ := subscribe(t, c)

		batch := r.next(t)
		require.NotNil(t, batch)
		require.Empty(t, batch)
	})

	t.Run("existing documents replay as adds in key order", func(t *testing.T) {
		c := NewCollection(nil)
		defer c.Close()

		_, err := c.Set("b", map[string]any{"n": 2})
		require.NoError(t, err)
		_, err = c.Set("a", map[string]any{"n": 1})
		require.NoError(t, err)

		r, _ := subscribe(t, c)

		batch := r.next(t)
		require.Len(t, batch, 2)
		require.Equal(t, "a", batch[0].Doc.ID())
		require.Equal(t, 0, batch[0].Index)
		require.Equal(t, "b", batch[1].Doc.ID())
		require.Equal(t, 1, batch[1].Index)
		for _, ch := range batch {
			require.Equal(t, types.ChangeAdded, ch.Kind)
			require.True(t, ch.Durable)
		}
	})
}

func TestCollectionMutations(t *testing.T) {
	c := NewCollection(nil)
	defer c.Close()

	r, _ := subscribe(t, c)
	require.Empty(t, r.next(t))

	t.Run("add generates an id and settles immediately", func(t *testing.T) {
		w, err := c.Add(map[string]any{"n": 1})
		require.NoError(t, err)
		require.NotEmpty(t, w.DocID())
		require.NoError(t, w.Err())

		batch := r.next(t)
		require.Len(t, batch, 1)
		require.Equal(t, types.ChangeAdded, batch[0].Kind)
		require.True(t, batch[0].Durable)
		require.Equal(t, w.DocID(), batch[0].Doc.ID())

		require.NoError(t, c.Abort(w.DocID(), nil))
		require.Equal(t, types.ChangeRemoved, r.next(t)[0].Kind)
	})

	t.Run("set inserts at the sorted position", func(t *testing.T) {
		for _, id := range []string{"a", "c"} {
			_, err := c.Set(id, map[string]any{"id": id})
			require.NoError(t, err)
			r.next(t)
		}

		_, err := c.Set("b", map[string]any{"id": "b"})
		require.NoError(t, err)

		batch := r.next(t)
		require.Equal(t, types.ChangeAdded, batch[0].Kind)
		require.Equal(t, 1, batch[0].Index)
		require.Equal(t, []string{"a", "b", "c"}, docKeys(c))
	})

	t.Run("set on an existing id modifies", func(t *testing.T) {
		_, err := c.Set("b", map[string]any{"id": "b", "n": 2})
		require.NoError(t, err)

		batch := r.next(t)
		require.Equal(t, types.ChangeModified, batch[0].Kind)
		require.Equal(t, 1, batch[0].Index)
	})

	t.Run("identical content is not echoed", func(t *testing.T) {
		_, err := c.Set("b", map[string]any{"id": "b", "n": 2})
		require.NoError(t, err)
		r.expectNone(t)
	})

	t.Run("update merges fields", func(t *testing.T) {
		_, err := c.Update("b", map[string]any{"extra": true})
		require.NoError(t, err)

		batch := r.next(t)
		require.Equal(t, types.ChangeModified, batch[0].Kind)

		doc, ok := c.Get("b")
		require.True(t, ok)
		v, ok := doc.Field("id")
		require.True(t, ok)
		require.Equal(t, "b", v)
		_, ok = doc.Field("extra")
		require.True(t, ok)
	})

	t.Run("update of a missing id fails", func(t *testing.T) {
		_, err := c.Update("nope", map[string]any{})
		require.ErrorIs(t, err, types.ErrDocNotFound)
	})

	t.Run("delete removes by index", func(t *testing.T) {
		w, err := c.Delete("a")
		require.NoError(t, err)
		require.NoError(t, w.Err())

		batch := r.next(t)
		require.Equal(t, types.ChangeRemoved, batch[0].Kind)
		require.Equal(t, 0, batch[0].Index)
		require.Equal(t, []string{"b", "c"}, docKeys(c))
	})

	t.Run("delete of a missing id fails", func(t *testing.T) {
		_, err := c.Delete("a")
		require.ErrorIs(t, err, types.ErrDocNotFound)
	})

	t.Run("empty id is rejected", func(t *testing.T) {
		_, err := c.Set("", map[string]any{})
		require.ErrorIs(t, err, types.ErrInvalidConfig)
	})
}

func TestManualCommit(t *testing.T) {
	t.Run("writes echo provisionally and settle on commit", func(t *testing.T) {
		c := NewCollection(&CollectionOptions{ManualCommit: true})
		defer c.Close()

		r, _ := subscribe(t, c)
		r.next(t)

		w, err := c.Add(map[string]any{"n": 1})
		require.NoError(t, err)

		batch := r.next(t)
		require.False(t, batch[0].Durable)

		select {
		case <-w.Done():
			t.Fatal("write settled before commit")
		default:
		}

		require.NoError(t, c.Commit(w.DocID()))

		batch = r.next(t)
		require.Equal(t, types.ChangeModified, batch[0].Kind)
		require.True(t, batch[0].Durable)
		require.NoError(t, w.Err())
	})

	t.Run("commit is a no-op for durable documents", func(t *testing.T) {
		c := NewCollection(&CollectionOptions{ManualCommit: true})
		defer c.Close()

		w, err := c.Add(map[string]any{"n": 1})
		require.NoError(t, err)
		require.NoError(t, c.Commit(w.DocID()))
		require.NoError(t, c.Commit(w.DocID()))
	})

	t.Run("abort rolls the document back and fails the write", func(t *testing.T) {
		c := NewCollection(&CollectionOptions{ManualCommit: true})
		defer c.Close()

		r, _ := subscribe(t, c)
		r.next(t)

		w, err := c.Add(map[string]any{"n": 1})
		require.NoError(t, err)
		r.next(t)

		cause := errors.New("constraint violated")
		require.NoError(t, c.Abort(w.DocID(), cause))

		batch := r.next(t)
		require.Equal(t, types.ChangeRemoved, batch[0].Kind)
		require.True(t, batch[0].Durable)
		require.ErrorIs(t, w.Err(), cause)
		require.Zero(t, c.Len())
	})

	t.Run("abort without a cause uses the default", func(t *testing.T) {
		c := NewCollection(&CollectionOptions{ManualCommit: true})
		defer c.Close()

		w, err := c.Add(map[string]any{"n": 1})
		require.NoError(t, err)
		require.NoError(t, c.Abort(w.DocID(), nil))
		require.ErrorIs(t, w.Err(), ErrAborted)
	})
}

func TestCollectionClose(t *testing.T) {
	t.Run("terminates live queries", func(t *testing.T) {
		c := NewCollection(nil)

		r, _ := subscribe(t, c)
		r.next(t)

		c.Close()
		require.ErrorIs(t, r.nextErr(t), types.ErrCollectionClosed)
	})

	t.Run("rejects further operations", func(t *testing.T) {
		c := NewCollection(nil)
		c.Close()
		c.Close()

		_, err := c.Add(map[string]any{})
		require.ErrorIs(t, err, types.ErrCollectionClosed)

		_, err = c.Query().Subscribe(t.Context(), func([]types.Change) {}, nil)
		require.ErrorIs(t, err, types.ErrCollectionClosed)
	})

	t.Run("fails pending completion signals", func(t *testing.T) {
		c := NewCollection(&CollectionOptions{ManualCommit: true})

		w, err := c.Add(map[string]any{"n": 1})
		require.NoError(t, err)

		c.Close()
		require.ErrorIs(t, w.Err(), types.ErrCollectionClosed)
	})
}

func TestSubscriptionCancel(t *testing.T) {
	c := NewCollection(nil)
	defer c.Close()

	r, cancel := subscribe(t, c)
	r.next(t)

	cancel()
	cancel()

	_, err := c.Add(map[string]any{"n": 1})
	require.NoError(t, err)
	r.expectNone(t)
}

func docKeys(c *Collection) []string {
	docs := c.Docs()
	keys := make([]string, len(docs))
	for i, d := range docs {
		keys[i] = d.ID()
	}

	return keys
}
