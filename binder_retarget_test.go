package vuefire

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/faresg/vuefire/cell"
	vftest "github.com/faresg/vuefire/testing"
	"github.com/faresg/vuefire/types"
)

func TestRetarget(t *testing.T) {
	t.Run("advances the generation and swaps the subscription", func(t *testing.T) {
		sq1 := vftest.NewScriptQuery()
		ref := cell.New[types.Query](sq1)

		b, err := NewBinder(&Config{}, ref, WithLogger(vftest.NewTestLogger(t)))
		require.NoError(t, err)
		require.NoError(t, b.Bind(t.Context()))
		require.Equal(t, uint64(1), b.Generation())

		sq2 := vftest.NewScriptQuery()
		ref.Set(sq2)

		require.Equal(t, uint64(2), b.Generation())
		require.Zero(t, sq1.Subscribers())
		require.Equal(t, 1, sq2.Subscribers())
	})

	t.Run("rejects the superseded pending promise", func(t *testing.T) {
		sq1 := vftest.NewScriptQuery()
		ref := cell.New[types.Query](sq1)

		b, err := NewBinder(&Config{}, ref, WithLogger(vftest.NewTestLogger(t)))
		require.NoError(t, err)
		require.NoError(t, b.Bind(t.Context()))

		old := b.Promise()
		ref.Set(vftest.NewScriptQuery())

		_, err = old.Await(t.Context())
		require.ErrorIs(t, err, ErrRetargeted)
		require.NotSame(t, old, b.Promise())
	})

	t.Run("stale batches from the old target are discarded", func(t *testing.T) {
		sq1 := vftest.NewScriptQuery()
		ref := cell.New[types.Query](sq1)

		b, err := NewBinder(&Config{}, ref, WithLogger(vftest.NewTestLogger(t)))
		require.NoError(t, err)
		require.NoError(t, b.Bind(t.Context()))

		sq1.Emit([]Change{added(0, "old", true)})
		require.Equal(t, []string{"old"}, docIDs(b.Data().Get()))

		oldGen := b.Generation()
		sq2 := vftest.NewScriptQuery()
		ref.Set(sq2)

		// The old subscription is cancelled outright.
		sq1.Emit([]Change{added(1, "straggler", true)})

		// A batch already in flight when the cancel landed carries the old
		// generation tag and is dropped by the guard.
		b.handleSnapshot(oldGen, []Change{added(1, "in-flight", true)})
		require.Equal(t, []string{"old"}, docIDs(b.Data().Get()))

		sq2.Emit([]Change{added(0, "new", true)})
		require.Equal(t, []string{"new"}, docIDs(b.Data().Get()))
	})

	t.Run("pending and error reset on retarget", func(t *testing.T) {
		sq1 := vftest.NewScriptQuery()
		ref := cell.New[types.Query](sq1)

		b, err := NewBinder(&Config{}, ref, WithLogger(vftest.NewTestLogger(t)))
		require.NoError(t, err)
		require.NoError(t, b.Bind(t.Context()))

		sq1.Fail(errors.New("upstream failed"))
		require.Error(t, b.Err().Get())

		sq2 := vftest.NewScriptQuery()
		ref.Set(sq2)

		require.NoError(t, b.Err().Get())
		require.True(t, b.Pending().Get())

		sq2.Emit([]Change{})
		require.False(t, b.Pending().Get())
	})

	t.Run("target prefill applies to the first generation only", func(t *testing.T) {
		sq1 := vftest.NewScriptQuery()
		ref := cell.New[types.Query](sq1)

		target := []Document{NewDocument("seed", nil)}
		b, err := NewBinder(&Config{Target: target}, ref, WithLogger(vftest.NewTestLogger(t)))
		require.NoError(t, err)
		require.NoError(t, b.Bind(t.Context()))

		sq2 := vftest.NewScriptQuery()
		ref.Set(sq2)

		// An empty second-generation snapshot leaves an empty list, not the
		// prefill.
		sq2.Emit([]Change{})
		require.Empty(t, b.Data().Get())
	})

	t.Run("clearing the reference parks the binder", func(t *testing.T) {
		sq1 := vftest.NewScriptQuery()
		ref := cell.New[types.Query](sq1)

		b, err := NewBinder(&Config{}, ref, WithLogger(vftest.NewTestLogger(t)))
		require.NoError(t, err)
		require.NoError(t, b.Bind(t.Context()))

		ref.Set(nil)
		require.Zero(t, sq1.Subscribers())
		require.True(t, b.Pending().Get())

		// A new target resumes normal operation.
		sq2 := vftest.NewScriptQuery()
		ref.Set(sq2)

		sq2.Emit([]Change{added(0, "a", true)})
		docs, err := b.Await(t.Context())
		require.NoError(t, err)
		require.Equal(t, []string{"a"}, docIDs(docs))
	})

	t.Run("retarget after unbind is ignored", func(t *testing.T) {
		sq1 := vftest.NewScriptQuery()
		ref := cell.New[types.Query](sq1)

		b, err := NewBinder(&Config{}, ref, WithLogger(vftest.NewTestLogger(t)))
		require.NoError(t, err)
		require.NoError(t, b.Bind(t.Context()))

		b.Unbind()
		gen := b.Generation()

		sq2 := vftest.NewScriptQuery()
		ref.Set(sq2)

		require.Equal(t, gen, b.Generation())
		require.Zero(t, sq2.Subscribers())
	})

	t.Run("wait bookkeeping resets per generation", func(t *testing.T) {
		sq1 := vftest.NewScriptQuery()
		ref := cell.New[types.Query](sq1)

		b, err := NewBinder(&Config{Wait: true}, ref, WithLogger(vftest.NewTestLogger(t)))
		require.NoError(t, err)
		require.NoError(t, b.Bind(t.Context()))

		sq1.Emit([]Change{added(0, "w1", false)})
		require.Equal(t, 1, b.DeferredWrites())

		sq2 := vftest.NewScriptQuery()
		ref.Set(sq2)

		require.Zero(t, b.DeferredWrites())
	})
}
