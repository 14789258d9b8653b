package vuefire

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/faresg/vuefire/types"
)

func TestFuture(t *testing.T) {
	t.Run("resolve settles once", func(t *testing.T) {
		f := newFuture()
		docs := []types.Document{types.NewDocument("a", nil)}

		f.resolve(docs)
		f.reject(errors.New("too late"))

		got, err := f.Result()
		require.NoError(t, err)
		require.Equal(t, docs, got)
	})

	t.Run("reject settles once", func(t *testing.T) {
		f := newFuture()
		cause := errors.New("boom")

		f.reject(cause)
		f.resolve([]types.Document{types.NewDocument("a", nil)})

		got, err := f.Result()
		require.ErrorIs(t, err, cause)
		require.Nil(t, got)
	})

	t.Run("result before settling returns nothing", func(t *testing.T) {
		f := newFuture()

		got, err := f.Result()
		require.NoError(t, err)
		require.Nil(t, got)

		select {
		case <-f.Done():
			t.Fatal("future settled prematurely")
		default:
		}
	})

	t.Run("await honors context cancellation", func(t *testing.T) {
		f := newFuture()

		ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
		defer cancel()

		_, err := f.Await(ctx)
		require.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("await returns the settled outcome", func(t *testing.T) {
		f := newFuture()
		docs := []types.Document{types.NewDocument("a", nil)}

		go f.resolve(docs)

		got, err := f.Await(t.Context())
		require.NoError(t, err)
		require.Equal(t, docs, got)
	})
}
