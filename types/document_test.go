package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDocument(t *testing.T) {
	t.Run("carries identity next to the fields", func(t *testing.T) {
		d := NewDocument("doc-1", map[string]any{"title": "first"})

		require.Equal(t, "doc-1", d.ID())

		v, ok := d.Field("title")
		require.True(t, ok)
		require.Equal(t, "first", v)

		_, ok = d.Field("missing")
		require.False(t, ok)
	})

	t.Run("clone is independent at the top level", func(t *testing.T) {
		d := NewDocument("doc-1", map[string]any{"n": 1})
		c := d.Clone()

		c.Fields["n"] = 2

		v, _ := d.Field("n")
		require.Equal(t, 1, v)
		require.Equal(t, "doc-1", c.ID())
	})

	t.Run("clone of nil fields", func(t *testing.T) {
		d := NewDocument("doc-1", nil)
		c := d.Clone()

		require.Equal(t, "doc-1", c.ID())
		require.Nil(t, c.Fields)
	})
}

func TestDocumentEqual(t *testing.T) {
	t.Run("identity is excluded", func(t *testing.T) {
		a := NewDocument("a", map[string]any{"n": 1})
		b := NewDocument("b", map[string]any{"n": 1})

		require.True(t, a.Equal(b))
	})

	t.Run("field differences are detected", func(t *testing.T) {
		a := NewDocument("a", map[string]any{"n": 1})
		b := NewDocument("a", map[string]any{"n": 2})
		c := NewDocument("a", map[string]any{"n": 1, "m": 2})

		require.False(t, a.Equal(b))
		require.False(t, a.Equal(c))
	})
}

func TestDocumentMarshalJSON(t *testing.T) {
	t.Run("identity is not serialized", func(t *testing.T) {
		d := NewDocument("doc-1", map[string]any{"title": "first"})

		data, err := json.Marshal(d)
		require.NoError(t, err)
		require.JSONEq(t, `{"title":"first"}`, string(data))
	})

	t.Run("nil fields encode as empty object", func(t *testing.T) {
		d := NewDocument("doc-1", nil)

		data, err := json.Marshal(d)
		require.NoError(t, err)
		require.JSONEq(t, `{}`, string(data))
	})
}

func TestDefaultConverter(t *testing.T) {
	t.Run("decodes a JSON object", func(t *testing.T) {
		d, err := DefaultConverter("doc-1", []byte(`{"title":"first","year":1851}`))
		require.NoError(t, err)
		require.Equal(t, "doc-1", d.ID())

		title, _ := d.Field("title")
		require.Equal(t, "first", title)
	})

	t.Run("rejects malformed payloads", func(t *testing.T) {
		_, err := DefaultConverter("doc-1", []byte(`not json`))
		require.Error(t, err)
	})
}

func TestChangeKindString(t *testing.T) {
	require.Equal(t, "added", ChangeAdded.String())
	require.Equal(t, "modified", ChangeModified.String())
	require.Equal(t, "removed", ChangeRemoved.String())
}
