package sitetree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmpty(t *testing.T) {
	t.Parallel()

	var r Root[int]
	_, ok := r.Lookup("foo")
	require.False(t, ok)
	assert.Empty(t, r.Snapshot())
}

func TestSetAndLookup(t *testing.T) {
	t.Parallel()

	var r Root[int]
	r.Set("foo/bar", 42)

	got, ok := r.Lookup("foo/bar")
	require.True(t, ok)
	assert.Equal(t, 42, got)

	t.Run("directory", func(t *testing.T) {
		t.Parallel()

		_, ok := r.Lookup("foo")
		assert.False(t, ok)
	})

	t.Run("descendant", func(t *testing.T) {
		t.Parallel()

		_, ok := r.Lookup("foo/bar/baz")
		assert.False(t, ok)
	})

	t.Run("sibling", func(t *testing.T) {
		t.Parallel()

		_, ok := r.Lookup("foobar")
		assert.False(t, ok)
	})
}

func TestOverwrite(t *testing.T) {
	t.Parallel()

	var r Root[string]
	r.Set("a", "x")
	r.Set("a", "y")

	got, ok := r.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, "y", got)
	assert.Len(t, r.Snapshot(), 1)
}

func TestExtraneousSlashes(t *testing.T) {
	t.Parallel()

	var r Root[int]
	r.Set("foo////bar", 43)

	got, ok := r.Lookup("foo/bar")
	require.True(t, ok)
	assert.Equal(t, 43, got)

	got, ok = r.Lookup("foo///bar")
	require.True(t, ok)
	assert.Equal(t, 43, got)
}

func TestSnapshot(t *testing.T) {
	t.Parallel()

	var r Root[int]
	r.Set("guide/usage", 3)
	r.Set("guide", 1)
	r.Set("about", 0)
	r.Set("guide/install", 2)

	assert.Equal(t, []Snapshot[int]{
		{
			Path:  "about",
			Name:  "about",
			Value: ptrTo(0),
		},
		{
			Path:  "guide",
			Name:  "guide",
			Value: ptrTo(1),
			Children: []Snapshot[int]{
				{Path: "guide/install", Name: "install", Value: ptrTo(2)},
				{Path: "guide/usage", Name: "usage", Value: ptrTo(3)},
			},
		},
	}, r.Snapshot())
}

func TestSnapshot_IsDir(t *testing.T) {
	t.Parallel()

	var r Root[int]
	r.Set("a/b/c", 1)

	snaps := r.Snapshot()
	require.Len(t, snaps, 1)

	a := snaps[0]
	assert.True(t, a.IsDir())
	assert.Nil(t, a.Value)

	require.Len(t, a.Children, 1)
	b := a.Children[0]
	assert.Equal(t, "a/b", b.Path)
	require.Len(t, b.Children, 1)

	c := b.Children[0]
	assert.False(t, c.IsDir())
	assert.Equal(t, "a/b/c", c.Path)
}

func ptrTo[T any](v T) *T { return &v }
