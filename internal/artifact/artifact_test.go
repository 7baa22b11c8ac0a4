package artifact

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestArtifact_BytesAndSize(t *testing.T) {
	a := New([]byte{1, 2, 3}, "image/jpeg")

	require.NotEmpty(t, a.ID)
	require.Equal(t, "image/jpeg", a.ContentType)
	require.Equal(t, []byte{1, 2, 3}, a.Bytes())
	require.Equal(t, 3, a.Size())
	require.False(t, a.Released())
}

func TestArtifact_ReleaseIsIdempotent(t *testing.T) {
	a := New([]byte{1, 2, 3}, "image/jpeg")

	a.Release()
	require.True(t, a.Released())
	require.Nil(t, a.Bytes())

	// Second release must be a no-op.
	a.Release()
	require.True(t, a.Released())
}

func TestWindow_NeverExceedsCap(t *testing.T) {
	var w Window

	a1 := New([]byte{1}, "image/jpeg")
	a2 := New([]byte{2}, "image/jpeg")
	a3 := New([]byte{3}, "image/jpeg")

	w.Push(a1)
	w.Push(a2)
	require.Equal(t, 2, w.Len())
	require.False(t, a1.Released())

	w.Push(a3)
	require.Equal(t, 2, w.Len())
	require.True(t, a1.Released(), "oldest handle must be released before the third is added")
	require.False(t, a2.Released())
	require.False(t, a3.Released())
}

func TestWindow_TrimTo(t *testing.T) {
	var w Window

	a1 := New([]byte{1}, "image/jpeg")
	a2 := New([]byte{2}, "image/jpeg")
	w.Push(a1)
	w.Push(a2)

	w.TrimTo(1)
	require.Equal(t, 1, w.Len())
	require.True(t, a1.Released())
	require.False(t, a2.Released(), "the currently displayed slide stays alive for the presentation layer")

	w.TrimTo(0)
	require.Equal(t, 0, w.Len())
	require.True(t, a2.Released())
}
