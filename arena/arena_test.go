package arena

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppendBases(t *testing.T) {
	a := New(0)
	require.Equal(t, int64(0), a.Append([]byte("abc")))
	require.Equal(t, int64(3), a.Append(nil))
	require.Equal(t, int64(3), a.Append([]byte("de")))
	require.Equal(t, int64(5), a.Len())
	require.Equal(t, 2, a.Chunks())
	require.Equal(t, []byte("de"), a.Chunk(3))
	require.Nil(t, a.Chunk(4))
}

func TestAppendCopies(t *testing.T) {
	a := New(1)
	p := []byte("xyz")
	a.Append(p)
	p[0] = 'q'
	s, ok := a.Slice(0, 3)
	require.True(t, ok)
	b, ok := a.Resolve(s)
	require.True(t, ok)
	require.Equal(t, "xyz", string(b))
}

func TestSliceBounds(t *testing.T) {
	a := New(2)
	a.Append([]byte("hello"))
	a.Append([]byte("world"))

	s, ok := a.Slice(6, 3)
	require.True(t, ok)
	require.Equal(t, "orl", a.String(s))
	require.Equal(t, 3, s.Len())

	_, ok = a.Slice(3, 4)
	require.False(t, ok, "crossing chunks")
	_, ok = a.Slice(8, 5)
	require.False(t, ok, "past end")
	_, ok = a.Slice(-1, 1)
	require.False(t, ok)

	e, ok := a.Slice(10, 0)
	require.True(t, ok)
	b, ok := a.Resolve(e)
	require.True(t, ok)
	require.Empty(t, b)
}

func TestResolveInvalid(t *testing.T) {
	a := New(0)
	a.Append([]byte("abc"))
	other := New(0)
	other.Append([]byte("abc"))

	_, ok := a.Resolve(Slice{})
	require.False(t, ok)
	require.True(t, Slice{}.IsZero())

	s, ok := other.Slice(0, 3)
	require.True(t, ok)
	_, ok = a.Resolve(s)
	require.False(t, ok, "foreign slice")

	s, ok = a.Slice(1, 2)
	require.True(t, ok)
	a.Release()
	_, ok = a.Resolve(s)
	require.False(t, ok, "released")
	require.Equal(t, "", a.String(s))
	require.Equal(t, int64(0), a.Len())

	var nilArena *Arena
	_, ok = nilArena.Resolve(s)
	require.False(t, ok)
}

func TestResolveIsCapped(t *testing.T) {
	a := New(0)
	a.Append([]byte("abcdef"))
	s, _ := a.Slice(1, 2)
	b, ok := a.Resolve(s)
	require.True(t, ok)
	b = append(b, 'Z')
	require.Equal(t, "abcdef", a.String(mustSlice(t, a, 0, 6)))
	require.Equal(t, "bcZ", string(b))
}

func TestWideOffsets(t *testing.T) {
	a := New(0)
	a.Append([]byte("abc"))
	s := mustSlice(t, a, 1, 1)
	// an offset past 32 bits must not wrap onto the chunk
	s.off += 1 << 32
	_, ok := a.Resolve(s)
	require.False(t, ok)
	s.off, s.n = 1, 1<<32
	_, ok = a.Resolve(s)
	require.False(t, ok)
	_, ok = a.Slice(0, 1<<32)
	require.False(t, ok)
}

func mustSlice(t *testing.T, a *Arena, off int64, n int) Slice {
	t.Helper()
	s, ok := a.Slice(off, n)
	require.True(t, ok)
	return s
}
