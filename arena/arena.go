// Package arena holds the bytes fed to a parser as an append-only list of
// immutable chunks and hands out Slice handles into them.
//
// An Arena has a single owner. Slices stay resolvable until Release is
// called, after which every previously issued Slice resolves to nothing.
package arena

import (
	"sort"
	"sync/atomic"
)

var lastID atomic.Uint64

func nextID() uint64 {
	return lastID.Add(1)
}

// Arena is an append-only store of byte chunks. Offsets returned by
// Append are in the arena's own linear address space: the first byte of
// the n-th chunk is at the sum of the lengths of chunks 0..n-1.
type Arena struct {
	id     uint64
	chunks [][]byte
	bases  []int64
	size   int64
}

// New creates an arena. sizeHint is the number of chunks to reserve room
// for; it never limits what can be appended.
func New(sizeHint int) *Arena {
	if sizeHint < 0 {
		sizeHint = 0
	}
	return &Arena{
		id:     nextID(),
		chunks: make([][]byte, 0, sizeHint),
		bases:  make([]int64, 0, sizeHint),
	}
}

// Append copies p into a new chunk and returns the chunk's base offset.
// Empty input appends nothing and returns the current size.
func (a *Arena) Append(p []byte) int64 {
	base := a.size
	if len(p) == 0 {
		return base
	}
	c := make([]byte, len(p))
	copy(c, p)
	a.chunks = append(a.chunks, c)
	a.bases = append(a.bases, base)
	a.size += int64(len(c))
	return base
}

// Chunk returns the bytes of the chunk starting at base, which must be a
// value returned by Append. The result must not be modified.
func (a *Arena) Chunk(base int64) []byte {
	i := a.find(base)
	if i < 0 || a.bases[i] != base {
		return nil
	}
	return a.chunks[i]
}

// Len returns the number of bytes appended so far.
func (a *Arena) Len() int64 {
	return a.size
}

// Chunks returns the number of chunks held.
func (a *Arena) Chunks() int {
	return len(a.chunks)
}

// Slice returns a handle for [off, off+n). It reports false when the
// range is out of bounds or crosses a chunk boundary. A zero length
// slice is valid anywhere in [0, Len()].
func (a *Arena) Slice(off int64, n int) (Slice, bool) {
	if n < 0 || off < 0 || off+int64(n) > a.size {
		return Slice{}, false
	}
	if n == 0 {
		return Slice{id: a.id, chunk: -1}, true
	}
	i := a.find(off)
	if i < 0 {
		return Slice{}, false
	}
	rel := off - a.bases[i]
	if rel+int64(n) > int64(len(a.chunks[i])) {
		return Slice{}, false
	}
	return Slice{id: a.id, chunk: i, off: rel, n: int64(n)}, true
}

// Resolve returns the bytes s refers to. It reports false when s is the
// zero Slice, was issued by another arena, or the arena was released.
func (a *Arena) Resolve(s Slice) ([]byte, bool) {
	if a == nil || s.id == 0 || s.id != a.id {
		return nil, false
	}
	if s.chunk < 0 {
		return []byte{}, true
	}
	if s.chunk >= len(a.chunks) {
		return nil, false
	}
	c := a.chunks[s.chunk]
	end := s.off + s.n
	if s.off < 0 || end > int64(len(c)) {
		return nil, false
	}
	return c[s.off:end:end], true
}

// String resolves s and returns its bytes as a string, or "" if it does
// not resolve.
func (a *Arena) String(s Slice) string {
	b, ok := a.Resolve(s)
	if !ok {
		return ""
	}
	return string(b)
}

// Release drops every chunk. Slices issued before Release no longer
// resolve; the arena may be reused afterwards.
func (a *Arena) Release() {
	a.id = nextID()
	a.chunks = nil
	a.bases = nil
	a.size = 0
}

func (a *Arena) find(off int64) int {
	n := len(a.bases)
	i := sort.Search(n, func(i int) bool {
		return a.bases[i] > off
	})
	return i - 1
}
