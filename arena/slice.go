package arena

import "fmt"

// Slice is a non-owning reference to a contiguous range of one chunk.
// The zero value refers to nothing.
type Slice struct {
	id    uint64
	chunk int
	off   int64
	n     int64
}

// Len returns the number of bytes referenced.
func (s Slice) Len() int {
	return int(s.n)
}

// IsZero reports whether s is the zero Slice.
func (s Slice) IsZero() bool {
	return s.id == 0
}

func (s Slice) String() string {
	if s.IsZero() {
		return "slice(nil)"
	}
	return fmt.Sprintf("slice(%d:%d+%d)", s.chunk, s.off, s.n)
}
