package token

import (
	"fmt"
	"sort"
)

// PosDoc maps absolute offsets to zero based line and column numbers.
// Newlines are recorded with Scan as the input is read.
type PosDoc struct {
	n    []int64
	seen int64
}

// Scan records the newlines of p, which starts at the offset following
// all previously scanned bytes.
func (p *PosDoc) Scan(d []byte) {
	for i, c := range d {
		if c == '\n' {
			p.n = append(p.n, p.seen+int64(i))
		}
	}
	p.seen += int64(len(d))
}

// NewPosDoc returns a PosDoc for a complete document.
func NewPosDoc(d []byte) *PosDoc {
	p := &PosDoc{}
	p.Scan(d)
	return p
}

func (p *PosDoc) LineCol(off int64) (int, int) {
	N := len(p.n)
	di := sort.Search(N, func(i int) bool {
		return p.n[i] >= off
	})
	if di == 0 {
		return 0, int(off)
	}
	return di, int(off - p.n[di-1] - 1)
}

// Offset is the inverse of LineCol. Columns past the end of a line are
// clamped to the line end.
func (p *PosDoc) Offset(line, col int) int64 {
	if line <= 0 {
		return min(int64(col), p.lineEnd(0))
	}
	if line > len(p.n) {
		return p.seen
	}
	start := p.n[line-1] + 1
	return min(start+int64(col), p.lineEnd(line))
}

func (p *PosDoc) lineEnd(line int) int64 {
	if line < len(p.n) {
		return p.n[line]
	}
	return p.seen
}

func (p *PosDoc) Pos(off int64) Pos {
	return Pos{I: off, D: p}
}

type Pos struct {
	I int64
	D *PosDoc
}

func (p Pos) LineCol() (int, int) {
	return p.D.LineCol(p.I)
}

// String formats p as 1 based line:col.
func (p Pos) String() string {
	l, c := p.LineCol()
	return fmt.Sprintf("%d:%d", l+1, c+1)
}
