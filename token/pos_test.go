package token

import "testing"

func TestPosDoc(t *testing.T) {
	p := &PosDoc{}
	p.Scan([]byte("ab\nc"))
	p.Scan([]byte("d\n\nef"))
	cases := []struct {
		off       int64
		line, col int
	}{
		{0, 0, 0},
		{2, 0, 2},
		{3, 1, 0},
		{5, 1, 2},
		{6, 2, 0},
		{8, 3, 1},
	}
	for _, c := range cases {
		l, col := p.LineCol(c.off)
		if l != c.line || col != c.col {
			t.Errorf("%d: got %d:%d want %d:%d", c.off, l, col, c.line, c.col)
		}
		if back := p.Offset(l, col); back != c.off {
			t.Errorf("%d: offset round trip got %d", c.off, back)
		}
	}
	if got := p.Pos(5).String(); got != "2:3" {
		t.Errorf("got %s", got)
	}
}
