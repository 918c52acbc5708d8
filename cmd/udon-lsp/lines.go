package main

import (
	"unicode/utf8"

	"github.com/udon-format/go-udon/stream"
	"github.com/udon-format/go-udon/token"
	"go.lsp.dev/protocol"
)

// lines converts between byte offsets and LSP positions, whose
// characters count UTF-16 code units.
type lines struct {
	text []byte
	pd   *token.PosDoc
}

func newLines(text []byte) *lines {
	return &lines{text: text, pd: token.NewPosDoc(text)}
}

func (l *lines) clamp(off int64) int64 {
	return min(max(off, 0), int64(len(l.text)))
}

func (l *lines) position(off int64) protocol.Position {
	off = l.clamp(off)
	line, col := l.pd.LineCol(off)
	start := off - int64(col)
	return protocol.Position{
		Line:      uint32(line),
		Character: uint32(utf16Len(l.text[start:off])),
	}
}

func (l *lines) span(s stream.Span) protocol.Range {
	return protocol.Range{Start: l.position(s.Start), End: l.position(s.End)}
}

// offset is the inverse of position. Characters past the end of the line
// land on the line end.
func (l *lines) offset(p protocol.Position) int64 {
	i := l.pd.Offset(int(p.Line), 0)
	for units := uint32(0); i < int64(len(l.text)) && units < p.Character; {
		c := l.text[i]
		if c == '\n' {
			break
		}
		r, n := utf8.DecodeRune(l.text[i:])
		units += uint32(utf16Units(r))
		i += int64(n)
	}
	return i
}

func utf16Units(r rune) int {
	if r >= 0x10000 {
		return 2
	}
	return 1
}

func utf16Len(d []byte) int {
	n := 0
	for len(d) > 0 {
		r, k := utf8.DecodeRune(d)
		n += utf16Units(r)
		d = d[k:]
	}
	return n
}
