package main

import (
	"bytes"
	"context"
	"sort"

	"github.com/udon-format/go-udon/arena"
	"github.com/udon-format/go-udon/stream"
	"go.lsp.dev/protocol"
)

// These must match the order of tokenTypes and tokenModifiers.
const (
	semComment uint32 = iota
	semKeyword
	semString
	semNumber
	semProperty
	semMacro
	semVariable
)

const modDefinition uint32 = 1 << 0

var tokenTypes = []protocol.SemanticTokenTypes{
	protocol.SemanticTokenComment,
	protocol.SemanticTokenKeyword,
	protocol.SemanticTokenString,
	protocol.SemanticTokenNumber,
	protocol.SemanticTokenProperty,
	protocol.SemanticTokenMacro,
	protocol.SemanticTokenVariable,
}

var tokenModifiers = []protocol.SemanticTokenModifiers{
	protocol.SemanticTokenModifierDefinition,
}

// semToken is a token over the byte range [start, end).
type semToken struct {
	start, end int64
	typ, mods  uint32
}

// collectTokens derives tokens from the events of doc in source order.
func collectTokens(doc *document) []semToken {
	var res []semToken
	add := func(s stream.Span, typ, mods uint32) {
		if s.End > s.Start {
			res = append(res, semToken{start: s.Start, end: s.End, typ: typ, mods: mods})
		}
	}
	// find locates the bytes of sl inside within.
	find := func(within stream.Span, sl arena.Slice) (stream.Span, bool) {
		b, ok := doc.arena.Resolve(sl)
		if !ok || len(b) == 0 {
			return stream.Span{}, false
		}
		lo, hi := clampSpan(doc, within)
		i := bytes.Index(doc.text[lo:hi], b)
		if i < 0 {
			return stream.Span{}, false
		}
		return stream.Span{Start: lo + int64(i), End: lo + int64(i+len(b))}, true
	}
	var value func(v stream.Value, mods uint32)
	value = func(v stream.Value, mods uint32) {
		switch x := v.(type) {
		case nil:
		case *stream.Array:
			for _, it := range x.Items {
				value(it, mods)
			}
		case *stream.NilValue, *stream.BoolValue:
			add(x.Pos(), semKeyword, mods)
		case *stream.IntegerValue, *stream.FloatValue, *stream.RationalValue, *stream.ComplexValue:
			add(x.Pos(), semNumber, mods)
		default:
			add(x.Pos(), semString, mods)
		}
	}
	head := func(sp stream.Span, h *stream.Head) {
		if h.Name != nil {
			if s, ok := find(sp, *h.Name); ok {
				add(s, semKeyword, 0)
			}
		}
		value(h.ID, modDefinition)
	}
	for _, ev := range doc.events {
		switch e := ev.(type) {
		case *stream.ElementStart:
			head(e.Span, &e.Head)
		case *stream.EmbeddedStart:
			head(e.Span, &e.Head)
		case *stream.DirectiveStart:
			if s, ok := find(e.Span, e.Name); ok {
				add(stream.Span{Start: e.Start, End: s.End}, semMacro, 0)
			}
		case *stream.Attribute:
			if s, ok := find(e.Span, e.Key); ok {
				add(s, semProperty, 0)
			}
			value(e.Value, 0)
		case *stream.IdReference, *stream.AttributeMerge, *stream.Interpolation:
			add(e.Pos(), semVariable, 0)
		case *stream.InlineDirective:
			add(e.Span, semMacro, 0)
		case *stream.Comment:
			add(e.Span, semComment, 0)
		case stream.Value:
			value(e, 0)
		}
	}
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].start < res[j].start
	})
	return res
}

func clampSpan(doc *document, s stream.Span) (int64, int64) {
	lo := doc.lines.clamp(s.Start)
	return lo, max(lo, doc.lines.clamp(s.End))
}

// encodeTokens writes toks in the LSP relative encoding, splitting tokens
// that cross lines. Tokens starting outside [from, to) are dropped.
func encodeTokens(doc *document, toks []semToken, from, to int64) []uint32 {
	data := []uint32{}
	var prevLine, prevChar uint32
	for _, t := range toks {
		if t.start < from || t.start >= to {
			continue
		}
		lo, hi := clampSpan(doc, stream.Span{Start: t.start, End: t.end})
		for lo < hi {
			end := hi
			if i := bytes.IndexByte(doc.text[lo:hi], '\n'); i >= 0 {
				end = lo + int64(i)
			}
			if n := utf16Len(doc.text[lo:end]); n > 0 {
				p := doc.lines.position(lo)
				dChar := p.Character
				if p.Line == prevLine {
					dChar -= prevChar
				}
				data = append(data, p.Line-prevLine, dChar, uint32(n), t.typ, t.mods)
				prevLine, prevChar = p.Line, p.Character
			}
			lo = end + 1
		}
	}
	return data
}

func (s *Server) SemanticTokensFull(ctx context.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	doc := s.docs.get(string(params.TextDocument.URI))
	if doc == nil {
		return &protocol.SemanticTokens{Data: []uint32{}}, nil
	}
	data := encodeTokens(doc, collectTokens(doc), 0, int64(len(doc.text))+1)
	return &protocol.SemanticTokens{Data: data}, nil
}

func (s *Server) SemanticTokensRange(ctx context.Context, params *protocol.SemanticTokensRangeParams) (*protocol.SemanticTokens, error) {
	doc := s.docs.get(string(params.TextDocument.URI))
	if doc == nil {
		return &protocol.SemanticTokens{Data: []uint32{}}, nil
	}
	from := doc.lines.offset(params.Range.Start)
	to := doc.lines.offset(params.Range.End)
	data := encodeTokens(doc, collectTokens(doc), from, to)
	return &protocol.SemanticTokens{Data: data}, nil
}
