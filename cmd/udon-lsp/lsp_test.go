package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/udon-format/go-udon/stream"
	"go.lsp.dev/protocol"
)

const testURI = "file:///test.udon"

func open(t *testing.T, text string) *Server {
	t.Helper()
	s := newServer()
	err := s.DidOpen(context.Background(), &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:     testURI,
			Version: 1,
			Text:    text,
		},
	})
	require.NoError(t, err)
	return s
}

func TestLines(t *testing.T) {
	l := newLines([]byte("ab\n😀x\n"))
	require.Equal(t, protocol.Position{Line: 0, Character: 2}, l.position(2))
	require.Equal(t, protocol.Position{Line: 1, Character: 0}, l.position(3))
	require.Equal(t, protocol.Position{Line: 1, Character: 2}, l.position(7))
	require.Equal(t, protocol.Position{Line: 2, Character: 0}, l.position(9))
	require.Equal(t, int64(7), l.offset(protocol.Position{Line: 1, Character: 2}))
	require.Equal(t, int64(8), l.offset(protocol.Position{Line: 1, Character: 40}))
	require.Equal(t, int64(0), l.offset(protocol.Position{}))
}

func TestDiagnostics(t *testing.T) {
	doc := parseDocument(testURI, "|a\n\t|b", 1)
	ds := diagnostics(doc)
	require.Len(t, ds, 1)
	require.Equal(t, protocol.DiagnosticSeverityError, ds[0].Severity)
	require.Equal(t, "no_tabs", ds[0].Code)
	require.Equal(t, protocol.Range{
		Start: protocol.Position{Line: 1, Character: 0},
		End:   protocol.Position{Line: 1, Character: 1},
	}, ds[0].Range)

	doc = parseDocument(testURI, `|a :k "x\qy"`, 1)
	ds = diagnostics(doc)
	require.Len(t, ds, 1)
	require.Equal(t, protocol.DiagnosticSeverityWarning, ds[0].Severity)
	require.Equal(t, uint32(8), ds[0].Range.Start.Character)
	require.Equal(t, uint32(10), ds[0].Range.End.Character)

	require.Empty(t, diagnostics(parseDocument(testURI, "|a b", 1)))
}

type absToken struct {
	line, char, n, typ uint32
}

func decode(data []uint32) []absToken {
	var res []absToken
	var line, char uint32
	for i := 0; i+4 < len(data); i += 5 {
		if data[i] > 0 {
			char = 0
		}
		line += data[i]
		char += data[i+1]
		res = append(res, absToken{line, char, data[i+2], data[i+3]})
	}
	return res
}

func TestSemanticTokens(t *testing.T) {
	s := open(t, `|a :k "x\qy"`)
	toks, err := s.SemanticTokensFull(context.Background(), &protocol.SemanticTokensParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	})
	require.NoError(t, err)
	require.Equal(t, []absToken{
		{0, 1, 1, semKeyword},
		{0, 4, 1, semProperty},
		{0, 6, 6, semString},
	}, decode(toks.Data))

	toks, err = s.SemanticTokensRange(context.Background(), &protocol.SemanticTokensRangeParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
		Range: protocol.Range{
			Start: protocol.Position{Character: 3},
			End:   protocol.Position{Character: 6},
		},
	})
	require.NoError(t, err)
	require.Equal(t, []absToken{{0, 4, 1, semProperty}}, decode(toks.Data))
}

func TestTokensSplitLines(t *testing.T) {
	doc := parseDocument(testURI, "ab\ncd", 1)
	data := encodeTokens(doc, []semToken{{start: 1, end: 4, typ: semComment}}, 0, 6)
	require.Equal(t, []uint32{0, 1, 1, semComment, 0, 1, 0, 1, semComment, 0}, data)
}

func TestEventAt(t *testing.T) {
	doc := parseDocument(testURI, "div#id.class1.class2{attr: 1}text", 1)
	require.Equal(t, stream.KindElementStart, eventAt(doc.events, 1).Kind())
	require.Equal(t, stream.KindAttribute, eventAt(doc.events, 22).Kind())
	require.Equal(t, stream.KindText, eventAt(doc.events, 30).Kind())
	require.Nil(t, eventAt(doc.events, 33))
}

func TestHover(t *testing.T) {
	s := open(t, "|a\n  :key 12\n")
	h, err := s.Hover(context.Background(), &protocol.HoverParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
			Position:     protocol.Position{Line: 1, Character: 4},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, h)
	require.Contains(t, h.Contents.Value, "**attribute**")
	require.Contains(t, h.Contents.Value, "key")
	require.Equal(t, uint32(1), h.Range.Start.Line)
}

func TestDocumentLifecycle(t *testing.T) {
	s := open(t, "|a")
	ctx := context.Background()
	err := s.DidChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: testURI},
			Version:                2,
		},
		ContentChanges: []protocol.TextDocumentContentChangeEvent{{Text: "|b\n\t|c"}},
	})
	require.NoError(t, err)
	doc := s.docs.get(testURI)
	require.Equal(t, int32(2), doc.version)
	require.Len(t, diagnostics(doc), 1)

	// stale revisions are ignored
	s.docs.put(parseDocument(testURI, "|c", 1))
	require.Equal(t, int32(2), s.docs.get(testURI).version)

	require.NoError(t, s.DidClose(ctx, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	}))
	require.Nil(t, s.docs.get(testURI))
}
