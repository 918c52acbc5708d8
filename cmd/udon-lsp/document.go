package main

import (
	"context"
	"sync"

	"github.com/udon-format/go-udon/arena"
	"github.com/udon-format/go-udon/debug"
	"github.com/udon-format/go-udon/encode"
	"github.com/udon-format/go-udon/stream"
	"go.lsp.dev/protocol"
)

type documentStore struct {
	mu   sync.RWMutex
	docs map[string]*document
}

// document is one parsed revision. It is not modified after parsing, so
// it may be read without holding the store lock.
type document struct {
	uri     string
	version int32
	text    []byte
	events  []stream.Event
	arena   *arena.Arena
	lines   *lines
}

func parseDocument(uri, content string, version int32, opts ...stream.ParserOption) *document {
	text := []byte(content)
	evs, a := stream.ParseAll(text, opts...)
	return &document{
		uri:     uri,
		version: version,
		text:    text,
		events:  evs,
		arena:   a,
		lines:   newLines(text),
	}
}

func (ds *documentStore) get(uri string) *document {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	return ds.docs[uri]
}

func (ds *documentStore) put(doc *document) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	if old := ds.docs[doc.uri]; old != nil && old.version > doc.version {
		return
	}
	ds.docs[doc.uri] = doc
}

func (ds *documentStore) remove(uri string) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	delete(ds.docs, uri)
}

func (s *Server) update(ctx context.Context, uri, content string, version int32) {
	doc := parseDocument(uri, content, version)
	s.log.Debug("parsed", "uri", uri, "version", version, "events", len(doc.events))
	if debug.Events() {
		for _, ev := range doc.events {
			debug.LogAny(encode.Textual(encode.Map(ev, doc.arena)))
		}
	}
	s.docs.put(doc)
	s.publishDiagnostics(ctx, doc)
}

func (s *Server) publishDiagnostics(ctx context.Context, doc *document) {
	if s.conn == nil {
		return
	}
	err := s.conn.Notify(ctx, protocol.MethodTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         protocol.DocumentURI(doc.uri),
		Version:     uint32(doc.version),
		Diagnostics: diagnostics(doc),
	})
	if err != nil {
		s.log.Debug("publish diagnostics", "uri", doc.uri, "error", err)
	}
}

// diagnostics reports the warnings of doc and its terminal error.
func diagnostics(doc *document) []protocol.Diagnostic {
	res := []protocol.Diagnostic{}
	for _, ev := range doc.events {
		switch e := ev.(type) {
		case *stream.Warning:
			res = append(res, protocol.Diagnostic{
				Range:    doc.lines.span(e.Span),
				Severity: protocol.DiagnosticSeverityWarning,
				Source:   lsName,
				Message:  e.Message,
			})
		case *stream.Error:
			res = append(res, protocol.Diagnostic{
				Range:    doc.lines.span(e.Span),
				Severity: protocol.DiagnosticSeverityError,
				Code:     e.Code.String(),
				Source:   lsName,
				Message:  e.Code.Message(),
			})
		}
	}
	return res
}

func (s *Server) DidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error {
	td := params.TextDocument
	s.update(ctx, string(td.URI), td.Text, td.Version)
	return nil
}

// DidChange expects full document sync: the last change holds the whole
// text.
func (s *Server) DidChange(ctx context.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	text := params.ContentChanges[len(params.ContentChanges)-1].Text
	s.update(ctx, string(params.TextDocument.URI), text, params.TextDocument.Version)
	return nil
}

func (s *Server) DidClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := string(params.TextDocument.URI)
	s.docs.remove(uri)
	if s.conn != nil {
		return s.conn.Notify(ctx, protocol.MethodTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
			URI:         protocol.DocumentURI(uri),
			Diagnostics: []protocol.Diagnostic{},
		})
	}
	return nil
}
