package main

import (
	"context"
	"fmt"

	"github.com/udon-format/go-udon/encode"
	"github.com/udon-format/go-udon/stream"
	"go.lsp.dev/protocol"
)

func (s *Server) Hover(ctx context.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	doc := s.docs.get(string(params.TextDocument.URI))
	if doc == nil {
		return nil, nil
	}
	ev := eventAt(doc.events, doc.lines.offset(params.Position))
	if ev == nil {
		return nil, nil
	}
	rng := doc.lines.span(ev.Pos())
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.Markdown,
			Value: hoverText(doc, ev),
		},
		Range: &rng,
	}, nil
}

// eventAt returns the innermost event whose span contains off. End events
// and empty spans never match.
func eventAt(evs []stream.Event, off int64) stream.Event {
	var best stream.Event
	for _, ev := range evs {
		sp := ev.Pos()
		if ev.Kind().IsEnd() || sp.Start > off || off >= sp.End {
			continue
		}
		if best == nil || sp.Len() <= best.Pos().Len() {
			best = ev
		}
	}
	return best
}

func hoverText(doc *document, ev stream.Event) string {
	text := fmt.Sprintf("**%s**\n\n```\n%s\n```", ev.Kind(), encode.MustString(ev, doc.arena))
	if e, ok := ev.(*stream.Error); ok {
		text += "\n\n" + e.Code.Message()
	}
	return text
}
