package encode

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/udon-format/go-udon/arena"
	"github.com/udon-format/go-udon/format"
	"github.com/udon-format/go-udon/stream"
	"github.com/udon-format/go-udon/token"
)

var ErrEncoding = errors.New("encoding error")

type EncState struct {
	format  format.Format
	noSpans bool
	Color   func(stream.Kind, ColorAttr, string) string
}

func newState(opts []EncodeOption) *EncState {
	es := &EncState{}
	for _, opt := range opts {
		opt(es)
	}
	return es
}

// Encode writes ev, resolved against a, to w as one line of text, one
// JSON object per line, or one YAML sequence item.
func Encode(ev stream.Event, a *arena.Arena, w io.Writer, opts ...EncodeOption) error {
	return encode(ev, a, w, newState(opts))
}

func encode(ev stream.Event, a *arena.Arena, w io.Writer, es *EncState) error {
	m := Map(ev, a)
	switch {
	case es.format.IsJSON():
		d, err := json.Marshal(Textual(m))
		if err != nil {
			return fmt.Errorf("%w: %w", ErrEncoding, err)
		}
		return writeString(w, string(d)+"\n")
	case es.format.IsYAML():
		d, err := yaml.MarshalWithOptions([]any{Textual(m)}, yaml.UseLiteralStyleIfMultiline(true))
		if err != nil {
			return fmt.Errorf("%w: %w", ErrEncoding, err)
		}
		return writeString(w, string(d))
	default:
		return writeString(w, textLine(ev.Kind(), m, es)+"\n")
	}
}

// JSON writes evs as JSON lines.
func JSON(w io.Writer, evs []stream.Event, a *arena.Arena) error {
	return encodeAll(w, evs, a, EncodeFormat(format.JSONFormat))
}

// YAML writes evs as a YAML sequence.
func YAML(w io.Writer, evs []stream.Event, a *arena.Arena) error {
	return encodeAll(w, evs, a, EncodeFormat(format.YAMLFormat))
}

// Text writes evs one per line.
func Text(w io.Writer, evs []stream.Event, a *arena.Arena, opts ...EncodeOption) error {
	return encodeAll(w, evs, a, append(opts, EncodeFormat(format.TextFormat))...)
}

func encodeAll(w io.Writer, evs []stream.Event, a *arena.Arena, opts ...EncodeOption) error {
	es := newState(opts)
	for _, ev := range evs {
		if err := encode(ev, a, w, es); err != nil {
			return err
		}
	}
	return nil
}

// Sink is a stream.EventSink that encodes each event it receives.
type Sink struct {
	w  io.Writer
	a  *arena.Arena
	es *EncState
	n  int
}

// NewSink returns a sink writing events resolved against a to w.
func NewSink(w io.Writer, a *arena.Arena, opts ...EncodeOption) *Sink {
	return &Sink{w: w, a: a, es: newState(opts)}
}

func (s *Sink) WriteEvent(ev stream.Event) error {
	s.n++
	return encode(ev, s.a, s.w, s.es)
}

// Count returns the number of events written.
func (s *Sink) Count() int {
	return s.n
}

var textFields = []string{
	"name", "namespace", "raw", "key", "value", "id", "classes", "suffix",
	"content", "expression", "code", "message",
}

func textLine(k stream.Kind, m map[string]any, es *EncState) string {
	color := func(a ColorAttr, s string) string {
		if es.Color == nil {
			return s
		}
		return es.Color(k, a, s)
	}
	parts := []string{color(KindColor, k.String())}
	if !es.noSpans {
		sp := m["span"].(map[string]any)
		parts = append(parts, color(SpanColor, fmt.Sprintf("[%d,%d)", sp["start"], sp["end"])))
	}
	if k.IsValue() {
		return strings.Join(append(parts, color(ValueColor, nested(m))), " ")
	}
	for _, f := range textFields {
		v, ok := m[f]
		if !ok {
			continue
		}
		if b, ok := v.(bool); ok && !b {
			continue
		}
		parts = append(parts, color(FieldColor, f)+"="+color(ValueColor, render(f, v)))
	}
	return strings.Join(parts, " ")
}

func render(field string, v any) string {
	switch x := v.(type) {
	case []byte:
		switch field {
		case "name", "namespace", "key":
			return string(x)
		}
		return token.Quote(string(x))
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case []any:
		items := make([]string, len(x))
		for i, it := range x {
			if b, ok := it.([]byte); ok {
				items[i] = string(b)
				continue
			}
			items[i] = render(field, it)
		}
		return "[" + strings.Join(items, " ") + "]"
	case map[string]any:
		return nested(x)
	}
	return fmt.Sprint(v)
}

// nested renders a value map in source-like form.
func nested(m map[string]any) string {
	if items, ok := m["items"].([]any); ok {
		res := make([]string, len(items))
		for i, it := range items {
			res[i] = nested(it.(map[string]any))
		}
		return "[" + strings.Join(res, " ") + "]"
	}
	if c, ok := m["content"].([]byte); ok {
		return token.Quote(string(c))
	}
	if r, ok := m["raw"].([]byte); ok {
		return string(r)
	}
	return fmt.Sprint(m["type"])
}

func writeString(w io.Writer, s string) error {
	_, err := io.WriteString(w, s)
	return err
}
