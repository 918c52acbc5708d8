package encode

import (
	"github.com/udon-format/go-udon/arena"
	"github.com/udon-format/go-udon/stream"
)

// Map returns the wire form of ev: a map with "type", "span" and the
// fields of its kind. Content fields are []byte values resolved from a
// and are not re-encoded. Nested values (ids, attribute values, array
// items) are maps of the same shape; arrays have type "array" and
// "items".
func Map(ev stream.Event, a *arena.Arena) map[string]any {
	m := &mapper{a: a}
	_ = ev.Accept(m)
	return m.m
}

type mapper struct {
	a *arena.Arena
	m map[string]any
}

func (m *mapper) start(ev stream.Event) map[string]any {
	sp := ev.Pos()
	m.m = map[string]any{
		"type": ev.Kind().String(),
		"span": map[string]any{"start": sp.Start, "end": sp.End},
	}
	return m.m
}

func (m *mapper) bytes(s arena.Slice) []byte {
	b, _ := m.a.Resolve(s)
	if b == nil {
		b = []byte{}
	}
	return b
}

func (m *mapper) value(v stream.Value) map[string]any {
	if arr, ok := v.(*stream.Array); ok {
		items := make([]any, len(arr.Items))
		for i, it := range arr.Items {
			items[i] = m.value(it)
		}
		return map[string]any{
			"type":  "array",
			"items": items,
			"span":  map[string]any{"start": arr.Start, "end": arr.End},
		}
	}
	sub := &mapper{a: m.a}
	_ = v.(stream.Event).Accept(sub)
	return sub.m
}

func (m *mapper) head(res map[string]any, h *stream.Head) {
	if h.Name != nil {
		res["name"] = m.bytes(*h.Name)
	}
	if h.ID != nil {
		res["id"] = m.value(h.ID)
	}
	if len(h.Classes) > 0 {
		cs := make([]any, len(h.Classes))
		for i, c := range h.Classes {
			cs[i] = m.bytes(c)
		}
		res["classes"] = cs
	}
	if h.Suffix != nil {
		res["suffix"] = h.Suffix.String()
	}
}

func (m *mapper) named(res map[string]any, name arena.Slice, ns *arena.Slice, raw bool) {
	res["name"] = m.bytes(name)
	if ns != nil {
		res["namespace"] = m.bytes(*ns)
	}
	res["raw"] = raw
}

func (m *mapper) VisitElementStart(e *stream.ElementStart) error {
	m.head(m.start(e), &e.Head)
	return nil
}

func (m *mapper) VisitElementEnd(e *stream.ElementEnd) error {
	m.start(e)
	return nil
}

func (m *mapper) VisitEmbeddedStart(e *stream.EmbeddedStart) error {
	m.head(m.start(e), &e.Head)
	return nil
}

func (m *mapper) VisitEmbeddedEnd(e *stream.EmbeddedEnd) error {
	m.start(e)
	return nil
}

func (m *mapper) VisitArrayStart(e *stream.ArrayStart) error {
	m.start(e)
	return nil
}

func (m *mapper) VisitArrayEnd(e *stream.ArrayEnd) error {
	m.start(e)
	return nil
}

func (m *mapper) VisitDirectiveStart(e *stream.DirectiveStart) error {
	m.named(m.start(e), e.Name, e.Namespace, e.Raw)
	return nil
}

func (m *mapper) VisitDirectiveEnd(e *stream.DirectiveEnd) error {
	m.start(e)
	return nil
}

func (m *mapper) VisitFreeformStart(e *stream.FreeformStart) error {
	m.start(e)
	return nil
}

func (m *mapper) VisitFreeformEnd(e *stream.FreeformEnd) error {
	m.start(e)
	return nil
}

func (m *mapper) VisitAttribute(e *stream.Attribute) error {
	res := m.start(e)
	res["key"] = m.bytes(e.Key)
	if e.Value != nil {
		res["value"] = m.value(e.Value)
	}
	return nil
}

func (m *mapper) VisitIdReference(e *stream.IdReference) error {
	res := m.start(e)
	if e.ID != nil {
		res["id"] = m.value(e.ID)
	}
	return nil
}

func (m *mapper) VisitAttributeMerge(e *stream.AttributeMerge) error {
	res := m.start(e)
	if e.ID != nil {
		res["id"] = m.value(e.ID)
	}
	return nil
}

func (m *mapper) VisitNil(e *stream.NilValue) error {
	m.start(e)["raw"] = m.bytes(e.Raw)
	return nil
}

func (m *mapper) VisitBool(e *stream.BoolValue) error {
	res := m.start(e)
	res["value"] = e.Value
	res["raw"] = m.bytes(e.Raw)
	return nil
}

func (m *mapper) VisitInteger(e *stream.IntegerValue) error {
	res := m.start(e)
	res["value"] = e.Value
	res["raw"] = m.bytes(e.Raw)
	return nil
}

func (m *mapper) VisitFloat(e *stream.FloatValue) error {
	res := m.start(e)
	res["value"] = e.Value
	res["raw"] = m.bytes(e.Raw)
	return nil
}

func (m *mapper) VisitRational(e *stream.RationalValue) error {
	res := m.start(e)
	res["numerator"] = e.Numerator
	res["denominator"] = e.Denominator
	res["raw"] = m.bytes(e.Raw)
	return nil
}

func (m *mapper) VisitComplex(e *stream.ComplexValue) error {
	res := m.start(e)
	res["real"] = e.Real
	res["imag"] = e.Imag
	res["raw"] = m.bytes(e.Raw)
	return nil
}

func (m *mapper) VisitString(e *stream.StringValue) error {
	res := m.start(e)
	res["content"] = m.bytes(e.Content)
	res["raw"] = m.bytes(e.Raw)
	return nil
}

func (m *mapper) VisitQuotedString(e *stream.QuotedStringValue) error {
	res := m.start(e)
	res["content"] = m.bytes(e.Content)
	res["raw"] = m.bytes(e.Raw)
	return nil
}

func (m *mapper) VisitText(e *stream.Text) error {
	m.start(e)["content"] = m.bytes(e.Content)
	return nil
}

func (m *mapper) VisitComment(e *stream.Comment) error {
	m.start(e)["content"] = m.bytes(e.Content)
	return nil
}

func (m *mapper) VisitRawContent(e *stream.RawContent) error {
	m.start(e)["content"] = m.bytes(e.Content)
	return nil
}

func (m *mapper) VisitInterpolation(e *stream.Interpolation) error {
	m.start(e)["expression"] = m.bytes(e.Expression)
	return nil
}

func (m *mapper) VisitInlineDirective(e *stream.InlineDirective) error {
	res := m.start(e)
	m.named(res, e.Name, e.Namespace, e.Raw)
	res["content"] = m.bytes(e.Content)
	return nil
}

func (m *mapper) VisitWarning(e *stream.Warning) error {
	m.start(e)["message"] = e.Message
	return nil
}

func (m *mapper) VisitError(e *stream.Error) error {
	res := m.start(e)
	res["code"] = e.Code.String()
	res["message"] = e.Code.Message()
	return nil
}

// Textual returns a copy of a wire map with []byte values replaced by
// strings, for encoders that would otherwise base64 them.
func Textual(v any) any {
	switch x := v.(type) {
	case []byte:
		return string(x)
	case map[string]any:
		res := make(map[string]any, len(x))
		for k, e := range x {
			res[k] = Textual(e)
		}
		return res
	case []any:
		res := make([]any, len(x))
		for i, e := range x {
			res[i] = Textual(e)
		}
		return res
	}
	return v
}
