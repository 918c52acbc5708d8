package stream

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/google/go-cmp/cmp"
	"github.com/udon-format/go-udon/arena"
)

// show renders ev without its span, resolving slices against a.
func show(a *arena.Arena, ev Event) string {
	switch e := ev.(type) {
	case *ElementStart:
		return "element_start" + showHead(a, &e.Head)
	case *EmbeddedStart:
		return "embedded_start" + showHead(a, &e.Head)
	case *DirectiveStart:
		name := a.String(e.Name)
		switch {
		case e.Raw:
			name = "raw:" + name
		case e.Namespace != nil:
			name = a.String(*e.Namespace) + ":" + name
		}
		return "directive_start " + name
	case *Attribute:
		s := "attribute " + a.String(e.Key)
		if e.Value != nil {
			s += "=" + showValue(a, e.Value)
		}
		return s
	case *IdReference:
		return "id_reference " + showValue(a, e.ID)
	case *AttributeMerge:
		return "attribute_merge " + showValue(a, e.ID)
	case Value:
		return showValue(a, e)
	case *Text:
		return fmt.Sprintf("text %q", a.String(e.Content))
	case *Comment:
		return fmt.Sprintf("comment %q", a.String(e.Content))
	case *RawContent:
		return fmt.Sprintf("raw_content %q", a.String(e.Content))
	case *Interpolation:
		return fmt.Sprintf("interpolation %q", a.String(e.Expression))
	case *InlineDirective:
		name := a.String(e.Name)
		switch {
		case e.Raw:
			name = "raw:" + name
		case e.Namespace != nil:
			name = a.String(*e.Namespace) + ":" + name
		}
		return fmt.Sprintf("inline_directive %s %q", name, a.String(e.Content))
	case *Warning:
		return "warning " + e.Message
	case *Error:
		return "error " + e.Code.String()
	}
	return ev.Kind().String()
}

func showHead(a *arena.Arena, h *Head) string {
	var b strings.Builder
	if h.Name != nil {
		b.WriteString(" " + a.String(*h.Name))
	}
	if h.ID != nil {
		b.WriteString(" id=" + showValue(a, h.ID))
	}
	for _, c := range h.Classes {
		b.WriteString(" ." + a.String(c))
	}
	if h.Suffix != nil {
		b.WriteString(" " + h.Suffix.String())
	}
	return b.String()
}

func showValue(a *arena.Arena, v Value) string {
	switch e := v.(type) {
	case *StringValue:
		return fmt.Sprintf("string(%q)", a.String(e.Content))
	case *QuotedStringValue:
		return fmt.Sprintf("quoted_string(%q)", a.String(e.Content))
	case *NilValue:
		return "nil(" + a.String(e.Raw) + ")"
	case *BoolValue:
		return fmt.Sprintf("bool(%t)", e.Value)
	case *IntegerValue:
		return fmt.Sprintf("integer(%d)", e.Value)
	case *FloatValue:
		return fmt.Sprintf("float(%g)", e.Value)
	case *RationalValue:
		return fmt.Sprintf("rational(%d/%d)", e.Numerator, e.Denominator)
	case *ComplexValue:
		return fmt.Sprintf("complex(%g,%g)", e.Real, e.Imag)
	case *Array:
		items := make([]string, len(e.Items))
		for i, it := range e.Items {
			items[i] = showValue(a, it)
		}
		return "[" + strings.Join(items, " ") + "]"
	}
	return fmt.Sprintf("%T", v)
}

func showAll(a *arena.Arena, evs []Event) []string {
	res := make([]string, len(evs))
	for i, ev := range evs {
		res[i] = show(a, ev)
	}
	return res
}

// showSpans is showAll with each event's span appended.
func showSpans(a *arena.Arena, evs []Event) []string {
	res := showAll(a, evs)
	for i, ev := range evs {
		res[i] += " " + ev.Pos().String()
	}
	return res
}

// feed parses in pieces and returns every event.
func feed(t *testing.T, opts []ParserOption, pieces ...string) ([]Event, *arena.Arena) {
	t.Helper()
	p := NewParser(16, opts...)
	var evs []Event
	for _, piece := range pieces {
		if err := p.Feed([]byte(piece)); err != nil {
			t.Fatal(err)
		}
		for ev, ok := p.Read(); ok; ev, ok = p.Read() {
			evs = append(evs, ev)
		}
	}
	if err := p.Finish(); err != nil {
		t.Fatal(err)
	}
	for ev, ok := p.Read(); ok; ev, ok = p.Read() {
		evs = append(evs, ev)
	}
	return evs, p.Arena()
}

func TestSelectorElement(t *testing.T) {
	evs, a := ParseAll([]byte("div#id.class1.class2{attr: 1}text"))
	got := showSpans(a, evs)
	want := []string{
		`element_start div id=string("id") .class1 .class2 [0,20)`,
		`attribute attr=integer(1) [21,28)`,
		`text "text" [29,33)`,
		`element_end [33,33)`,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestParse(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "nesting",
			in:   "|a\n  |b text\n|c",
			want: []string{
				"element_start a",
				"element_start b",
				`text "text"`,
				"element_end",
				"element_end",
				"element_start c",
				"element_end",
			},
		},
		{
			name: "dedent",
			in:   "|a\n  |b\n    |c\n  |d\ne",
			want: []string{
				"element_start a",
				"element_start b",
				"element_start c",
				"element_end",
				"element_end",
				"element_start d",
				"element_end",
				"element_end",
				`text "e"`,
			},
		},
		{
			name: "line attributes",
			in:   `|a :x 1 :y :z [1 2.5 "s"]`,
			want: []string{
				"element_start a",
				"attribute x=integer(1)",
				"attribute y",
				`attribute z=[integer(1) float(2.5) string("s")]`,
				"element_end",
			},
		},
		{
			name: "attribute block",
			in:   "|a{k: v, flag, n: nil}",
			want: []string{
				"element_start a",
				`attribute k=string("v")`,
				"attribute flag",
				"attribute n=nil(nil)",
				"element_end",
			},
		},
		{
			name: "head id suffix",
			in:   "|item[42].big?",
			want: []string{
				"element_start item id=integer(42) .big ?",
				"element_end",
			},
		},
		{
			name: "anonymous",
			in:   "|.note hi",
			want: []string{
				"element_start .note",
				`text "hi"`,
				"element_end",
			},
		},
		{
			name: "embedded",
			in:   "|p Hello |{em world}!",
			want: []string{
				"element_start p",
				`text "Hello "`,
				"embedded_start em",
				`text "world"`,
				"embedded_end",
				`text "!"`,
				"element_end",
			},
		},
		{
			name: "directive arguments",
			in:   "!if x 1\n  body",
			want: []string{
				"directive_start if",
				`string("x")`,
				"integer(1)",
				`text "body"`,
				"directive_end",
			},
		},
		{
			name: "directive array argument",
			in:   "!list [a [b]]",
			want: []string{
				"directive_start list",
				"array_start",
				`string("a")`,
				"array_start",
				`string("b")`,
				"array_end",
				"array_end",
				"directive_end",
			},
		},
		{
			name: "namespaced directive",
			in:   "!ns:op a",
			want: []string{
				"directive_start ns:op",
				`string("a")`,
				"directive_end",
			},
		},
		{
			name: "raw directive",
			in:   "!raw:code lang\n  line1\n    line2\n\n  end\nafter",
			want: []string{
				"directive_start raw:code",
				`raw_content "lang"`,
				`raw_content "line1"`,
				`raw_content "  line2"`,
				`raw_content ""`,
				`raw_content "end"`,
				"directive_end",
				`text "after"`,
			},
		},
		{
			name: "literals",
			in:   "!v 1/2 3+4i 1.5e3 0x1F true null",
			want: []string{
				"directive_start v",
				"rational(1/2)",
				"complex(3,4)",
				"float(1500)",
				"integer(31)",
				"bool(true)",
				"nil(null)",
				"directive_end",
			},
		},
		{
			name: "comments",
			in:   "; note\n|a x ;{c} y",
			want: []string{
				`comment " note"`,
				"element_start a",
				`text "x"`,
				`comment "c"`,
				`text " y"`,
				"element_end",
			},
		},
		{
			name: "interpolation and inline directive",
			in:   "|p !{{user.name}} and !{em:b bold}",
			want: []string{
				"element_start p",
				`interpolation "user.name"`,
				`text " and "`,
				`inline_directive em:b "bold"`,
				"element_end",
			},
		},
		{
			name: "freeform",
			in:   "|pre ```a\n  b```",
			want: []string{
				"element_start pre",
				"freeform_start",
				`raw_content "a\n  b"`,
				"freeform_end",
				"element_end",
			},
		},
		{
			name: "merge and reference",
			in:   "|a :[base]\n  @[user-1]",
			want: []string{
				"element_start a",
				`attribute_merge string("base")`,
				`id_reference string("user-1")`,
				"element_end",
			},
		},
		{
			name: "block merge",
			in:   "|a{:[x], y}",
			want: []string{
				"element_start a",
				`attribute_merge string("x")`,
				"attribute y",
				"element_end",
			},
		},
		{
			name: "top level attribute",
			in:   ":k v",
			want: []string{`attribute k=string("v")`},
		},
		{
			name: "escaped line",
			in:   "'|not",
			want: []string{`text "|not"`},
		},
		{
			name: "quoted strings",
			in:   `|a :q 'it\n' :s "it\n"`,
			want: []string{
				"element_start a",
				`attribute q=quoted_string("it\\n")`,
				`attribute s=string("it\n")`,
				"element_end",
			},
		},
		{
			name: "blank lines",
			in:   "\n\n|a\n\n  x\n",
			want: []string{
				"element_start a",
				`text "x"`,
				"element_end",
			},
		},
		{
			name: "empty",
			in:   "",
			want: []string{},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			evs, a := ParseAll([]byte(c.in))
			got := showAll(a, evs)
			if diff := cmp.Diff(c.want, got); diff != "" {
				t.Errorf("%q (-want +got):\n%s", c.in, diff)
			}
		})
	}
}

func TestErrors(t *testing.T) {
	cases := []struct {
		in   string
		code ErrorCode
		span Span
	}{
		{"\tfoo", ErrNoTabs, Span{0, 1}},
		{"|a\n\t|b", ErrNoTabs, Span{3, 4}},
		{`|p :t "abc`, ErrUnclosedStringValue, Span{6, 10}},
		{`|p :t 'abc`, ErrUnclosedStringValue, Span{6, 10}},
		{"|a :k [1 2", ErrUnclosedArray, Span{6, 10}},
		{"x ```code", ErrUnclosedFreeform, Span{2, 9}},
		{"|p |{em text", ErrUnclosedText, Span{8, 12}},
		{"|p |{em", ErrUnclosedText, Span{3, 7}},
		{"a !{{x", ErrUnclosedInterpolation, Span{2, 6}},
		{"|a[1", ErrUnclosed, Span{2, 4}},
		{"|a{", ErrUnclosed, Span{2, 3}},
		{"|a }", ErrUnexpectedChar, Span{3, 4}},
		{"|a :", ErrUnexpectedEOF, Span{3, 4}},
		{"!d ]", ErrUnexpectedChar, Span{3, 4}},
		{"|a :k ]", ErrUnexpectedChar, Span{6, 7}},
		{"!d 1 ]", ErrUnexpectedChar, Span{5, 6}},
	}
	for _, c := range cases {
		evs, _ := ParseAll([]byte(c.in))
		if len(evs) == 0 {
			t.Errorf("%q: no events", c.in)
			continue
		}
		last, ok := evs[len(evs)-1].(*Error)
		if !ok {
			t.Errorf("%q: last event is %s, want error", c.in, evs[len(evs)-1].Kind())
			continue
		}
		if last.Code != c.code || last.Span != c.span {
			t.Errorf("%q: got %s %s, want %s %s", c.in, last.Code, last.Span, c.code, c.span)
		}
		for _, ev := range evs[:len(evs)-1] {
			if ev.Kind() == KindError {
				t.Errorf("%q: more than one error", c.in)
			}
		}
	}
}

func TestNoTabsStopsParsing(t *testing.T) {
	p := NewParser(0)
	_ = p.Feed([]byte("\tfoo\n|a\n"))
	_ = p.Feed([]byte("|b\n"))
	_ = p.Finish()
	var kinds []Kind
	for ev, ok := p.Read(); ok; ev, ok = p.Read() {
		kinds = append(kinds, ev.Kind())
	}
	if diff := cmp.Diff([]Kind{KindError}, kinds); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if p.Err() == nil || p.Err().Code != ErrNoTabs {
		t.Errorf("Err() = %v", p.Err())
	}
}

func TestUnclosedStringOnFinish(t *testing.T) {
	p := NewParser(0)
	if err := p.Feed([]byte(`|p :title "unfinished`)); err != nil {
		t.Fatal(err)
	}
	if p.Err() != nil {
		t.Fatalf("error before finish: %v", p.Err())
	}
	_ = p.Finish()
	if p.Err() == nil || p.Err().Code != ErrUnclosedStringValue {
		t.Fatalf("Err() = %v", p.Err())
	}
}

func TestSplitString(t *testing.T) {
	whole, wa := feed(t, nil, `!data "123"`)
	split, sa := feed(t, nil, `!data "12`, `3"`)
	if diff := cmp.Diff(showSpans(wa, whole), showSpans(sa, split)); diff != "" {
		t.Errorf("(-whole +split):\n%s", diff)
	}
	for _, ev := range split {
		if sv, ok := ev.(*StringValue); ok {
			if got := sa.String(sv.Content); got != "123" {
				t.Errorf("content %q", got)
			}
			if got := sa.String(sv.Raw); got != `"123"` {
				t.Errorf("raw %q", got)
			}
		}
	}
}

var corpus = []string{
	"div#id.class1.class2{attr: 1}text",
	"|html\n  |head\n    |title Hello\n  |body{class: main}\n    |p Some |{em nice} text ;{note}\n    ; a comment\n",
	"|a :x 1 :y :z [1 2.5 \"s\\n\"] :w 'q'\n  @[ref] !{{expr {x}}} !{b bold}\n",
	"!if user.admin\n  |p ok\n!raw:sql\n  SELECT *\n    FROM t\n\n  WHERE x\n|after ```free\nform```\n",
	"|row[7]{:[base], k: [a, b], flag}\n  '|escaped\r\n  more\n",
	"!v 1/2 3+4i 1.5e3 0x1F true null -7 \"a\\qb\"\n",
	"|p :t \"abc",
	"|p |{em text",
	"|a\n\t|b",
}

func TestChunkInvariance(t *testing.T) {
	for _, doc := range corpus {
		whole, wa := feed(t, nil, doc)
		want := showSpans(wa, whole)
		for i := 1; i < len(doc); i++ {
			evs, a := feed(t, nil, doc[:i], doc[i:])
			if diff := cmp.Diff(want, showSpans(a, evs)); diff != "" {
				t.Errorf("%q split at %d (-whole +split):\n%s", doc, i, diff)
			}
		}
		bytewise := make([]string, len(doc))
		for i := range doc {
			bytewise[i] = doc[i : i+1]
		}
		evs, a := feed(t, nil, bytewise...)
		if diff := cmp.Diff(want, showSpans(a, evs)); diff != "" {
			t.Errorf("%q bytewise (-whole +split):\n%s", doc, diff)
		}
	}
}

func TestBytewiseLongTokens(t *testing.T) {
	const n = 20000
	docs := []string{
		"!d " + strings.Repeat("v", n) + "\n",
		"|" + strings.Repeat("a", n) + " text\n",
		"|a :" + strings.Repeat("k", n) + " " + strings.Repeat("1", n),
		strings.Repeat("s", n) + "#" + strings.Repeat("i", n) + "{x: 1}",
	}
	for _, doc := range docs {
		whole, wa := feed(t, nil, doc)
		pieces := make([]string, len(doc))
		for i := range doc {
			pieces[i] = doc[i : i+1]
		}
		evs, a := feed(t, nil, pieces...)
		if diff := cmp.Diff(showSpans(wa, whole), showSpans(a, evs)); diff != "" {
			t.Errorf("%.16q bytewise (-whole +split):\n%s", doc, diff)
		}
	}
}

func TestSpanOrder(t *testing.T) {
	for _, doc := range corpus {
		evs, _ := ParseAll([]byte(doc))
		var prev int64
		for i, ev := range evs {
			sp := ev.Pos()
			if sp.Start < prev || sp.End < sp.Start || sp.End > int64(len(doc)) {
				t.Errorf("%q: event %d %s %s out of order", doc, i, ev.Kind(), sp)
			}
			prev = sp.Start
		}
	}
}

func TestBrackets(t *testing.T) {
	for _, doc := range corpus {
		evs, _ := ParseAll([]byte(doc))
		var stack []Kind
		failed := false
		for _, ev := range evs {
			k := ev.Kind()
			switch {
			case k.IsStart():
				stack = append(stack, k)
			case k.IsEnd():
				if len(stack) == 0 || stack[len(stack)-1].End() != k {
					t.Errorf("%q: unmatched %s", doc, k)
					failed = true
					break
				}
				stack = stack[:len(stack)-1]
			case k == KindError:
				failed = true
			}
		}
		if !failed && len(stack) != 0 {
			t.Errorf("%q: left open %v", doc, stack)
		}
	}
}

func TestSliceContent(t *testing.T) {
	for _, doc := range corpus {
		evs, a := ParseAll([]byte(doc))
		for _, ev := range evs {
			var s arena.Slice
			switch e := ev.(type) {
			case *Text:
				s = e.Content
			case *RawContent:
				s = e.Content
			default:
				continue
			}
			sp := ev.Pos()
			if got, want := a.String(s), doc[sp.Start:sp.End]; got != want {
				t.Errorf("%q: %s %s resolves to %q, want %q", doc, ev.Kind(), sp, got, want)
			}
		}
		a.Release()
		for _, ev := range evs {
			if e, ok := ev.(*Text); ok && e.Content.Len() > 0 {
				if _, ok := a.Resolve(e.Content); ok {
					t.Errorf("%q: slice resolves after release", doc)
				}
			}
		}
	}
}

func TestReadDrains(t *testing.T) {
	p := NewParser(0)
	_ = p.Feed([]byte("|a b"))
	_ = p.Finish()
	n := p.Pending()
	for i := 0; i < n; i++ {
		if _, ok := p.Read(); !ok {
			t.Fatalf("read %d of %d failed", i, n)
		}
	}
	for i := 0; i < 3; i++ {
		if ev, ok := p.Read(); ok {
			t.Errorf("extra event %v", ev.Kind())
		}
	}
	if !p.Done() {
		t.Error("not done")
	}
}

func TestFeedAfterFinish(t *testing.T) {
	p := NewParser(0)
	_ = p.Finish()
	if err := p.Feed([]byte("x")); err != ErrFinished {
		t.Errorf("Feed after Finish: %v", err)
	}
	if err := p.Finish(); err != nil {
		t.Errorf("second Finish: %v", err)
	}
	if _, err := p.Write([]byte("x")); err != ErrFinished {
		t.Errorf("Write after Finish: %v", err)
	}
}

func TestWarnings(t *testing.T) {
	in := `|a :k "x\qy"`
	evs, a := ParseAll([]byte(in))
	want := []string{
		"element_start a",
		`attribute k=string("xqy")`,
		`warning unknown escape "\\q"`,
		"element_end",
	}
	if diff := cmp.Diff(want, showAll(a, evs)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if w, ok := evs[2].(*Warning); ok && w.Span != (Span{8, 10}) {
		t.Errorf("warning span %s", w.Span)
	}
	evs, _ = ParseAll([]byte(in), WithWarnings(false))
	for _, ev := range evs {
		if ev.Kind() == KindWarning {
			t.Error("warning emitted with warnings off")
		}
	}
}

func TestLogger(t *testing.T) {
	var b strings.Builder
	l := slog.New(slog.NewTextHandler(&b, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ParseAll([]byte("|a b"), WithLogger(l))
	if !strings.Contains(b.String(), "element_start") {
		t.Errorf("log missing events:\n%s", b.String())
	}
}

func TestDecoder(t *testing.T) {
	for _, doc := range corpus {
		whole, wa := ParseAll([]byte(doc))
		d := NewDecoder(iotest.OneByteReader(strings.NewReader(doc)), WithReadSize(3))
		var evs []Event
		for {
			ev, err := d.ReadEvent()
			if err == io.EOF {
				break
			}
			if err != nil {
				t.Fatal(err)
			}
			evs = append(evs, ev)
		}
		if diff := cmp.Diff(showSpans(wa, whole), showSpans(d.Arena(), evs)); diff != "" {
			t.Errorf("%q (-ParseAll +Decoder):\n%s", doc, diff)
		}
	}
}

func TestDecoderReadError(t *testing.T) {
	boom := fmt.Errorf("boom")
	d := NewDecoder(iotest.ErrReader(boom))
	if _, err := d.ReadEvent(); err != boom {
		t.Errorf("got %v", err)
	}
}

func TestCopy(t *testing.T) {
	evs, _ := ParseAll([]byte("|a b"))
	var sink SliceEventSink
	n, err := Copy(&sink, NewSliceEventReader(evs))
	if err != nil || n != len(evs) || len(sink.Events) != len(evs) {
		t.Errorf("Copy = %d, %v; sink has %d", n, err, len(sink.Events))
	}
}
