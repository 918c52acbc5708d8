package encode

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/require"
	"github.com/udon-format/go-udon/stream"
)

const selectorDoc = "div#id.class1.class2{attr: 1}text"

func TestMapAttribute(t *testing.T) {
	evs, a := stream.ParseAll([]byte(selectorDoc))
	require.Len(t, evs, 4)
	m := Map(evs[1], a)
	require.Equal(t, "attribute", m["type"])
	require.Equal(t, []byte("attr"), m["key"])
	require.Equal(t, map[string]any{"start": int64(21), "end": int64(28)}, m["span"])
	v := m["value"].(map[string]any)
	require.Equal(t, "integer", v["type"])
	require.Equal(t, int64(1), v["value"])
	require.Equal(t, []byte("1"), v["raw"])
}

func TestMapElementStart(t *testing.T) {
	evs, a := stream.ParseAll([]byte(selectorDoc))
	m := Map(evs[0], a)
	require.Equal(t, []byte("div"), m["name"])
	require.Equal(t, []any{[]byte("class1"), []byte("class2")}, m["classes"])
	id := m["id"].(map[string]any)
	require.Equal(t, "string", id["type"])
	require.Equal(t, []byte("id"), id["content"])
	require.NotContains(t, m, "suffix")
}

func TestMapArray(t *testing.T) {
	evs, a := stream.ParseAll([]byte("|a :z [1 [x]]"))
	m := Map(evs[1], a)
	v := m["value"].(map[string]any)
	require.Equal(t, "array", v["type"])
	items := v["items"].([]any)
	require.Len(t, items, 2)
	require.Equal(t, "integer", items[0].(map[string]any)["type"])
	require.Equal(t, "array", items[1].(map[string]any)["type"])
}

func TestMapBytesUnmodified(t *testing.T) {
	in := "x \xff\xfe"
	evs, a := stream.ParseAll([]byte(in))
	require.Len(t, evs, 1)
	m := Map(evs[0], a)
	require.Equal(t, []byte(in), m["content"])
}

func TestMapError(t *testing.T) {
	evs, a := stream.ParseAll([]byte("\tx"))
	m := Map(evs[len(evs)-1], a)
	require.Equal(t, "error", m["type"])
	require.Equal(t, "no_tabs", m["code"])
	require.Equal(t, stream.ErrNoTabs.Message(), m["message"])
}

func TestJSON(t *testing.T) {
	evs, a := stream.ParseAll([]byte(selectorDoc))
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, evs, a))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, len(evs))
	var text map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[2]), &text))
	require.Equal(t, "text", text["type"])
	require.Equal(t, "text", text["content"])
}

func TestYAML(t *testing.T) {
	evs, a := stream.ParseAll([]byte("|p a\n  b"))
	var buf bytes.Buffer
	require.NoError(t, YAML(&buf, evs, a))
	var got []map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, len(evs))
	require.Equal(t, "element_start", got[0]["type"])
	require.Equal(t, "p", got[0]["name"])
}

func TestText(t *testing.T) {
	evs, a := stream.ParseAll([]byte(selectorDoc))
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, evs, a))
	want := `element_start [0,20) name=div id="id" classes=[class1 class2]
attribute [21,28) key=attr value=1
text [29,33) content="text"
element_end [33,33)
`
	require.Equal(t, want, buf.String())
}

func TestTextValues(t *testing.T) {
	evs, a := stream.ParseAll([]byte("!raw:sql x\n!d 'q' 2/3 [a b]"))
	var lines []string
	for _, ev := range evs {
		lines = append(lines, MustString(ev, a))
	}
	want := []string{
		"directive_start name=sql raw=true",
		`raw_content content="x"`,
		"directive_end",
		"directive_start name=d",
		`quoted_string "q"`,
		"rational 2/3",
		"array_start",
		`string "a"`,
		`string "b"`,
		"array_end",
		"directive_end",
	}
	require.Equal(t, want, lines)
}

func TestColors(t *testing.T) {
	old := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = old }()

	evs, a := stream.ParseAll([]byte("|a 100% done"))
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, evs, a, EncodeColors(NewColors())))
	require.Contains(t, buf.String(), "\x1b[")
	require.Contains(t, buf.String(), "100%")
	require.NotContains(t, buf.String(), "%!")
}

func TestSink(t *testing.T) {
	evs, a := stream.ParseAll([]byte(selectorDoc))
	var buf bytes.Buffer
	s := NewSink(&buf, a, EncodeSpans(false))
	n, err := stream.Copy(s, stream.NewSliceEventReader(evs))
	require.NoError(t, err)
	require.Equal(t, len(evs), n)
	require.Equal(t, n, s.Count())
	require.True(t, strings.HasPrefix(buf.String(), "element_start name=div"))
}
