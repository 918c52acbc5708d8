package format

import (
	"errors"
	"testing"
)

func TestParseFormat(t *testing.T) {
	for _, f := range AllFormats() {
		got, err := ParseFormat(f.String())
		if err != nil || got != f {
			t.Errorf("%s: got %v %v", f, got, err)
		}
		got, err = ParseFormat(f.String()[:1])
		if err != nil || got != f {
			t.Errorf("%s short: got %v %v", f, got, err)
		}
	}
	if _, err := ParseFormat("xml"); !errors.Is(err, ErrBadFormat) {
		t.Errorf("xml: %v", err)
	}
}

func TestUnmarshalText(t *testing.T) {
	var f Format
	if err := f.UnmarshalText([]byte("yaml")); err != nil || !f.IsYAML() {
		t.Errorf("got %v %v", f, err)
	}
	if err := f.UnmarshalText([]byte("toml")); err == nil {
		t.Error("expected error")
	}
}

func TestForPath(t *testing.T) {
	cases := []struct {
		path string
		want Format
		ok   bool
	}{
		{"doc.events", TextFormat, true},
		{"doc.yaml", YAMLFormat, true},
		{"dir/doc.jsonl", JSONFormat, true},
		{"doc.json", 0, false},
		{"-", 0, false},
	}
	for _, c := range cases {
		got, ok := ForPath(c.path)
		if ok != c.ok || got != c.want {
			t.Errorf("%q: got %v %v, want %v %v", c.path, got, ok, c.want, c.ok)
		}
	}
}
