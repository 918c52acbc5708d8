package format

import (
	"errors"
	"fmt"
	"strings"
)

// Format is an output format for event streams.
type Format int

const (
	TextFormat Format = iota
	YAMLFormat
	JSONFormat
)

var ErrBadFormat = errors.New("bad format")

func ParseFormat(v string) (Format, error) {
	f, ok := map[string]Format{
		"t":    TextFormat,
		"text": TextFormat,
		"y":    YAMLFormat,
		"yaml": YAMLFormat,
		"j":    JSONFormat,
		"json": JSONFormat,
	}[v]
	if ok {
		return f, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrBadFormat, v)
}

func (f Format) String() string {
	d, err := f.MarshalText()
	if err != nil {
		return err.Error()
	}
	return string(d)
}

func (f Format) MarshalText() ([]byte, error) {
	switch f {
	case TextFormat:
		return []byte("text"), nil
	case YAMLFormat:
		return []byte("yaml"), nil
	case JSONFormat:
		return []byte("json"), nil
	default:
		return nil, fmt.Errorf("<err: %d is not a format>", f)
	}
}

func (f *Format) UnmarshalText(d []byte) error {
	pf, err := ParseFormat(string(d))
	if err != nil {
		return err
	}
	*f = pf
	return nil
}

func (f Format) IsJSON() bool { return f == JSONFormat }
func (f Format) IsText() bool { return f == TextFormat }
func (f Format) IsYAML() bool { return f == YAMLFormat }

// Suffix returns the file extension for event streams in this format.
func (f Format) Suffix() string {
	switch f {
	case TextFormat:
		return ".events"
	case YAMLFormat:
		return ".yaml"
	case JSONFormat:
		return ".jsonl"
	default:
		return ""
	}
}

func AllFormats() []Format {
	return []Format{TextFormat, YAMLFormat, JSONFormat}
}

// ForPath returns the format whose suffix ends path.
func ForPath(path string) (Format, bool) {
	for _, f := range AllFormats() {
		if strings.HasSuffix(path, f.Suffix()) {
			return f, true
		}
	}
	return 0, false
}
