package encode

import (
	"bytes"
	"strings"

	"github.com/udon-format/go-udon/arena"
	"github.com/udon-format/go-udon/stream"
)

// MustString returns the text form of ev without its span.
func MustString(ev stream.Event, a *arena.Arena) string {
	buf := bytes.NewBuffer(nil)
	if err := Encode(ev, a, buf, EncodeSpans(false)); err != nil {
		panic(err)
	}
	return strings.TrimSpace(buf.String())
}
