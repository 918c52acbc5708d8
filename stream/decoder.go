package stream

import (
	"io"

	"github.com/udon-format/go-udon/arena"
)

// Decoder reads UDON from an io.Reader and returns its events one at a
// time.
type Decoder struct {
	r    io.Reader
	p    *Parser
	buf  []byte
	eof  bool
	rerr error
}

// NewDecoder creates a Decoder reading from r.
func NewDecoder(r io.Reader, opts ...ParserOption) *Decoder {
	p := NewParser(256, opts...)
	return &Decoder{
		r:   r,
		p:   p,
		buf: make([]byte, p.opts.readSize),
	}
}

// ReadEvent returns the next event. It returns io.EOF after the last
// event, including after an Error event. Errors from the underlying
// reader are returned as is.
func (d *Decoder) ReadEvent() (Event, error) {
	for {
		if ev, ok := d.p.Read(); ok {
			return ev, nil
		}
		if d.rerr != nil {
			return nil, d.rerr
		}
		if d.eof || d.p.Err() != nil {
			return nil, io.EOF
		}
		n, err := d.r.Read(d.buf)
		if n > 0 {
			if ferr := d.p.Feed(d.buf[:n]); ferr != nil {
				return nil, ferr
			}
		}
		switch {
		case err == io.EOF:
			d.eof = true
			_ = d.p.Finish()
		case err != nil:
			d.rerr = err
		}
	}
}

// Arena returns the arena the events' slices resolve against.
func (d *Decoder) Arena() *arena.Arena {
	return d.p.Arena()
}

// Err returns the Error event seen so far, if any.
func (d *Decoder) Err() *Error {
	return d.p.Err()
}

// Depth returns the number of constructs open at the current position.
func (d *Decoder) Depth() int {
	return d.p.Depth()
}
