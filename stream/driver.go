package stream

import (
	"errors"
	"io"
	"sort"

	"github.com/udon-format/go-udon/arena"
	"github.com/udon-format/go-udon/debug"
	"github.com/udon-format/go-udon/token"
)

// Parser turns UDON bytes, fed in pieces of any size, into events.
//
// Feed and Finish push input; Read pulls the events completed so far.
// The event sequence does not depend on how the input is split between
// Feed calls. Content slices in events resolve against Arena until the
// parser is dropped or the arena released.
//
// A Parser is not safe for concurrent use.
type Parser struct {
	opts  parserOpts
	arena *arena.Arena
	sc    *token.Scanner
	segs  []segment
	fed   int64

	queue     []Event
	next      int
	warns     []*Warning
	lastStart int64
	err       *Error
	finished  bool
	done      bool

	st        state
	frames    []frame
	embeds    int
	hd        headState
	key       pendingKey
	blockOpen int64
	tgt       target
	tgtOpen   int64
	tgtBack   state
	tgtValue  Value
	arrays    []*Array
}

// NewParser returns a parser. capacityHint sizes the initial event queue
// and arena bookkeeping and does not limit the input.
func NewParser(capacityHint int, opts ...ParserOption) *Parser {
	o := defaultOpts()
	for _, opt := range opts {
		opt(&o)
	}
	capacityHint = max(capacityHint, 0)
	return &Parser{
		opts:  o,
		arena: arena.New(capacityHint / 64),
		sc:    token.NewScanner(),
		queue: make([]Event, 0, capacityHint),
	}
}

// Feed appends p to the input and queues every event it completes. After
// an Error event it does nothing. It returns ErrFinished once Finish has
// been called.
func (p *Parser) Feed(b []byte) error {
	if p.finished {
		return ErrFinished
	}
	if p.err != nil || len(b) == 0 {
		return nil
	}
	base := p.arena.Append(b)
	p.segs = append(p.segs, segment{logical: p.fed, base: base, n: int64(len(b))})
	p.fed += int64(len(b))
	if p.opts.log != nil && debug.Arena() {
		p.opts.log.Debug("feed", "bytes", len(b), "base", base, "buffered", p.sc.Buffered())
	}
	if err := p.sc.Feed(p.arena.Chunk(base)); err != nil {
		return err
	}
	p.pump()
	return nil
}

// Write implements io.Writer with Feed.
func (p *Parser) Write(b []byte) (int, error) {
	if err := p.Feed(b); err != nil {
		return 0, err
	}
	return len(b), nil
}

// Finish marks the end of input. Open elements and directives are
// closed; an unfinished token or unclosed embedded element produces the
// matching Error event. Calling Finish again does nothing.
func (p *Parser) Finish() error {
	if p.finished {
		return nil
	}
	p.finished = true
	if p.err != nil {
		return nil
	}
	p.sc.Finish()
	p.pump()
	if !p.done && p.err == nil {
		p.fail(ErrUnexpectedEOF, p.fed, p.fed)
	}
	return nil
}

// Read returns the next queued event. It returns false when the queue is
// empty, which is not an error; more events may follow the next Feed.
func (p *Parser) Read() (Event, bool) {
	if p.next >= len(p.queue) {
		return nil, false
	}
	ev := p.queue[p.next]
	p.queue[p.next] = nil
	p.next++
	if p.next == len(p.queue) {
		p.queue = p.queue[:0]
		p.next = 0
	}
	return ev, true
}

// Pending returns the number of queued events.
func (p *Parser) Pending() int {
	return len(p.queue) - p.next
}

// Arena returns the arena content slices resolve against.
func (p *Parser) Arena() *arena.Arena {
	return p.arena
}

// Err returns the Error event, if one was emitted.
func (p *Parser) Err() *Error {
	return p.err
}

// Done reports whether the input ended cleanly.
func (p *Parser) Done() bool {
	return p.done
}

// ParseAll parses a complete document and returns all of its events with
// the arena their slices resolve against.
func ParseAll(b []byte, opts ...ParserOption) ([]Event, *arena.Arena) {
	p := NewParser(len(b)/8, opts...)
	_ = p.Feed(b)
	_ = p.Finish()
	res := make([]Event, 0, p.Pending())
	for {
		ev, ok := p.Read()
		if !ok {
			return res, p.arena
		}
		res = append(res, ev)
	}
}

func (p *Parser) pump() {
	for p.err == nil && !p.done {
		mode := p.mode()
		p.sc.SetMode(mode)
		tok, err := p.sc.Next()
		if err == io.EOF {
			return
		}
		if err != nil {
			p.scanFault(err)
			return
		}
		if p.opts.log != nil && debug.Scan() {
			p.opts.log.Debug("token", "mode", mode, "type", tok.Type, "start", tok.Start, "end", tok.End)
		}
		p.step(&tok)
	}
}

func (p *Parser) scanFault(err error) {
	var te *token.TokenizeErr
	if !errors.As(err, &te) {
		off := p.sc.Offset()
		p.fail(ErrUnexpectedChar, off, off+1)
		return
	}
	switch te.Err {
	case token.ErrTab:
		p.fail(ErrNoTabs, te.Pos, te.Pos+1)
	case token.ErrEOF:
		p.fail(ErrUnexpectedEOF, te.Pos, p.fed)
	case token.ErrUnterminated:
		code := ErrUnclosed
		switch te.Type {
		case token.TString, token.TQuoted:
			code = ErrUnclosedStringValue
		case token.TFreeform:
			code = ErrUnclosedFreeform
		case token.TInterp:
			code = ErrUnclosedInterpolation
		case token.TInlineComment:
			code = ErrUnclosedText
		}
		p.fail(code, te.Pos, p.fed)
	default:
		p.fail(ErrUnexpectedChar, te.Pos, te.Pos+1)
	}
}

// fail emits the terminal Error event. The span is clamped so that it
// does not start before the last emitted event.
func (p *Parser) fail(code ErrorCode, start, end int64) {
	start = max(start, p.lastStart)
	if p.sc.Final() {
		end = min(end, p.fed)
	}
	end = max(end, start)
	ev := &Error{Span: Span{start, end}, Code: code}
	p.warns = nil
	p.push(ev)
	p.err = ev
}

func (p *Parser) warn(start int64, msg string) {
	if !p.opts.warnings {
		return
	}
	p.warns = append(p.warns, &Warning{Span: Span{start, start + 2}, Message: msg})
}

// emit queues ev followed by any pending warnings that lie inside it.
func (p *Parser) emit(ev Event) {
	p.push(ev)
	end := ev.Pos().End
	k := 0
	for k < len(p.warns) && p.warns[k].Start < end {
		p.push(p.warns[k])
		k++
	}
	p.warns = p.warns[k:]
}

func (p *Parser) push(ev Event) {
	p.queue = append(p.queue, ev)
	p.lastStart = ev.Pos().Start
	if p.opts.log != nil {
		p.opts.log.Debug("event", "kind", ev.Kind(), "span", ev.Pos())
	}
}

// slice returns a handle for the input range r. Ranges inside one fed
// chunk refer to it directly; others are copied into a new chunk.
func (p *Parser) slice(r token.Range) arena.Slice {
	n := r.Len()
	if n <= 0 {
		return p.empty()
	}
	i := sort.Search(len(p.segs), func(i int) bool {
		return p.segs[i].logical+p.segs[i].n > r.Start
	})
	if i < len(p.segs) {
		seg := p.segs[i]
		if r.Start >= seg.logical && r.End <= seg.logical+seg.n {
			if s, ok := p.arena.Slice(seg.base+r.Start-seg.logical, n); ok {
				return s
			}
		}
	}
	if p.opts.log != nil && debug.Arena() {
		p.opts.log.Debug("reassemble", "start", r.Start, "end", r.End)
	}
	return p.store(p.sc.Bytes(r))
}

func (p *Parser) store(b []byte) arena.Slice {
	off := p.arena.Append(b)
	s, _ := p.arena.Slice(off, len(b))
	return s
}
