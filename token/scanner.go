package token

import (
	"bytes"
	"io"
)

// Mode selects the lexical context of the next token.
type Mode int

const (
	// ModeLine scans the indentation of a line.
	ModeLine Mode = iota
	// ModeRawLine is ModeLine inside the body of a raw directive: lines
	// indented deeper than the directive become TRawLine tokens.
	ModeRawLine
	// ModeLineStart scans the first token after indentation.
	ModeLineStart
	// ModeContent scans inline content.
	ModeContent
	// ModeBraced scans inline content inside an embedded element.
	ModeBraced
	// ModeHead scans the parts of an element head.
	ModeHead
	// ModeAttrs scans attributes following an element head.
	ModeAttrs
	// ModeBlock scans the entries of a {...} attribute block.
	ModeBlock
	// ModeValue scans one required value.
	ModeValue
	// ModeValueOpt scans one value on the current line, if there is one.
	ModeValueOpt
	// ModeArray scans the items of an array.
	ModeArray
	// ModeRawRest scans the remainder of a raw directive line.
	ModeRawRest
)

var modeNames = [...]string{
	ModeLine:      "line",
	ModeRawLine:   "raw-line",
	ModeLineStart: "line-start",
	ModeContent:   "content",
	ModeBraced:    "braced",
	ModeHead:      "head",
	ModeAttrs:     "attrs",
	ModeBlock:     "block",
	ModeValue:     "value",
	ModeValueOpt:  "value-opt",
	ModeArray:     "array",
	ModeRawRest:   "raw-rest",
}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "mode?"
}

// hintKind says which scan recorded a resume hint. A hint is only
// picked up by a scan of the same kind.
type hintKind uint8

const (
	hintToken hintKind = iota
	hintName
	hintBare
	hintSelector
)

// resume records how far an unfinished token was scanned so that the
// next attempt at the same token does not rescan the same bytes.
type resume struct {
	ok    bool
	kind  hintKind
	start int64
	mode  Mode
	at    int64
	depth int
}

// Scanner tokenizes a stream of bytes supplied in pieces.
type Scanner struct {
	buf     []byte
	base    int64
	pos     int
	final   bool
	mode    Mode
	rawCol  int
	hint    resume
	lineOff int64
}

// NewScanner returns a scanner in ModeLine with an empty window.
func NewScanner() *Scanner {
	return &Scanner{mode: ModeLine}
}

// Feed adds p to the window. The scanner keeps a reference to p, which
// must not be modified afterwards.
func (s *Scanner) Feed(p []byte) error {
	if s.final {
		return ErrFinal
	}
	if len(p) == 0 {
		return nil
	}
	rest := s.buf[s.pos:]
	s.base += int64(s.pos)
	s.pos = 0
	if len(rest) == 0 {
		s.buf = p[:len(p):len(p)]
		return nil
	}
	s.buf = append(rest, p...)
	return nil
}

// Finish marks the end of input. Afterwards Next never returns io.EOF.
func (s *Scanner) Finish() {
	s.final = true
}

func (s *Scanner) Final() bool {
	return s.final
}

func (s *Scanner) SetMode(m Mode) {
	s.mode = m
}

func (s *Scanner) Mode() Mode {
	return s.mode
}

// SetRawColumn sets the column of the innermost raw directive for
// ModeRawLine.
func (s *Scanner) SetRawColumn(col int) {
	s.rawCol = col
}

// Offset returns the absolute offset of the next unconsumed byte.
func (s *Scanner) Offset() int64 {
	return s.base + int64(s.pos)
}

// LineStart returns the offset of the first byte of the line holding
// the most recently returned token.
func (s *Scanner) LineStart() int64 {
	return s.lineOff
}

// End returns the absolute offset just past the buffered input.
func (s *Scanner) End() int64 {
	return s.base + int64(len(s.buf))
}

// Buffered returns the number of unconsumed bytes in the window.
func (s *Scanner) Buffered() int {
	return len(s.buf) - s.pos
}

// Bytes returns the bytes of r, which must lie within the bytes of the
// most recent token or after it.
func (s *Scanner) Bytes(r Range) []byte {
	return s.buf[r.Start-s.base : r.End-s.base]
}

// Next returns the next token in the current mode. It returns io.EOF
// when more input is needed and a *TokenizeErr when the input is
// malformed.
func (s *Scanner) Next() (Token, error) {
	var (
		tok Token
		err error
	)
	switch s.mode {
	case ModeLine:
		tok, err = s.line(false)
	case ModeRawLine:
		tok, err = s.line(true)
	case ModeLineStart:
		tok, err = s.lineStart()
	case ModeContent:
		tok, err = s.content(false)
	case ModeBraced:
		tok, err = s.content(true)
	case ModeHead:
		tok, err = s.head()
	case ModeAttrs:
		tok, err = s.attrs()
	case ModeBlock:
		tok, err = s.block()
	case ModeValue:
		tok, err = s.value(false, false)
	case ModeValueOpt:
		tok, err = s.value(true, false)
	case ModeArray:
		tok, err = s.value(false, true)
	case ModeRawRest:
		tok, err = s.rawRest()
	default:
		panic("token: bad mode")
	}
	if err != nil {
		return Token{}, err
	}
	next := int(tok.End - s.base)
	if k := bytes.LastIndexByte(s.buf[s.pos:next], '\n'); k >= 0 {
		s.lineOff = s.off(s.pos + k + 1)
	}
	s.pos = next
	s.hint = resume{}
	return tok, nil
}

func (s *Scanner) off(i int) int64 {
	return s.base + int64(i)
}

// peek returns buf[i]. ok is false when i is past the end of a finished
// input; err is io.EOF when i is past the end of an unfinished one.
func (s *Scanner) peek(i int) (c byte, ok bool, err error) {
	if i < len(s.buf) {
		return s.buf[i], true, nil
	}
	if s.final {
		return 0, false, nil
	}
	return 0, false, io.EOF
}

// atEnd reports whether i is at the end of the window and, if so,
// whether that is the end of input.
func (s *Scanner) atEnd(i int) (bool, error) {
	if i < len(s.buf) {
		return false, nil
	}
	if s.final {
		return true, nil
	}
	return true, io.EOF
}

func (s *Scanner) mark(start, j int, depth int) {
	s.markAs(hintToken, start, j, depth)
}

func (s *Scanner) markAs(k hintKind, start, j int, depth int) {
	s.hint = resume{ok: true, kind: k, start: s.off(start), mode: s.mode, at: s.off(j), depth: depth}
}

// resumed returns where to continue scanning the token at start, given
// the first index the scan could begin from.
func (s *Scanner) resumed(start, from int) (int, int) {
	return s.resumedAs(hintToken, start, from)
}

func (s *Scanner) resumedAs(k hintKind, start, from int) (int, int) {
	h := s.hint
	if !h.ok || h.kind != k || h.mode != s.mode || h.start != s.off(start) {
		return from, 0
	}
	j := int(h.at - s.base)
	if j < from {
		return from, 0
	}
	return j, h.depth
}

func (s *Scanner) tok(tt TokenType, start, end int) Token {
	return Token{Type: tt, Start: s.off(start), End: s.off(end)}
}

func (s *Scanner) rng(start, end int) Range {
	return Range{Start: s.off(start), End: s.off(end)}
}

func (s *Scanner) name(i int) (int, error) {
	j, _ := s.resumedAs(hintName, i, i)
	for j < len(s.buf) {
		if !isNameChar(s.buf[j]) {
			return j, nil
		}
		j++
	}
	if s.final {
		return j, nil
	}
	s.markAs(hintName, i, j, 0)
	return j, io.EOF
}

func (s *Scanner) skip(i int, f func(byte) bool) int {
	for i < len(s.buf) && f(s.buf[i]) {
		i++
	}
	return i
}

func (s *Scanner) line(raw bool) (Token, error) {
	i := s.skip(s.pos, isSpace)
	if end, err := s.atEnd(i); end {
		if err != nil {
			return Token{}, err
		}
		return s.tok(TEOF, i, i), nil
	}
	switch s.buf[i] {
	case '\t':
		return Token{}, NewTokenizeErr(ErrTab, s.off(i), TIndent)
	case '\n':
		return s.tok(TBlankLine, s.pos, i+1), nil
	case '\r':
		c, ok, err := s.peek(i + 1)
		if err != nil {
			return Token{}, err
		}
		if ok && c == '\n' {
			return s.tok(TBlankLine, s.pos, i+2), nil
		}
	}
	if raw && i-s.pos > s.rawCol {
		return s.rawLine(i)
	}
	return s.tok(TIndent, s.pos, i), nil
}

// eol finds the next '\n' at or after from. It returns the index of the
// newline, or len(buf) at the end of finished input.
func (s *Scanner) eol(start, from int) (int, error) {
	j, _ := s.resumed(start, from)
	for ; j < len(s.buf); j++ {
		if s.buf[j] == '\n' {
			return j, nil
		}
	}
	if s.final {
		return j, nil
	}
	s.mark(start, j, 0)
	return j, io.EOF
}

// lineBody returns the range [from, k) minus a trailing '\r' and the
// index just past the line terminator.
func (s *Scanner) lineBody(from, k int) (int, int) {
	end := k
	if k > from && s.buf[k-1] == '\r' {
		end = k - 1
	}
	if k < len(s.buf) {
		return end, k + 1
	}
	return end, k
}

func (s *Scanner) rawLine(i int) (Token, error) {
	k, err := s.eol(s.pos, i)
	if err != nil {
		return Token{}, err
	}
	bodyEnd, next := s.lineBody(i, k)
	t := s.tok(TRawLine, s.pos, next)
	t.Name = s.rng(s.pos, i)
	t.Body = s.rng(i, bodyEnd)
	return t, nil
}

func (s *Scanner) rawRest() (Token, error) {
	i := s.skip(s.pos, isBlank)
	k, err := s.eol(s.pos, i)
	if err != nil {
		return Token{}, err
	}
	bodyEnd, next := s.lineBody(i, k)
	t := s.tok(TRawRest, s.pos, next)
	t.Body = s.rng(i, bodyEnd)
	return t, nil
}

func (s *Scanner) lineStart() (Token, error) {
	i := s.pos
	if end, err := s.atEnd(i); end {
		if err != nil {
			return Token{}, err
		}
		return s.tok(TEOF, i, i), nil
	}
	c := s.buf[i]
	switch {
	case c == '!':
		n, ok, err := s.peek(i + 1)
		if err != nil {
			return Token{}, err
		}
		if ok && isNameStart(n) {
			return s.directive(i)
		}
	case c == ':':
		n, ok, err := s.peek(i + 1)
		if err != nil {
			return Token{}, err
		}
		if ok && n == '[' {
			return s.tok(TMergeOpen, i, i+2), nil
		}
		if ok && isNameStart(n) {
			return s.attrKey(i)
		}
	case c == '\'':
		return s.text(i, true, false)
	case isNameStart(c):
		sel, err := s.selector(i)
		if err != nil {
			return Token{}, err
		}
		if sel {
			return s.tok(TSelector, i, i), nil
		}
	}
	return s.content(false)
}

// selector reports whether the line at i starts with a bare element
// head followed by an attribute block, as in div#main.wide{...}.
func (s *Scanner) selector(i int) (bool, error) {
	j, _ := s.resumedAs(hintSelector, i, i)
	for {
		if j >= len(s.buf) {
			if s.final {
				return false, nil
			}
			s.markAs(hintSelector, i, j, 0)
			return false, io.EOF
		}
		c := s.buf[j]
		switch c {
		case '{':
			return true, nil
		case '#', '.', '?', '*', '+':
			n, ok, err := s.peek(j + 1)
			if err != nil {
				s.markAs(hintSelector, i, j, 0)
				return false, err
			}
			if !ok {
				return false, nil
			}
			if c == '?' || c == '*' || c == '+' {
				return n == '{', nil
			}
			if !isNameStart(n) {
				return false, nil
			}
			j += 2
		default:
			if !isNameChar(c) {
				return false, nil
			}
			j++
		}
	}
}

func (s *Scanner) directive(i int) (Token, error) {
	j, err := s.name(i + 1)
	if err != nil {
		return Token{}, err
	}
	t := Token{Type: TDirective, Start: s.off(i), Name: s.rng(i+1, j)}
	c, ok, err := s.peek(j)
	if err != nil {
		return Token{}, err
	}
	if ok && c == ':' {
		n, more, err := s.peek(j + 1)
		if err != nil {
			return Token{}, err
		}
		if !more {
			return Token{}, NewTokenizeErr(ErrEOF, s.off(i), TDirective)
		}
		if !isNameStart(n) {
			return Token{}, unexpected(s.off(j + 1))
		}
		k, err := s.name(j + 1)
		if err != nil {
			return Token{}, err
		}
		t.NS = t.Name
		t.Name = s.rng(j+1, k)
		t.Flags |= FNamespace
		j = k
		if c, ok, err = s.peek(j); err != nil {
			return Token{}, err
		}
	}
	if ok && !isBlank(c) && c != '\n' && c != '\r' {
		return Token{}, unexpected(s.off(j))
	}
	t.End = s.off(j)
	return t, nil
}

func (s *Scanner) attrKey(i int) (Token, error) {
	j, err := s.name(i + 1)
	if err != nil {
		return Token{}, err
	}
	t := s.tok(TAttrKey, i, j)
	t.Name = s.rng(i+1, j)
	return t, nil
}

func (s *Scanner) head() (Token, error) {
	i := s.pos
	if end, err := s.atEnd(i); end {
		if err != nil {
			return Token{}, err
		}
		return s.tok(TEOF, i, i), nil
	}
	c := s.buf[i]
	switch {
	case isNameStart(c):
		j, err := s.name(i)
		if err != nil {
			return Token{}, err
		}
		t := s.tok(TName, i, j)
		t.Name = t.Range()
		return t, nil
	case c == '#' || c == '.':
		tt := THashID
		if c == '.' {
			tt = TClass
		}
		n, ok, err := s.peek(i + 1)
		if err != nil {
			return Token{}, err
		}
		if !ok {
			return Token{}, NewTokenizeErr(ErrEOF, s.off(i), tt)
		}
		if !isNameStart(n) {
			return Token{}, unexpected(s.off(i + 1))
		}
		j, err := s.name(i + 1)
		if err != nil {
			return Token{}, err
		}
		t := s.tok(tt, i, j)
		t.Name = s.rng(i+1, j)
		return t, nil
	case c == '[':
		return s.tok(TLSquare, i, i+1), nil
	case c == '?' || c == '*' || c == '+':
		return s.tok(TSuffix, i, i+1), nil
	case c == '!':
		n, ok, err := s.peek(i + 1)
		if err != nil {
			return Token{}, err
		}
		if ok && n == '{' {
			return s.tok(THeadEnd, i, i), nil
		}
		return s.tok(TSuffix, i, i+1), nil
	}
	switch c {
	case ' ', '\t', '\n', '\r', '{', '}', ';':
		return s.tok(THeadEnd, i, i), nil
	}
	return Token{}, unexpected(s.off(i))
}

func (s *Scanner) attrs() (Token, error) {
	i := s.skip(s.pos, isBlank)
	if end, err := s.atEnd(i); end {
		if err != nil {
			return Token{}, err
		}
		return s.tok(TAttrsEnd, i, i), nil
	}
	switch s.buf[i] {
	case ':':
		n, ok, err := s.peek(i + 1)
		if err != nil {
			return Token{}, err
		}
		if !ok {
			return Token{}, NewTokenizeErr(ErrEOF, s.off(i), TAttrKey)
		}
		if n == '[' {
			return s.tok(TMergeOpen, i, i+2), nil
		}
		if isNameStart(n) {
			return s.attrKey(i)
		}
	case '{':
		return s.tok(TLCurl, i, i+1), nil
	}
	return s.tok(TAttrsEnd, i, i), nil
}

func (s *Scanner) block() (Token, error) {
	i := s.skip(s.pos, isSep)
	if end, err := s.atEnd(i); end {
		if err != nil {
			return Token{}, err
		}
		return s.tok(TEOF, i, i), nil
	}
	c := s.buf[i]
	switch {
	case c == '}':
		return s.tok(TRCurl, i, i+1), nil
	case c == ':':
		n, ok, err := s.peek(i + 1)
		if err != nil {
			return Token{}, err
		}
		if !ok {
			return Token{}, NewTokenizeErr(ErrEOF, s.off(i), TMergeOpen)
		}
		if n != '[' {
			return Token{}, unexpected(s.off(i + 1))
		}
		return s.tok(TMergeOpen, i, i+2), nil
	case isNameStart(c):
		j, err := s.name(i)
		if err != nil {
			return Token{}, err
		}
		t := s.tok(TKey, i, j)
		t.Name = s.rng(i, j)
		n, ok, err := s.peek(j)
		if err != nil {
			return Token{}, err
		}
		if ok && n == ':' {
			t.Flags |= FValue
			t.End++
		}
		return t, nil
	}
	return Token{}, unexpected(s.off(i))
}

func (s *Scanner) value(opt, array bool) (Token, error) {
	var skip func(byte) bool
	switch {
	case opt:
		skip = isBlank
	case array:
		skip = isSep
	default:
		skip = isWhite
	}
	i := s.skip(s.pos, skip)
	if end, err := s.atEnd(i); end {
		if err != nil {
			return Token{}, err
		}
		if opt {
			return s.tok(TNoValue, i, i), nil
		}
		return s.tok(TEOF, i, i), nil
	}
	c := s.buf[i]
	switch c {
	case '"':
		return s.str(i)
	case '\'':
		return s.quoted(i)
	case '[':
		return s.tok(TLSquare, i, i+1), nil
	}
	if opt {
		switch c {
		case ']':
			return s.tok(TRSquare, i, i+1), nil
		case ':', ';', '{', '}', ',', '|', '\n', '\r':
			return s.tok(TNoValue, i, i), nil
		case '!', '@':
			n, ok, err := s.peek(i + 1)
			if err != nil {
				return Token{}, err
			}
			if ok && (c == '!' && n == '{' || c == '@' && n == '[') {
				return s.tok(TNoValue, i, i), nil
			}
		}
		return s.bare(i)
	}
	switch c {
	case ']':
		return s.tok(TRSquare, i, i+1), nil
	case '}':
		return s.tok(TRCurl, i, i+1), nil
	case ',':
		return Token{}, unexpected(s.off(i))
	}
	return s.bare(i)
}

func (s *Scanner) bare(i int) (Token, error) {
	j, _ := s.resumedAs(hintBare, i, i)
	for j < len(s.buf) && !endsBare(s.buf[j]) {
		j++
	}
	if j == len(s.buf) && !s.final {
		s.markAs(hintBare, i, j, 0)
		return Token{}, io.EOF
	}
	return s.tok(TBare, i, j), nil
}

func (s *Scanner) str(i int) (Token, error) {
	j, esc := s.resumed(i, i+1)
	for j < len(s.buf) {
		switch s.buf[j] {
		case '"':
			t := s.tok(TString, i, j+1)
			t.Body = s.rng(i+1, j)
			if esc != 0 {
				t.Flags |= FEscape
			}
			return t, nil
		case '\\':
			if j+1 >= len(s.buf) {
				if s.final {
					return Token{}, unterminated(s.off(i), TString)
				}
				s.mark(i, j, 1)
				return Token{}, io.EOF
			}
			esc = 1
			j += 2
		default:
			j++
		}
	}
	if s.final {
		return Token{}, unterminated(s.off(i), TString)
	}
	s.mark(i, j, esc)
	return Token{}, io.EOF
}

func (s *Scanner) quoted(i int) (Token, error) {
	j, _ := s.resumed(i, i+1)
	for ; j < len(s.buf); j++ {
		if s.buf[j] == '\'' {
			t := s.tok(TQuoted, i, j+1)
			t.Body = s.rng(i+1, j)
			return t, nil
		}
	}
	if s.final {
		return Token{}, unterminated(s.off(i), TQuoted)
	}
	s.mark(i, j, 0)
	return Token{}, io.EOF
}

// Range returns [Start, End).
func (t *Token) Range() Range {
	return Range{Start: t.Start, End: t.End}
}
