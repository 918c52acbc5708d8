package token

import "io"

func isNameStart(c byte) bool {
	return c == '_' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || c >= 0x80
}

func isNameChar(c byte) bool {
	return isNameStart(c) || '0' <= c && c <= '9' || c == '-'
}

func isHeadStart(c byte) bool {
	return isNameStart(c) || c == '#' || c == '.' || c == '['
}

func isSpace(c byte) bool {
	return c == ' '
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t'
}

func isWhite(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isSep(c byte) bool {
	return isWhite(c) || c == ','
}

func endsBare(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', ']', '}', ',':
		return true
	}
	return false
}

// IsNameStart reports whether c may begin an element, class, key or
// directive name.
func IsNameStart(c byte) bool {
	return isNameStart(c)
}

func (s *Scanner) content(braced bool) (Token, error) {
	i := s.pos
	if end, err := s.atEnd(i); end {
		if err != nil {
			return Token{}, err
		}
		return s.tok(TEOF, i, i), nil
	}
	switch s.buf[i] {
	case '\n':
		if !braced {
			return s.tok(TNewline, i, i+1), nil
		}
	case '\r':
		if !braced {
			n, ok, err := s.peek(i + 1)
			if err != nil {
				return Token{}, err
			}
			if ok && n == '\n' {
				return s.tok(TNewline, i, i+2), nil
			}
		}
	case '|':
		n, ok, err := s.peek(i + 1)
		if err != nil {
			return Token{}, err
		}
		if ok && n == '{' {
			return s.tok(TEmbeddedOpen, i, i+2), nil
		}
		if ok && !braced && isHeadStart(n) {
			return s.tok(TBlockOpen, i, i+1), nil
		}
	case '!':
		n, ok, err := s.peek(i + 1)
		if err != nil {
			return Token{}, err
		}
		if ok && n == '{' {
			m, ok, err := s.peek(i + 2)
			if err != nil {
				return Token{}, err
			}
			if !ok {
				return Token{}, NewTokenizeErr(ErrEOF, s.off(i), TInlineDirective)
			}
			if m == '{' {
				return s.interp(i)
			}
			return s.inlineDirective(i)
		}
	case '@':
		n, ok, err := s.peek(i + 1)
		if err != nil {
			return Token{}, err
		}
		if ok && n == '[' {
			return s.tok(TRefOpen, i, i+2), nil
		}
	case ';':
		n, ok, err := s.peek(i + 1)
		if err != nil {
			return Token{}, err
		}
		if ok && n == '{' {
			return s.inlineComment(i)
		}
		if !braced {
			return s.lineComment(i)
		}
	case '`':
		f, err := s.fence(i)
		if err != nil {
			return Token{}, err
		}
		if f {
			return s.freeform(i)
		}
	case '}':
		return s.tok(TRCurl, i, i+1), nil
	}
	return s.text(i, false, braced)
}

// text scans a run of plain content starting at i. With literal set the
// byte at i is a quote that makes the following byte plain.
func (s *Scanner) text(i int, literal, braced bool) (Token, error) {
	bodyStart, from := i, i
	if literal {
		bodyStart = i + 1
		c, ok, err := s.peek(i + 1)
		if err != nil {
			return Token{}, err
		}
		from = i + 1
		if ok && c != '\n' && c != '\r' {
			from = i + 2
		}
	}
	j, _ := s.resumed(i, from)
	trim := !braced
	for {
		if j >= len(s.buf) {
			if !s.final {
				s.mark(i, j, 0)
				return Token{}, io.EOF
			}
			break
		}
		stop, tr, err := s.textStop(i, j, braced)
		if err != nil {
			s.mark(i, j, 0)
			return Token{}, err
		}
		if stop {
			trim = tr
			break
		}
		j++
	}
	if j == i {
		j++
	}
	end := j
	if trim {
		for end > bodyStart && isBlank(s.buf[end-1]) {
			end--
		}
	}
	t := s.tok(TText, i, j)
	t.Body = s.rng(bodyStart, max(end, bodyStart))
	return t, nil
}

// textStop reports whether the plain run starting at start ends at j and
// whether trailing blanks are dropped from it.
func (s *Scanner) textStop(start, j int, braced bool) (bool, bool, error) {
	next := func(want byte) (bool, error) {
		n, ok, err := s.peek(j + 1)
		return ok && n == want, err
	}
	switch c := s.buf[j]; c {
	case '\n':
		return !braced, true, nil
	case '\r':
		if braced {
			return false, false, nil
		}
		nl, err := next('\n')
		return nl, true, err
	case '|':
		n, ok, err := s.peek(j + 1)
		if err != nil {
			return false, false, err
		}
		return ok && (n == '{' || !braced && isHeadStart(n)), false, nil
	case '!':
		b, err := next('{')
		return b, false, err
	case '@':
		b, err := next('[')
		return b, false, err
	case ';':
		if !braced && j > start && isBlank(s.buf[j-1]) {
			return true, true, nil
		}
		b, err := next('{')
		return b, false, err
	case '`':
		f, err := s.fence(j)
		return f, false, err
	case '}':
		return true, false, nil
	}
	return false, false, nil
}

func (s *Scanner) fence(i int) (bool, error) {
	for k := 1; k < 3; k++ {
		c, ok, err := s.peek(i + k)
		if err != nil || !ok || c != '`' {
			return false, err
		}
	}
	return true, nil
}

func (s *Scanner) lineComment(i int) (Token, error) {
	k, err := s.eol(i, i+1)
	if err != nil {
		return Token{}, err
	}
	end, _ := s.lineBody(i+1, k)
	t := s.tok(TComment, i, end)
	t.Body = s.rng(i+1, end)
	return t, nil
}

// balanced finds the '}' closing a group whose content starts at from.
func (s *Scanner) balanced(start, from int, tt TokenType) (int, error) {
	j, depth := s.resumed(start, from)
	for ; j < len(s.buf); j++ {
		switch s.buf[j] {
		case '{':
			depth++
		case '}':
			if depth == 0 {
				return j, nil
			}
			depth--
		}
	}
	if s.final {
		return 0, unterminated(s.off(start), tt)
	}
	s.mark(start, j, depth)
	return 0, io.EOF
}

func (s *Scanner) inlineComment(i int) (Token, error) {
	k, err := s.balanced(i, i+2, TInlineComment)
	if err != nil {
		return Token{}, err
	}
	t := s.tok(TInlineComment, i, k+1)
	t.Body = s.rng(i+2, k)
	return t, nil
}

func (s *Scanner) interp(i int) (Token, error) {
	j, depth := s.resumed(i, i+3)
	for j < len(s.buf) {
		switch s.buf[j] {
		case '{':
			depth++
		case '}':
			if depth > 0 {
				depth--
				break
			}
			n, ok, err := s.peek(j + 1)
			if err != nil {
				s.mark(i, j, depth)
				return Token{}, err
			}
			if ok && n == '}' {
				t := s.tok(TInterp, i, j+2)
				t.Body = s.rng(i+3, j)
				return t, nil
			}
		}
		j++
	}
	if s.final {
		return Token{}, unterminated(s.off(i), TInterp)
	}
	s.mark(i, j, depth)
	return Token{}, io.EOF
}

func (s *Scanner) inlineDirective(i int) (Token, error) {
	j := i + 2
	if !isNameStart(s.buf[j]) {
		return Token{}, unexpected(s.off(j))
	}
	e, err := s.name(j)
	if err != nil {
		return Token{}, err
	}
	t := Token{Type: TInlineDirective, Start: s.off(i), Name: s.rng(j, e)}
	c, ok, err := s.peek(e)
	if err != nil {
		return Token{}, err
	}
	if ok && c == ':' {
		n, more, err := s.peek(e + 1)
		if err != nil {
			return Token{}, err
		}
		if !more {
			return Token{}, unterminated(s.off(i), TInlineDirective)
		}
		if !isNameStart(n) {
			return Token{}, unexpected(s.off(e + 1))
		}
		k, err := s.name(e + 1)
		if err != nil {
			return Token{}, err
		}
		t.NS = t.Name
		t.Name = s.rng(e+1, k)
		t.Flags |= FNamespace
		e = k
		if c, ok, err = s.peek(e); err != nil {
			return Token{}, err
		}
	}
	if !ok {
		return Token{}, unterminated(s.off(i), TInlineDirective)
	}
	b := e
	switch {
	case isWhite(c):
		b = s.skip(e, isWhite)
		if end, err := s.atEnd(b); end {
			if err != nil {
				return Token{}, err
			}
			return Token{}, unterminated(s.off(i), TInlineDirective)
		}
	case c == '}':
	default:
		return Token{}, unexpected(s.off(e))
	}
	k, err := s.balanced(i, b, TInlineDirective)
	if err != nil {
		return Token{}, err
	}
	t.Body = s.rng(b, k)
	t.End = s.off(k + 1)
	return t, nil
}

func (s *Scanner) freeform(i int) (Token, error) {
	j, _ := s.resumed(i, i+3)
	for ; j < len(s.buf); j++ {
		if s.buf[j] != '`' {
			continue
		}
		f, err := s.fence(j)
		if err != nil {
			s.mark(i, j, 0)
			return Token{}, err
		}
		if f {
			t := s.tok(TFreeform, i, j+3)
			t.Body = s.rng(i+3, j)
			return t, nil
		}
	}
	if s.final {
		return Token{}, unterminated(s.off(i), TFreeform)
	}
	s.mark(i, j, 0)
	return Token{}, io.EOF
}
