package token

import (
	"encoding/hex"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"
)

// Unescape appends the decoded form of the body of a double quoted
// literal to dst. Unknown escapes keep the escaped byte; the offsets
// (relative to body) of their backslashes are returned in bad.
func Unescape(dst, body []byte) (res []byte, bad []int) {
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' || i+1 == len(body) {
			dst = append(dst, c)
			continue
		}
		i++
		switch body[i] {
		case '"', '\\', '/':
			dst = append(dst, body[i])
		case 'b':
			dst = append(dst, '\b')
		case 'f':
			dst = append(dst, '\f')
		case 'n':
			dst = append(dst, '\n')
		case 'r':
			dst = append(dst, '\r')
		case 't':
			dst = append(dst, '\t')
		case 'u':
			r, n := unicodeEsc(body[i+1:])
			if n == 0 {
				bad = append(bad, i-1)
				dst = append(dst, 'u')
				continue
			}
			dst = utf8.AppendRune(dst, r)
			i += n
		default:
			bad = append(bad, i-1)
			dst = append(dst, body[i])
		}
	}
	return dst, bad
}

// unicodeEsc decodes the hex digits following \u, joining a surrogate
// pair when a second \u escape follows. n is the number of bytes used.
func unicodeEsc(d []byte) (rune, int) {
	r, ok := hex4(d)
	if !ok {
		return 0, 0
	}
	if !utf16.IsSurrogate(r) {
		return r, 4
	}
	if len(d) >= 10 && d[4] == '\\' && d[5] == 'u' {
		if r2, ok := hex4(d[6:]); ok {
			if dec := utf16.DecodeRune(r, r2); dec != utf8.RuneError {
				return dec, 10
			}
		}
	}
	return utf8.RuneError, 4
}

func hex4(d []byte) (rune, bool) {
	if len(d) < 4 {
		return 0, false
	}
	var buf [2]byte
	if _, err := hex.Decode(buf[:], d[:4]); err != nil {
		return 0, false
	}
	return rune(buf[0])<<8 | rune(buf[1]), true
}

// Quote returns v as a double quoted literal that Unescape decodes back
// to v.
func Quote(v string) string {
	d := make([]byte, 1, len(v)+2)
	d[0] = '"'
	ucs := []byte{0, 0}
	cps := []byte{0, 0, 0, 0}
	for _, r := range v {
		switch r {
		case '"':
			d = append(d, '\\', '"')
		case '\\':
			d = append(d, '\\', '\\')
		case '\b':
			d = append(d, '\\', 'b')
		case '\f':
			d = append(d, '\\', 'f')
		case '\n':
			d = append(d, '\\', 'n')
		case '\r':
			d = append(d, '\\', 'r')
		case '\t':
			d = append(d, '\\', 't')
		default:
			if unicode.IsControl(r) {
				ucs[0] = byte(r >> 8)
				ucs[1] = byte(r)
				cps = hex.AppendEncode(cps[:0], ucs)
				d = append(d, '\\', 'u', cps[0], cps[1], cps[2], cps[3])
			} else {
				d = utf8.AppendRune(d, r)
			}
		}
	}
	d = append(d, '"')
	return string(d)
}
