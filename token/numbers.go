package token

import (
	"bytes"
	"strconv"
)

type ScalarKind int

const (
	ScalarString ScalarKind = iota
	ScalarNil
	ScalarBool
	ScalarInt
	ScalarFloat
	ScalarRational
	ScalarComplex
)

func (k ScalarKind) String() string {
	switch k {
	case ScalarNil:
		return "nil"
	case ScalarBool:
		return "bool"
	case ScalarInt:
		return "integer"
	case ScalarFloat:
		return "float"
	case ScalarRational:
		return "rational"
	case ScalarComplex:
		return "complex"
	default:
		return "string"
	}
}

// Scalar is the classification of a bare literal. Only the fields for
// Kind are set.
type Scalar struct {
	Kind       ScalarKind
	Bool       bool
	Int        int64
	Float      float64
	Num, Den   int64
	Real, Imag float64
}

// ParseScalar classifies a bare literal. Forms are tried in order:
// rational, complex, float, integer, the keywords true, false, nil and
// null; anything else is a string.
func ParseScalar(d []byte) Scalar {
	if n, m, ok := rational(d); ok {
		return Scalar{Kind: ScalarRational, Num: n, Den: m}
	}
	if re, im, ok := complexNum(d); ok {
		return Scalar{Kind: ScalarComplex, Real: re, Imag: im}
	}
	if f, ok := floatLit(d); ok {
		return Scalar{Kind: ScalarFloat, Float: f}
	}
	if i, ok := intLit(d); ok {
		return Scalar{Kind: ScalarInt, Int: i}
	}
	switch string(d) {
	case "true":
		return Scalar{Kind: ScalarBool, Bool: true}
	case "false":
		return Scalar{Kind: ScalarBool}
	case "nil", "null":
		return Scalar{Kind: ScalarNil}
	}
	return Scalar{Kind: ScalarString}
}

func rational(d []byte) (int64, int64, bool) {
	i := bytes.IndexByte(d, '/')
	if i <= 0 || bytes.IndexByte(d[i+1:], '/') >= 0 {
		return 0, 0, false
	}
	n, ok := intLit(d[:i])
	if !ok {
		return 0, 0, false
	}
	m, ok := intLit(d[i+1:])
	if !ok || m == 0 {
		return 0, 0, false
	}
	return n, m, true
}

func complexNum(d []byte) (float64, float64, bool) {
	if len(d) < 2 || d[len(d)-1] != 'i' {
		return 0, 0, false
	}
	body := d[:len(d)-1]
	split := -1
	for k := len(body) - 1; k > 0; k-- {
		if body[k] != '+' && body[k] != '-' {
			continue
		}
		if p := body[k-1]; p == 'e' || p == 'E' {
			continue
		}
		split = k
		break
	}
	if split < 0 {
		im, ok := part(body)
		return 0, im, ok
	}
	re, ok := part(body[:split])
	if !ok {
		return 0, 0, false
	}
	im, ok := part(body[split:])
	if !ok {
		return 0, 0, false
	}
	return re, im, true
}

// part parses the float or integer parts of a complex literal.
func part(d []byte) (float64, bool) {
	if f, ok := floatLit(d); ok {
		return f, true
	}
	if i, ok := intLit(d); ok {
		return float64(i), true
	}
	return 0, false
}

func floatLit(d []byte) (float64, bool) {
	s := unsign(d)
	if len(s) == 0 || !asciiDigit(s[0]) || hasRadix(s) {
		return 0, false
	}
	digits := asciiDigits(s)
	f := fract(s[digits:])
	e := exp(s[digits+f:])
	if f+e == 0 || digits+f+e != len(s) {
		return 0, false
	}
	v, err := strconv.ParseFloat(string(d), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func intLit(d []byte) (int64, bool) {
	s := unsign(d)
	if len(s) == 0 || !asciiDigit(s[0]) {
		return 0, false
	}
	if hasRadix(s) {
		v, err := strconv.ParseInt(string(d), 0, 64)
		return v, err == nil
	}
	clean := make([]byte, 0, len(d))
	for i, c := range d {
		switch {
		case asciiDigit(c):
		case c == '_':
			if i == 0 || !asciiDigit(d[i-1]) || i+1 == len(d) || !asciiDigit(d[i+1]) {
				return 0, false
			}
			continue
		case i == 0 && (c == '+' || c == '-'):
		default:
			return 0, false
		}
		clean = append(clean, c)
	}
	v, err := strconv.ParseInt(string(clean), 10, 64)
	return v, err == nil
}

func unsign(d []byte) []byte {
	if len(d) > 0 && (d[0] == '+' || d[0] == '-') {
		return d[1:]
	}
	return d
}

func hasRadix(s []byte) bool {
	if len(s) < 2 || s[0] != '0' {
		return false
	}
	switch s[1] {
	case 'x', 'X', 'o', 'O', 'b', 'B':
		return true
	}
	return false
}

func asciiDigits(d []byte) int {
	i := 0
	for i < len(d) {
		if !asciiDigit(d[i]) {
			return i
		}
		i++
	}
	return i
}

func asciiDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func exp(d []byte) int {
	if len(d) < 2 {
		return 0
	}
	switch d[0] {
	case 'e', 'E':
	default:
		return 0
	}
	i := 1
	switch d[1] {
	case '+', '-':
		i++
	}
	if i == len(d) {
		return 0
	}
	n := asciiDigits(d[i:])
	if n == 0 {
		return 0
	}
	return n + i
}

func fract(d []byte) int {
	if len(d) < 2 || d[0] != '.' {
		return 0
	}
	n := asciiDigits(d[1:])
	if n == 0 {
		return 0
	}
	return n + 1
}
