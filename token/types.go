package token

import "fmt"

type TokenType int

const (
	TEOF TokenType = iota
	TIndent
	TBlankLine
	TNewline
	TText
	TBlockOpen
	TEmbeddedOpen
	TSelector
	TDirective
	TInterp
	TInlineDirective
	TRefOpen
	TComment
	TInlineComment
	TFreeform
	TLCurl
	TRCurl
	TLSquare
	TRSquare
	TName
	THashID
	TClass
	TSuffix
	THeadEnd
	TAttrKey
	TMergeOpen
	TKey
	TAttrsEnd
	TNoValue
	TString
	TQuoted
	TBare
	TRawRest
	TRawLine
)

var typeNames = map[TokenType]string{
	TEOF:             "TEOF",
	TIndent:          "TIndent",
	TBlankLine:       "TBlankLine",
	TNewline:         "TNewline",
	TText:            "TText",
	TBlockOpen:       "TBlockOpen",
	TEmbeddedOpen:    "TEmbeddedOpen",
	TSelector:        "TSelector",
	TDirective:       "TDirective",
	TInterp:          "TInterp",
	TInlineDirective: "TInlineDirective",
	TRefOpen:         "TRefOpen",
	TComment:         "TComment",
	TInlineComment:   "TInlineComment",
	TFreeform:        "TFreeform",
	TLCurl:           "TLCurl",
	TRCurl:           "TRCurl",
	TLSquare:         "TLSquare",
	TRSquare:         "TRSquare",
	TName:            "TName",
	THashID:          "THashID",
	TClass:           "TClass",
	TSuffix:          "TSuffix",
	THeadEnd:         "THeadEnd",
	TAttrKey:         "TAttrKey",
	TMergeOpen:       "TMergeOpen",
	TKey:             "TKey",
	TAttrsEnd:        "TAttrsEnd",
	TNoValue:         "TNoValue",
	TString:          "TString",
	TQuoted:          "TQuoted",
	TBare:            "TBare",
	TRawRest:         "TRawRest",
	TRawLine:         "TRawLine",
}

func (t TokenType) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Range is a half-open range of absolute input offsets.
type Range struct {
	Start, End int64
}

func (r Range) Len() int {
	return int(r.End - r.Start)
}

func (r Range) Empty() bool {
	return r.End <= r.Start
}

// Flags qualify a token.
type Flags uint8

const (
	// FNamespace marks a directive token whose NS range is set.
	FNamespace Flags = 1 << iota
	// FEscape marks a string token whose body contains backslashes.
	FEscape
	// FValue marks a block key followed by ':'.
	FValue
)

// Token is one lexical unit. Start and End are absolute offsets into the
// logical input, End exclusive.
//
// Name holds the identifier part of names, ids, classes, keys and
// directives, and the indentation of raw lines. NS holds a directive
// namespace. Body holds the inner content of texts, comments, strings,
// freeform blocks, interpolations, inline directives and raw lines.
type Token struct {
	Type       TokenType
	Start, End int64
	Name       Range
	NS         Range
	Body       Range
	Flags      Flags
}

func (t *Token) Has(f Flags) bool {
	return t.Flags&f != 0
}

// Col returns the indentation width of indent and raw line tokens.
func (t *Token) Col() int {
	switch t.Type {
	case TRawLine:
		return t.Name.Len()
	default:
		return int(t.End - t.Start)
	}
}

func (t Token) String() string {
	return fmt.Sprintf("%s[%d:%d]", t.Type, t.Start, t.End)
}
