package stream

import (
	"fmt"

	"github.com/udon-format/go-udon/arena"
)

// Span is a half-open byte range of the logical input.
type Span struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// Pos returns the span itself, so every event embedding a Span has it.
func (s Span) Pos() Span {
	return s
}

func (s Span) Len() int64 {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("[%d,%d)", s.Start, s.End)
}

// Event is one unit of parser output. The set of implementations is
// closed; consumers dispatch on it with a Visitor or a type switch.
type Event interface {
	Kind() Kind
	Pos() Span
	Accept(Visitor) error
	isEvent()
}

// Value is an id, attribute value or array item: one of the scalar value
// events or an *Array.
type Value interface {
	Pos() Span
	isValue()
}

// Visitor has one method per event kind.
type Visitor interface {
	VisitElementStart(*ElementStart) error
	VisitElementEnd(*ElementEnd) error
	VisitEmbeddedStart(*EmbeddedStart) error
	VisitEmbeddedEnd(*EmbeddedEnd) error
	VisitArrayStart(*ArrayStart) error
	VisitArrayEnd(*ArrayEnd) error
	VisitDirectiveStart(*DirectiveStart) error
	VisitDirectiveEnd(*DirectiveEnd) error
	VisitFreeformStart(*FreeformStart) error
	VisitFreeformEnd(*FreeformEnd) error
	VisitAttribute(*Attribute) error
	VisitIdReference(*IdReference) error
	VisitAttributeMerge(*AttributeMerge) error
	VisitNil(*NilValue) error
	VisitBool(*BoolValue) error
	VisitInteger(*IntegerValue) error
	VisitFloat(*FloatValue) error
	VisitRational(*RationalValue) error
	VisitComplex(*ComplexValue) error
	VisitString(*StringValue) error
	VisitQuotedString(*QuotedStringValue) error
	VisitText(*Text) error
	VisitComment(*Comment) error
	VisitRawContent(*RawContent) error
	VisitInterpolation(*Interpolation) error
	VisitInlineDirective(*InlineDirective) error
	VisitWarning(*Warning) error
	VisitError(*Error) error
}

type Suffix byte

const (
	SuffixOptional   Suffix = '?'
	SuffixRequired   Suffix = '!'
	SuffixZeroOrMore Suffix = '*'
	SuffixOneOrMore  Suffix = '+'
)

func (s Suffix) String() string {
	return string(rune(s))
}

// Head is the name, id, classes and suffix of an element.
type Head struct {
	Name    *arena.Slice
	ID      Value
	Classes []arena.Slice
	Suffix  *Suffix
}

type ElementStart struct {
	Span
	Head
}

type ElementEnd struct{ Span }

type EmbeddedStart struct {
	Span
	Head
}

type EmbeddedEnd struct{ Span }

type ArrayStart struct{ Span }

type ArrayEnd struct{ Span }

type DirectiveStart struct {
	Span
	Name      arena.Slice
	Namespace *arena.Slice
	Raw       bool
}

type DirectiveEnd struct{ Span }

type FreeformStart struct{ Span }

type FreeformEnd struct{ Span }

// Attribute is a key with an optional value. A nil Value marks a
// presence-only attribute.
type Attribute struct {
	Span
	Key   arena.Slice
	Value Value
}

type IdReference struct {
	Span
	ID Value
}

type AttributeMerge struct {
	Span
	ID Value
}

type NilValue struct {
	Span
	Raw arena.Slice
}

type BoolValue struct {
	Span
	Value bool
	Raw   arena.Slice
}

type IntegerValue struct {
	Span
	Value int64
	Raw   arena.Slice
}

type FloatValue struct {
	Span
	Value float64
	Raw   arena.Slice
}

type RationalValue struct {
	Span
	Numerator   int64
	Denominator int64
	Raw         arena.Slice
}

type ComplexValue struct {
	Span
	Real, Imag float64
	Raw        arena.Slice
}

// StringValue is a bare or double quoted string. Content holds the
// unescaped bytes.
type StringValue struct {
	Span
	Content arena.Slice
	Raw     arena.Slice
}

// QuotedStringValue is a single quoted string; Content is verbatim.
type QuotedStringValue struct {
	Span
	Content arena.Slice
	Raw     arena.Slice
}

// Array is a bracketed list of values. It is a Value, not an Event:
// when standalone it is emitted as ArrayStart, items, ArrayEnd.
type Array struct {
	Span
	Items []Value
}

type Text struct {
	Span
	Content arena.Slice
}

type Comment struct {
	Span
	Content arena.Slice
}

type RawContent struct {
	Span
	Content arena.Slice
}

type Interpolation struct {
	Span
	Expression arena.Slice
}

type InlineDirective struct {
	Span
	Name      arena.Slice
	Namespace *arena.Slice
	Raw       bool
	Content   arena.Slice
}

// Warning is advisory and does not end the stream.
type Warning struct {
	Span
	Message string
}

// Error ends the stream. It is also a Go error.
type Error struct {
	Span
	Code ErrorCode
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at %s: %s", e.Code, e.Span, e.Code.Message())
}

func (*ElementStart) Kind() Kind      { return KindElementStart }
func (*ElementEnd) Kind() Kind        { return KindElementEnd }
func (*EmbeddedStart) Kind() Kind     { return KindEmbeddedStart }
func (*EmbeddedEnd) Kind() Kind       { return KindEmbeddedEnd }
func (*ArrayStart) Kind() Kind        { return KindArrayStart }
func (*ArrayEnd) Kind() Kind          { return KindArrayEnd }
func (*DirectiveStart) Kind() Kind    { return KindDirectiveStart }
func (*DirectiveEnd) Kind() Kind      { return KindDirectiveEnd }
func (*FreeformStart) Kind() Kind     { return KindFreeformStart }
func (*FreeformEnd) Kind() Kind       { return KindFreeformEnd }
func (*Attribute) Kind() Kind         { return KindAttribute }
func (*IdReference) Kind() Kind       { return KindIdReference }
func (*AttributeMerge) Kind() Kind    { return KindAttributeMerge }
func (*NilValue) Kind() Kind          { return KindNil }
func (*BoolValue) Kind() Kind         { return KindBool }
func (*IntegerValue) Kind() Kind      { return KindInteger }
func (*FloatValue) Kind() Kind        { return KindFloat }
func (*RationalValue) Kind() Kind     { return KindRational }
func (*ComplexValue) Kind() Kind      { return KindComplex }
func (*StringValue) Kind() Kind       { return KindString }
func (*QuotedStringValue) Kind() Kind { return KindQuotedString }
func (*Text) Kind() Kind              { return KindText }
func (*Comment) Kind() Kind           { return KindComment }
func (*RawContent) Kind() Kind        { return KindRawContent }
func (*Interpolation) Kind() Kind     { return KindInterpolation }
func (*InlineDirective) Kind() Kind   { return KindInlineDirective }
func (*Warning) Kind() Kind           { return KindWarning }
func (*Error) Kind() Kind             { return KindError }

func (e *ElementStart) Accept(v Visitor) error      { return v.VisitElementStart(e) }
func (e *ElementEnd) Accept(v Visitor) error        { return v.VisitElementEnd(e) }
func (e *EmbeddedStart) Accept(v Visitor) error     { return v.VisitEmbeddedStart(e) }
func (e *EmbeddedEnd) Accept(v Visitor) error       { return v.VisitEmbeddedEnd(e) }
func (e *ArrayStart) Accept(v Visitor) error        { return v.VisitArrayStart(e) }
func (e *ArrayEnd) Accept(v Visitor) error          { return v.VisitArrayEnd(e) }
func (e *DirectiveStart) Accept(v Visitor) error    { return v.VisitDirectiveStart(e) }
func (e *DirectiveEnd) Accept(v Visitor) error      { return v.VisitDirectiveEnd(e) }
func (e *FreeformStart) Accept(v Visitor) error     { return v.VisitFreeformStart(e) }
func (e *FreeformEnd) Accept(v Visitor) error       { return v.VisitFreeformEnd(e) }
func (e *Attribute) Accept(v Visitor) error         { return v.VisitAttribute(e) }
func (e *IdReference) Accept(v Visitor) error       { return v.VisitIdReference(e) }
func (e *AttributeMerge) Accept(v Visitor) error    { return v.VisitAttributeMerge(e) }
func (e *NilValue) Accept(v Visitor) error          { return v.VisitNil(e) }
func (e *BoolValue) Accept(v Visitor) error         { return v.VisitBool(e) }
func (e *IntegerValue) Accept(v Visitor) error      { return v.VisitInteger(e) }
func (e *FloatValue) Accept(v Visitor) error        { return v.VisitFloat(e) }
func (e *RationalValue) Accept(v Visitor) error     { return v.VisitRational(e) }
func (e *ComplexValue) Accept(v Visitor) error      { return v.VisitComplex(e) }
func (e *StringValue) Accept(v Visitor) error       { return v.VisitString(e) }
func (e *QuotedStringValue) Accept(v Visitor) error { return v.VisitQuotedString(e) }
func (e *Text) Accept(v Visitor) error              { return v.VisitText(e) }
func (e *Comment) Accept(v Visitor) error           { return v.VisitComment(e) }
func (e *RawContent) Accept(v Visitor) error        { return v.VisitRawContent(e) }
func (e *Interpolation) Accept(v Visitor) error     { return v.VisitInterpolation(e) }
func (e *InlineDirective) Accept(v Visitor) error   { return v.VisitInlineDirective(e) }
func (e *Warning) Accept(v Visitor) error           { return v.VisitWarning(e) }
func (e *Error) Accept(v Visitor) error             { return v.VisitError(e) }

func (Span) isEvent() {}

func (*NilValue) isValue()          {}
func (*BoolValue) isValue()         {}
func (*IntegerValue) isValue()      {}
func (*FloatValue) isValue()        {}
func (*RationalValue) isValue()     {}
func (*ComplexValue) isValue()      {}
func (*StringValue) isValue()       {}
func (*QuotedStringValue) isValue() {}
func (*Array) isValue()             {}
