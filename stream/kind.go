package stream

import "fmt"

// Kind identifies an event type. Its String form is the wire name.
type Kind int

const (
	KindElementStart Kind = iota
	KindElementEnd
	KindEmbeddedStart
	KindEmbeddedEnd
	KindArrayStart
	KindArrayEnd
	KindDirectiveStart
	KindDirectiveEnd
	KindFreeformStart
	KindFreeformEnd
	KindAttribute
	KindIdReference
	KindAttributeMerge
	KindNil
	KindBool
	KindInteger
	KindFloat
	KindRational
	KindComplex
	KindString
	KindQuotedString
	KindText
	KindComment
	KindRawContent
	KindInterpolation
	KindInlineDirective
	KindWarning
	KindError
	numKinds
)

var kindNames = [numKinds]string{
	KindElementStart:    "element_start",
	KindElementEnd:      "element_end",
	KindEmbeddedStart:   "embedded_start",
	KindEmbeddedEnd:     "embedded_end",
	KindArrayStart:      "array_start",
	KindArrayEnd:        "array_end",
	KindDirectiveStart:  "directive_start",
	KindDirectiveEnd:    "directive_end",
	KindFreeformStart:   "freeform_start",
	KindFreeformEnd:     "freeform_end",
	KindAttribute:       "attribute",
	KindIdReference:     "id_reference",
	KindAttributeMerge:  "attribute_merge",
	KindNil:             "nil",
	KindBool:            "bool",
	KindInteger:         "integer",
	KindFloat:           "float",
	KindRational:        "rational",
	KindComplex:         "complex",
	KindString:          "string",
	KindQuotedString:    "quoted_string",
	KindText:            "text",
	KindComment:         "comment",
	KindRawContent:      "raw_content",
	KindInterpolation:   "interpolation",
	KindInlineDirective: "inline_directive",
	KindWarning:         "warning",
	KindError:           "error",
}

func (k Kind) String() string {
	if k >= 0 && k < numKinds {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func (k Kind) MarshalText() ([]byte, error) {
	if k < 0 || k >= numKinds {
		return nil, fmt.Errorf("invalid kind %d", int(k))
	}
	return []byte(kindNames[k]), nil
}

func (k *Kind) UnmarshalText(d []byte) error {
	v, ok := ParseKind(string(d))
	if !ok {
		return fmt.Errorf("unknown event type %q", d)
	}
	*k = v
	return nil
}

// ParseKind returns the kind with wire name s.
func ParseKind(s string) (Kind, bool) {
	for k, n := range kindNames {
		if n == s {
			return Kind(k), true
		}
	}
	return 0, false
}

// Kinds returns every event kind in declaration order.
func Kinds() []Kind {
	res := make([]Kind, numKinds)
	for i := range res {
		res[i] = Kind(i)
	}
	return res
}

// IsStart reports whether k opens a construct closed by k.End().
func (k Kind) IsStart() bool {
	switch k {
	case KindElementStart, KindEmbeddedStart, KindArrayStart, KindDirectiveStart, KindFreeformStart:
		return true
	}
	return false
}

// IsEnd reports whether k closes a construct.
func (k Kind) IsEnd() bool {
	switch k {
	case KindElementEnd, KindEmbeddedEnd, KindArrayEnd, KindDirectiveEnd, KindFreeformEnd:
		return true
	}
	return false
}

// End returns the kind that closes a start kind.
func (k Kind) End() Kind {
	if k.IsStart() {
		return k + 1
	}
	return k
}

// IsValue reports whether events of kind k are scalar values.
func (k Kind) IsValue() bool {
	return k >= KindNil && k <= KindQuotedString
}
