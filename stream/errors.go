package stream

import (
	"errors"
	"fmt"
)

// ErrFinished is returned by Feed after Finish.
var ErrFinished = errors.New("udon: parser already finished")

// ErrorCode classifies the fault reported by an Error event.
type ErrorCode int

const (
	ErrUnexpectedEOF ErrorCode = iota
	ErrUnexpectedChar
	ErrUnclosed
	ErrUnclosedStringValue
	ErrUnclosedArray
	ErrUnclosedFreeform
	ErrUnclosedText
	ErrUnclosedInterpolation
	ErrNoTabs
	numCodes
)

var codeNames = [numCodes]string{
	ErrUnexpectedEOF:         "unexpected_eof",
	ErrUnexpectedChar:        "unexpected_char",
	ErrUnclosed:              "unclosed",
	ErrUnclosedStringValue:   "unclosed_string_value",
	ErrUnclosedArray:         "unclosed_array",
	ErrUnclosedFreeform:      "unclosed_freeform",
	ErrUnclosedText:          "unclosed_text",
	ErrUnclosedInterpolation: "unclosed_interpolation",
	ErrNoTabs:                "no_tabs",
}

var codeMessages = [numCodes]string{
	ErrUnexpectedEOF:         "unexpected end of input",
	ErrUnexpectedChar:        "unexpected character",
	ErrUnclosed:              "construct is not closed",
	ErrUnclosedStringValue:   "string value is not closed",
	ErrUnclosedArray:         "array is not closed",
	ErrUnclosedFreeform:      "freeform block is not closed",
	ErrUnclosedText:          "embedded text is not closed",
	ErrUnclosedInterpolation: "interpolation is not closed",
	ErrNoTabs:                "tabs are not allowed in indentation",
}

// String returns the wire name of c.
func (c ErrorCode) String() string {
	if c >= 0 && c < numCodes {
		return codeNames[c]
	}
	return fmt.Sprintf("ErrorCode(%d)", int(c))
}

// Message returns a human readable description of c.
func (c ErrorCode) Message() string {
	if c >= 0 && c < numCodes {
		return codeMessages[c]
	}
	return "unknown error"
}

func (c ErrorCode) MarshalText() ([]byte, error) {
	if c < 0 || c >= numCodes {
		return nil, fmt.Errorf("invalid error code %d", int(c))
	}
	return []byte(codeNames[c]), nil
}

// ParseErrorCode returns the code with wire name s.
func ParseErrorCode(s string) (ErrorCode, bool) {
	for c, n := range codeNames {
		if n == s {
			return ErrorCode(c), true
		}
	}
	return 0, false
}
