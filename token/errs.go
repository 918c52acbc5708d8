package token

import (
	"errors"
	"fmt"
)

var (
	ErrTab          = errors.New("tab in indentation")
	ErrUnexpected   = errors.New("unexpected character")
	ErrEOF          = errors.New("unexpected end of input")
	ErrUnterminated = errors.New("unterminated")
	ErrFinal        = errors.New("input already finished")
)

// TokenizeErr is a scanning failure. Pos is the offending offset; for
// ErrUnterminated and ErrEOF it is the offset where the unfinished token
// starts and Type is the token being scanned.
type TokenizeErr struct {
	Err  error
	Pos  int64
	Type TokenType
}

func NewTokenizeErr(e error, pos int64, tt TokenType) *TokenizeErr {
	return &TokenizeErr{Err: e, Pos: pos, Type: tt}
}

func (e *TokenizeErr) Error() string {
	if e.Err == ErrUnterminated {
		return fmt.Sprintf("%s %s at offset %d", e.Err, e.Type, e.Pos)
	}
	return fmt.Sprintf("%s at offset %d", e.Err, e.Pos)
}

func (e *TokenizeErr) Unwrap() error {
	return e.Err
}

func unexpected(pos int64) error {
	return NewTokenizeErr(ErrUnexpected, pos, TEOF)
}

func unterminated(pos int64, tt TokenType) error {
	return NewTokenizeErr(ErrUnterminated, pos, tt)
}
