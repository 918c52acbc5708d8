// Package token provides the resumable byte scanner for UDON.
//
// A [Scanner] is fed bytes with [Scanner.Feed] and produces one [Token]
// per call to [Scanner.Next]. The lexical context is chosen by the caller
// through [Scanner.SetMode]; the scanner itself keeps no structural state.
// When the buffered bytes end inside a token and more input may follow,
// Next returns io.EOF and the same call can be repeated after the next
// Feed. A token never depends on where the input was split.
//
// [ParseScalar] classifies bare literals and [Unescape] decodes double
// quoted ones.
package token
