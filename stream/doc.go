// Package stream parses UDON into a flat, ordered sequence of events.
//
// A [Parser] is driven by pushing bytes with [Parser.Feed] and
// [Parser.Finish] and pulling events with [Parser.Read]. [ParseAll]
// parses a complete document at once and [Decoder] reads from an
// io.Reader.
//
// Events are values of the closed [Event] interface. Structural events
// come in start/end pairs (elements, embedded elements, arrays,
// directives, freeform blocks); content events carry [arena.Slice]
// handles that resolve against the parser's arena. At most one [Error]
// event is emitted and it is always the last one.
package stream
