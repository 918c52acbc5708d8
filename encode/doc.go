// Package encode renders UDON events in their wire shape.
//
// [Map] gives the wire map of an event. [Encode], [JSON], [YAML] and
// [Text] write events in one of the formats of package format, and
// [Sink] does the same as a stream.EventSink:
//
//	dec := stream.NewDecoder(r)
//	sink := encode.NewSink(os.Stdout, dec.Arena(), encode.EncodeFormat(format.JSONFormat))
//	_, err := stream.Copy(sink, dec)
//
// # Related Packages
//
//   - github.com/udon-format/go-udon/stream - events and the parser
//   - github.com/udon-format/go-udon/format - output formats
package encode
