package stream

import "log/slog"

// ParserOption configures a Parser or Decoder.
type ParserOption func(*parserOpts)

type parserOpts struct {
	log      *slog.Logger
	warnings bool
	readSize int
}

func defaultOpts() parserOpts {
	return parserOpts{warnings: true, readSize: 32 * 1024}
}

// WithLogger logs every event at debug level. With UDON_DEBUG_SCAN set
// tokens are logged too, and with UDON_DEBUG_ARENA arena activity.
func WithLogger(l *slog.Logger) ParserOption {
	return func(o *parserOpts) {
		o.log = l
	}
}

// WithWarnings controls whether Warning events are emitted. The default
// is true.
func WithWarnings(on bool) ParserOption {
	return func(o *parserOpts) {
		o.warnings = on
	}
}

// WithReadSize sets the number of bytes a Decoder reads per Feed.
func WithReadSize(n int) ParserOption {
	return func(o *parserOpts) {
		if n > 0 {
			o.readSize = n
		}
	}
}
