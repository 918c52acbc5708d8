package encode

import "github.com/udon-format/go-udon/format"

type EncodeOption func(*EncState)

func EncodeFormat(f format.Format) EncodeOption {
	return func(es *EncState) { es.format = f }
}

// FormatFromOpts extracts the format from encode options.
func FormatFromOpts(opts ...EncodeOption) format.Format {
	es := &EncState{}
	for _, opt := range opts {
		opt(es)
	}
	return es.format
}

// EncodeColors colors text output. It has no effect on JSON or YAML.
func EncodeColors(c *Colors) EncodeOption {
	return func(es *EncState) { es.Color = c.Color }
}

// EncodeSpans controls whether text output shows spans. The default is
// true.
func EncodeSpans(v bool) EncodeOption {
	return func(es *EncState) { es.noSpans = !v }
}
