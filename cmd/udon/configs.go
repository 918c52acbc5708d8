package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"
	"github.com/udon-format/go-udon/debug"
	"github.com/udon-format/go-udon/encode"
	"github.com/udon-format/go-udon/format"
	"github.com/udon-format/go-udon/stream"
)

type MainConfig struct {
	Color bool `cli:"name=color desc='encode with color'"`

	J bool `cli:"name=j aliases=json desc='output events as JSON lines'"`
	Y bool `cli:"name=y aliases=yaml desc='output events as YAML'"`

	OutFormat *format.Format

	Out      string
	CloseOut func() error

	Main *cli.Command
}

func (cfg *MainConfig) fmtFunc(fps ...**format.Format) cli.FuncOpt {
	return cli.FuncOpt(func(_ *cli.Context, v string) (any, error) {
		f, err := format.ParseFormat(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		for _, fp := range fps {
			*fp = &f
		}
		return f, nil
	})
}

// format is the output format: -O, -j or -y if given, otherwise the one
// matching the suffix of -o, otherwise text.
func (cfg *MainConfig) format() format.Format {
	var f format.Format
	if pf, ok := format.ForPath(cfg.Out); ok {
		f = pf
	}
	switch {
	case cfg.Y:
		f = format.YAMLFormat
	case cfg.J:
		f = format.JSONFormat
	}
	if cfg.OutFormat != nil {
		f = *cfg.OutFormat
	}
	return f
}

func (cfg *MainConfig) parserOpts() []stream.ParserOption {
	if !debug.Any() {
		return nil
	}
	return []stream.ParserOption{stream.WithLogger(theLog)}
}

// colors reports whether output to w is colored: -color if given,
// otherwise whether w is a terminal.
func (cfg *MainConfig) colors(w io.Writer) bool {
	if !cfg.format().IsText() {
		return false
	}
	if cfg.Color {
		return true
	}
	if cfg.Main != nil {
		for _, opt := range cfg.Main.Opts {
			if opt.Name == "color" && opt.Value != nil {
				return false
			}
		}
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// writer returns the writer to encode to and the options to encode
// with.
func (cfg *MainConfig) writer(w io.Writer) (io.Writer, []encode.EncodeOption) {
	res := []encode.EncodeOption{encode.EncodeFormat(cfg.format())}
	if !cfg.colors(w) {
		return w, res
	}
	color.NoColor = false
	res = append(res, encode.EncodeColors(encode.NewColors()))
	if f, ok := w.(*os.File); ok {
		return colorable.NewColorable(f), res
	}
	return w, res
}

type EventsConfig struct {
	*MainConfig
	Where  string `cli:"name=where desc='only print events for which this expr expression is true'"`
	Chunk  int    `cli:"name=chunk desc='feed the parser this many bytes at a time'"`
	NoWarn bool   `cli:"name=nowarn desc='omit warning events'"`
	Env    map[string]any

	Events *cli.Command
}

func (cfg *EventsConfig) parserOpts() []stream.ParserOption {
	res := append(cfg.MainConfig.parserOpts(), stream.WithWarnings(!cfg.NoWarn))
	if cfg.Chunk > 0 {
		res = append(res, stream.WithReadSize(cfg.Chunk))
	}
	return res
}

type CheckConfig struct {
	*MainConfig
	Warnings bool `cli:"name=w desc='also print warnings'"`

	Check *cli.Command
}

type DiffConfig struct {
	*MainConfig
	Spans bool `cli:"name=spans desc='compare spans too'"`

	Diff *cli.Command
}
