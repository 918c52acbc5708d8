package main

import (
	"fmt"
	"io"

	"github.com/scott-cotton/cli"
	"github.com/udon-format/go-udon/encode"
	"github.com/udon-format/go-udon/stream"
)

func events(cfg *EventsConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Events.Parse(cc, args)
	if err != nil {
		return err
	}
	flt, err := newFilter(cfg.Where, cfg.Env)
	if err != nil {
		return fmt.Errorf("%w: -where: %w", cli.ErrUsage, err)
	}
	if len(args) == 0 {
		args = []string{"-"}
	}
	w, encOpts := cfg.writer(cc.Out)
	failed := false
	for _, file := range args {
		f, done, err := openInput(file)
		if err != nil {
			return err
		}
		bad, err := eventsReader(cfg, w, f, flt, encOpts...)
		done()
		if err != nil {
			return fmt.Errorf("error processing %s: %w", file, err)
		}
		failed = failed || bad
	}
	if failed {
		return cli.ExitCodeErr(1)
	}
	return nil
}

// eventsReader writes the events of the document in r to w. It reports
// whether the document ended with an Error event.
func eventsReader(cfg *EventsConfig, w io.Writer, r io.Reader, flt *filter, encOpts ...encode.EncodeOption) (bool, error) {
	dec := stream.NewDecoder(r, cfg.parserOpts()...)
	sink := encode.NewSink(w, dec.Arena(), encOpts...)
	var src stream.EventReader = dec
	if flt != nil {
		src = flt.reader(dec, dec.Arena())
	}
	n, err := stream.Copy(sink, src)
	if err != nil {
		return false, err
	}
	theLog.Debug("events", "read", n, "written", sink.Count())
	return dec.Err() != nil, nil
}
