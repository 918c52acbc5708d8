package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/scott-cotton/cli"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
	"github.com/udon-format/go-udon/encode"
	"github.com/udon-format/go-udon/stream"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires 2 args, got %v", cli.ErrUsage, args)
	}
	a, err := renderFile(args[0], cfg.Spans, cfg.parserOpts()...)
	if err != nil {
		return err
	}
	b, err := renderFile(args[1], cfg.Spans, cfg.parserOpts()...)
	if err != nil {
		return err
	}
	differs, err := writeDiff(cc.Out, a, b, cfg.colors(cc.Out))
	if err != nil {
		return err
	}
	if differs {
		return cli.ExitCodeErr(1)
	}
	return nil
}

func renderFile(file string, spans bool, opts ...stream.ParserOption) (string, error) {
	f, done, err := openInput(file)
	if err != nil {
		return "", err
	}
	defer done()
	d, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("error reading %s: %w", file, err)
	}
	return render(d, spans, opts...), nil
}

// render returns the text form of the events of d.
func render(d []byte, spans bool, opts ...stream.ParserOption) string {
	evs, a := stream.ParseAll(d, opts...)
	buf := bytes.NewBuffer(nil)
	_ = encode.Text(buf, evs, a, encode.EncodeSpans(spans))
	return buf.String()
}

// writeDiff writes a line diff of a and b to w and reports whether they
// differ.
func writeDiff(w io.Writer, a, b string, colored bool) (bool, error) {
	if a == b {
		return false, nil
	}
	dmp := diffpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)
	del, ins := fmt.Sprint, fmt.Sprint
	if colored {
		color.NoColor = false
		del, ins = color.New(color.FgRed).Sprint, color.New(color.FgGreen).Sprint
		if f, ok := w.(*os.File); ok {
			w = colorable.NewColorable(f)
		}
	}
	for _, d := range diffs {
		prefix, paint := "  ", fmt.Sprint
		switch d.Type {
		case diffpatch.DiffDelete:
			prefix, paint = "- ", del
		case diffpatch.DiffInsert:
			prefix, paint = "+ ", ins
		}
		for _, ln := range strings.SplitAfter(d.Text, "\n") {
			if ln == "" {
				continue
			}
			if _, err := io.WriteString(w, paint(prefix+ln)); err != nil {
				return true, err
			}
		}
	}
	return true, nil
}
