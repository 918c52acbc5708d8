package main

import (
	"fmt"
	"io"

	"github.com/scott-cotton/cli"
	"github.com/udon-format/go-udon/stream"
	"github.com/udon-format/go-udon/token"
)

func check(cfg *CheckConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Check.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{"-"}
	}
	bad := 0
	for _, file := range args {
		f, done, err := openInput(file)
		if err != nil {
			return err
		}
		ok, err := checkReader(cc.Out, file, f, cfg.Warnings, cfg.parserOpts()...)
		done()
		if err != nil {
			return fmt.Errorf("error checking %s: %w", file, err)
		}
		if !ok {
			bad++
		}
	}
	if bad > 0 {
		return cli.ExitCodeErr(1)
	}
	return nil
}

// posWriter records line starts of everything written to it.
type posWriter struct {
	doc token.PosDoc
}

func (p *posWriter) Write(d []byte) (int, error) {
	p.doc.Scan(d)
	return len(d), nil
}

// checkReader parses r and prints its error, and with warnings set its
// warnings, as name:line:col: code: message. It reports whether the
// document is free of errors.
func checkReader(w io.Writer, name string, r io.Reader, warnings bool, opts ...stream.ParserOption) (bool, error) {
	pw := &posWriter{}
	dec := stream.NewDecoder(io.TeeReader(r, pw), append(opts, stream.WithWarnings(warnings))...)
	for {
		ev, err := dec.ReadEvent()
		if err == io.EOF {
			break
		}
		if err != nil {
			return false, err
		}
		switch e := ev.(type) {
		case *stream.Warning:
			fmt.Fprintf(w, "%s:%s: warning: %s\n", name, pw.doc.Pos(e.Start), e.Message)
		case *stream.Error:
			fmt.Fprintf(w, "%s:%s: %s: %s\n", name, pw.doc.Pos(e.Start), e.Code, e.Code.Message())
		}
	}
	return dec.Err() == nil, nil
}
