package main

import (
	"fmt"
	"maps"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/goccy/go-yaml"
	"github.com/scott-cotton/cli"
	"github.com/udon-format/go-udon/arena"
	"github.com/udon-format/go-udon/encode"
	"github.com/udon-format/go-udon/stream"
)

// filter selects events with an expr expression over their wire form.
type filter struct {
	prog *vm.Program
	env  map[string]any
}

// newFilter compiles where. An empty expression gives a nil filter.
func newFilter(where string, env map[string]any) (*filter, error) {
	if where == "" {
		return nil, nil
	}
	prog, err := expr.Compile(where, expr.AsBool(), expr.AllowUndefinedVariables())
	if err != nil {
		return nil, err
	}
	return &filter{prog: prog, env: env}, nil
}

func (f *filter) match(ev stream.Event, a *arena.Arena) (bool, error) {
	if ev.Kind() == stream.KindError {
		return true, nil
	}
	wire := encode.Textual(encode.Map(ev, a)).(map[string]any)
	env := make(map[string]any, len(f.env)+len(wire)+1)
	maps.Copy(env, f.env)
	maps.Copy(env, wire)
	env["event"] = wire
	env["kind"] = ev.Kind().String()
	res, err := vm.Run(f.prog, env)
	if err != nil {
		return false, fmt.Errorf("evaluating -where for %s event: %w", ev.Kind(), err)
	}
	b, _ := res.(bool)
	return b, nil
}

func (f *filter) reader(src stream.EventReader, a *arena.Arena) stream.EventReader {
	return &filterReader{src: src, f: f, a: a}
}

type filterReader struct {
	src stream.EventReader
	f   *filter
	a   *arena.Arena
}

func (r *filterReader) ReadEvent() (stream.Event, error) {
	for {
		ev, err := r.src.ReadEvent()
		if err != nil {
			return nil, err
		}
		ok, err := r.f.match(ev, r.a)
		if err != nil {
			return nil, err
		}
		if ok {
			return ev, nil
		}
	}
}

// envFunc sets the dotted key of a key=val argument in env to val parsed
// as YAML.
func envFunc(env map[string]any, a string) error {
	key, val, ok := strings.Cut(a, "=")
	if !ok {
		return fmt.Errorf("%w: argument %q expected key=val", cli.ErrUsage, a)
	}
	var v any
	if err := yaml.Unmarshal([]byte(val), &v); err != nil {
		return fmt.Errorf("%w: value of %s: %w", cli.ErrUsage, key, err)
	}
	parts := strings.Split(key, ".")
	cur := env
	for i, part := range parts[:len(parts)-1] {
		next, ok := cur[part].(map[string]any)
		if !ok {
			if cur[part] != nil {
				return fmt.Errorf("%w: cannot set %s below a scalar", cli.ErrUsage, strings.Join(parts[:i+1], "."))
			}
			next = map[string]any{}
			cur[part] = next
		}
		cur = next
	}
	cur[parts[len(parts)-1]] = v
	return nil
}
