// Package starlarkengine executes CommonJS-style modules written in
// Starlark.
//
// Every unit runs on a fresh starlark.Thread with exports, require,
// module, __filename and __dirname predeclared. Exports are unfrozen while
// a load tree is being built and frozen when the outermost require of the
// building thread returns, so a Loader using this engine can be shared by
// goroutines that each own a require.Thread.
package starlarkengine

import (
	"fmt"
	"os"

	starjson "go.starlark.net/lib/json"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/stackb/cjs/pkg/require"
)

// DefaultScriptExtension is the script extension of loaders built by
// NewLoader.
const DefaultScriptExtension = ".star"

// Reporter receives output of the print builtin. It is implemented by
// (*testing.T).Logf.
type Reporter func(format string, args ...interface{})

// Option configures an Engine.
type Option func(*Engine)

// WithReporter sets the destination of print. The default writes to
// stderr.
func WithReporter(reporter Reporter) Option {
	return func(e *Engine) {
		e.reporter = reporter
	}
}

// WithMaxSteps bounds the execution steps of each unit. Zero means no
// limit.
func WithMaxSteps(steps uint64) Option {
	return func(e *Engine) {
		e.maxSteps = steps
	}
}

// WithPredeclared adds bindings visible to every unit.
func WithPredeclared(globals starlark.StringDict) Option {
	return func(e *Engine) {
		for k, v := range globals {
			e.predeclared[k] = v
		}
	}
}

var fileOptions = &syntax.FileOptions{
	Set:             true,
	While:           true,
	TopLevelControl: true,
	GlobalReassign:  true,
	Recursion:       true,
}

// Engine implements require.Engine and require.Sealer.
type Engine struct {
	reporter    Reporter
	maxSteps    uint64
	predeclared starlark.StringDict
}

// New constructs an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		reporter: func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		},
		predeclared: starlark.StringDict{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewLoader returns a loader for e whose script extension is ".star".
// opts may override it.
func NewLoader(e *Engine, opts ...require.Option) *require.Loader {
	opts = append([]require.Option{require.WithScriptExtension(DefaultScriptExtension)}, opts...)
	return require.NewLoader(e, opts...)
}

// NewExports implements part of the require.Engine interface.
func (e *Engine) NewExports() any {
	return starlark.NewDict(0)
}

// ExecScript implements part of the require.Engine interface.
func (e *Engine) ExecScript(u *require.Unit) error {
	_, err := e.exec(u.Module, u.Source, u.Require)
	return err
}

// DecodeData implements part of the require.Engine interface with
// json.decode from go.starlark.net/lib/json.
func (e *Engine) DecodeData(u *require.Unit) (any, error) {
	thread := e.newThread(u.Filename(), nil)
	return starlark.Call(thread, starjson.Module.Members["decode"], starlark.Tuple{starlark.String(u.Source)}, nil)
}

// Seal implements the require.Sealer interface by freezing the exports.
func (e *Engine) Seal(m *require.Module) {
	if v, ok := m.Exports().(starlark.Value); ok {
		v.Freeze()
	}
}

// exec runs src as the body of m and returns its globals.
func (e *Engine) exec(m *require.Module, src []byte, req func(string) (any, error)) (starlark.StringDict, error) {
	predeclared := e.bindings(m, req)
	_, prog, err := starlark.SourceProgramOptions(fileOptions, m.Filename(), src, predeclared.Has)
	if err != nil {
		return nil, err
	}
	return prog.Init(e.newThread(m.Filename(), req), predeclared)
}

// bindings returns the predeclared environment of a unit.
func (e *Engine) bindings(m *require.Module, req func(string) (any, error)) starlark.StringDict {
	globals := make(starlark.StringDict, len(e.predeclared)+5)
	for k, v := range e.predeclared {
		globals[k] = v
	}
	globals["exports"] = Value(m.Exports())
	globals["module"] = &moduleValue{module: m}
	globals["require"] = requireBuiltin(req)
	globals["__filename"] = starlark.String(m.Filename())
	globals["__dirname"] = starlark.String(m.Dirname())
	return globals
}

func (e *Engine) newThread(name string, req func(string) (any, error)) *starlark.Thread {
	thread := &starlark.Thread{
		Name: name,
		Print: func(_ *starlark.Thread, msg string) {
			e.reporter("%s", msg)
		},
	}
	if req != nil {
		thread.Load = func(_ *starlark.Thread, specifier string) (starlark.StringDict, error) {
			v, err := req(specifier)
			if err != nil {
				return nil, err
			}
			return members(Value(v))
		}
	}
	if e.maxSteps > 0 {
		thread.SetMaxExecutionSteps(e.maxSteps)
	}
	return thread
}

func requireBuiltin(req func(string) (any, error)) *starlark.Builtin {
	return starlark.NewBuiltin("require", func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var specifier string
		if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &specifier); err != nil {
			return nil, err
		}
		v, err := req(specifier)
		if err != nil {
			return nil, err
		}
		return Value(v), nil
	})
}

// members converts the exports of a loaded module into the names a load
// statement may bind.
func members(v starlark.Value) (starlark.StringDict, error) {
	switch t := v.(type) {
	case *starlark.Dict:
		out := make(starlark.StringDict, t.Len())
		for _, item := range t.Items() {
			k, ok := starlark.AsString(item[0])
			if !ok {
				return nil, fmt.Errorf("exports key %s is not a string", item[0])
			}
			out[k] = item[1]
		}
		return out, nil
	case starlark.HasAttrs:
		out := make(starlark.StringDict)
		for _, name := range t.AttrNames() {
			attr, err := t.Attr(name)
			if err != nil {
				return nil, err
			}
			out[name] = attr
		}
		return out, nil
	}
	return nil, fmt.Errorf("exports of type %s cannot be loaded", v.Type())
}

// Value converts an exports value handed out by the loader to a Starlark
// value.
func Value(v any) starlark.Value {
	switch t := v.(type) {
	case nil:
		return starlark.None
	case starlark.Value:
		return t
	default:
		return starlark.String(fmt.Sprint(t))
	}
}

