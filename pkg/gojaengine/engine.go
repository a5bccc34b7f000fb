// Package gojaengine executes CommonJS modules with the goja JavaScript
// runtime.
//
// An Engine is bound to a single *goja.Runtime and, like the runtime, must
// only be used from one goroutine at a time. Exports are goja values, so a
// Loader built on an Engine must not be shared with other runtimes.
package gojaengine

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/dop251/goja"

	"github.com/stackb/cjs/pkg/require"
)

const (
	wrapperHead = "(function (exports, require, module, __filename, __dirname) {"
	wrapperTail = "\n})"
)

// codeModuleNotFound is the code property of errors thrown for unresolved
// specifiers.
const codeModuleNotFound = "MODULE_NOT_FOUND"

// Engine implements require.Engine for one goja runtime.
type Engine struct {
	vm      *goja.Runtime
	objects map[*require.Module]*goja.Object
}

// New returns an Engine that runs modules in vm.
func New(vm *goja.Runtime) *Engine {
	return &Engine{
		vm:      vm,
		objects: make(map[*require.Module]*goja.Object),
	}
}

// NewExports implements part of the require.Engine interface.
func (e *Engine) NewExports() any {
	return e.vm.NewObject()
}

// ExecScript implements part of the require.Engine interface. The source is
// wrapped in a function taking the five CommonJS bindings and called with
// exports as this.
func (e *Engine) ExecScript(u *require.Unit) error {
	var src bytes.Buffer
	src.WriteString(wrapperHead)
	src.Write(stripHashbang(u.Source))
	src.WriteString(wrapperTail)

	prg, err := goja.Compile(u.Filename(), src.String(), false)
	if err != nil {
		return err
	}
	wrapper, err := e.vm.RunProgram(prg)
	if err != nil {
		return err
	}
	fn, ok := goja.AssertFunction(wrapper)
	if !ok {
		return fmt.Errorf("module wrapper is not a function")
	}

	module := e.moduleObject(u.Module)
	exports := module.Get("exports")
	_, err = fn(exports,
		exports,
		e.requireFunc(u.Require),
		module,
		e.vm.ToValue(u.Filename()),
		e.vm.ToValue(u.Dirname()),
	)
	return err
}

// DecodeData implements part of the require.Engine interface, parsing the
// unit with the runtime's JSON.parse.
func (e *Engine) DecodeData(u *require.Unit) (any, error) {
	parse, ok := goja.AssertFunction(e.vm.Get("JSON").ToObject(e.vm).Get("parse"))
	if !ok {
		return nil, fmt.Errorf("JSON.parse is not a function")
	}
	return parse(goja.Undefined(), e.vm.ToValue(string(u.Source)))
}

// Value converts an exports value handed out by the loader to a goja value.
func (e *Engine) Value(v any) goja.Value {
	switch t := v.(type) {
	case nil:
		return goja.Undefined()
	case goja.Value:
		return t
	default:
		return e.vm.ToValue(t)
	}
}

// requireFunc builds the require binding of a unit. Loader errors are
// thrown into the script; exceptions raised by nested units are rethrown
// unchanged.
func (e *Engine) requireFunc(req func(string) (any, error)) goja.Value {
	return e.vm.ToValue(func(call goja.FunctionCall) goja.Value {
		arg := call.Argument(0)
		if _, ok := arg.Export().(string); !ok {
			panic(e.vm.NewTypeError("require: specifier must be a string, got %s", arg.String()))
		}
		v, err := req(arg.String())
		if err != nil {
			panic(e.throwable(err))
		}
		return e.Value(v)
	})
}

func (e *Engine) throwable(err error) goja.Value {
	var exception *goja.Exception
	if errors.As(err, &exception) {
		return exception.Value()
	}
	obj := e.vm.NewGoError(err)
	if errors.Is(err, require.ErrModuleNotFound) {
		obj.Set("code", codeModuleNotFound)
	}
	return obj
}

// stripHashbang blanks a leading "#!" line, keeping line numbers intact.
func stripHashbang(src []byte) []byte {
	if !bytes.HasPrefix(src, []byte("#!")) {
		return src
	}
	out := make([]byte, len(src))
	copy(out, src)
	out[0], out[1] = '/', '/'
	return out
}
