package gojaengine

import (
	"fmt"

	"github.com/dop251/goja"

	"github.com/stackb/cjs/pkg/folder"
	"github.com/stackb/cjs/pkg/require"
)

// Host is the entry point of a runtime: it owns the loader, the runtime's
// thread and the main module, and binds the main module's require,
// module, exports, __filename and __dirname as globals.
type Host struct {
	vm     *goja.Runtime
	engine *Engine
	loader *require.Loader
	thread *require.Thread
	main   *require.Module
}

// Enable creates a loader for vm and binds the root CommonJS globals. The
// main module is identified as filename inside dir.
func Enable(vm *goja.Runtime, dir folder.Folder, filename string, opts ...require.Option) (*Host, error) {
	engine := New(vm)
	loader := require.NewLoader(engine, opts...)
	h := &Host{
		vm:     vm,
		engine: engine,
		loader: loader,
		thread: loader.NewThread(),
		main:   loader.NewMain(dir, filename),
	}

	module := engine.moduleObject(h.main)
	globals := map[string]any{
		"require": engine.requireFunc(func(specifier string) (any, error) {
			return h.thread.Require(h.main, specifier)
		}),
		"module":     module,
		"exports":    module.Get("exports"),
		"__filename": h.main.Filename(),
		"__dirname":  h.main.Dirname(),
	}
	for _, name := range []string{"require", "module", "exports", "__filename", "__dirname"} {
		if err := vm.Set(name, globals[name]); err != nil {
			return nil, fmt.Errorf("binding %s: %w", name, err)
		}
	}
	return h, nil
}

// Runtime returns the goja runtime.
func (h *Host) Runtime() *goja.Runtime {
	return h.vm
}

// Loader returns the loader owned by the host.
func (h *Host) Loader() *require.Loader {
	return h.loader
}

// Main returns the root module.
func (h *Host) Main() *require.Module {
	return h.main
}

// Require resolves specifier relative to the main module.
func (h *Host) Require(specifier string) (goja.Value, error) {
	v, err := h.thread.Require(h.main, specifier)
	if err != nil {
		return nil, err
	}
	return h.engine.Value(v), nil
}

// RunScript runs src as the body of the main module. The main module is
// marked loaded once src completes without error.
func (h *Host) RunScript(src string) (goja.Value, error) {
	v, err := h.vm.RunScript(h.main.Filename(), string(stripHashbang([]byte(src))))
	if err != nil {
		return nil, err
	}
	h.main.MarkLoaded()
	return v, nil
}

// Exports returns the current exports of the main module.
func (h *Host) Exports() goja.Value {
	return h.engine.Value(h.main.Exports())
}

// Stringify renders v with the runtime's JSON.stringify, indented with two
// spaces.
func (h *Host) Stringify(v goja.Value) (string, error) {
	stringify, ok := goja.AssertFunction(h.vm.Get("JSON").ToObject(h.vm).Get("stringify"))
	if !ok {
		return "", fmt.Errorf("JSON.stringify is not a function")
	}
	out, err := stringify(goja.Undefined(), v, goja.Null(), h.vm.ToValue(2))
	if err != nil {
		return "", err
	}
	if goja.IsUndefined(out) {
		return "undefined", nil
	}
	return out.String(), nil
}
