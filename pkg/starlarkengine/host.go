package starlarkengine

import (
	"fmt"

	"go.starlark.net/starlark"

	"github.com/stackb/cjs/pkg/folder"
	"github.com/stackb/cjs/pkg/require"
)

// Host runs a main module on one goroutine against a loader that may be
// shared with other hosts.
type Host struct {
	engine *Engine
	loader *require.Loader
	thread *require.Thread
	main   *require.Module
}

// Enable creates a host whose main module is filename inside dir. The
// loader's engine must be an *Engine.
func Enable(loader *require.Loader, dir folder.Folder, filename string) (*Host, error) {
	engine, ok := loader.Engine().(*Engine)
	if !ok {
		return nil, fmt.Errorf("loader engine is %T, not a starlark engine", loader.Engine())
	}
	return &Host{
		engine: engine,
		loader: loader,
		thread: loader.NewThread(),
		main:   loader.NewMain(dir, filename),
	}, nil
}

// Loader returns the loader of the host.
func (h *Host) Loader() *require.Loader {
	return h.loader
}

// Main returns the root module.
func (h *Host) Main() *require.Module {
	return h.main
}

// Predeclared returns the root bindings (exports, require, module,
// __filename, __dirname) of the main module, for callers that run the
// main program themselves.
func (h *Host) Predeclared() starlark.StringDict {
	return h.engine.bindings(h.main, h.require)
}

// Require resolves specifier relative to the main module.
func (h *Host) Require(specifier string) (starlark.Value, error) {
	v, err := h.require(specifier)
	if err != nil {
		return nil, err
	}
	return Value(v), nil
}

func (h *Host) require(specifier string) (any, error) {
	return h.thread.Require(h.main, specifier)
}

// ExecFile runs src as the body of the main module and returns its
// globals. The main module is marked loaded and its exports frozen once
// src completes without error.
func (h *Host) ExecFile(src []byte) (starlark.StringDict, error) {
	globals, err := h.engine.exec(h.main, src, h.require)
	if err != nil {
		return nil, err
	}
	h.main.MarkLoaded()
	h.engine.Seal(h.main)
	return globals, nil
}

// Exports returns the current exports of the main module.
func (h *Host) Exports() starlark.Value {
	return Value(h.main.Exports())
}
