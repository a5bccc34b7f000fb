package main

import (
	"strings"

	"github.com/dop251/goja"
	"github.com/rs/zerolog"

	"github.com/stackb/cjs/pkg/config"
	"github.com/stackb/cjs/pkg/folder"
	"github.com/stackb/cjs/pkg/gojaengine"
	"github.com/stackb/cjs/pkg/require"
	"github.com/stackb/cjs/pkg/starlarkengine"
)

// mainFilename identifies the synthetic main module the CLI requires
// entries from.
const mainFilename = "[cjs]"

// session requires entries through one engine and renders their exports.
type session interface {
	// Require loads specifier relative to the main module and returns its
	// exports rendered as text.
	Require(specifier string) (string, error)
	Main() *require.Module
	Loader() *require.Loader
}

func (a *app) newSession(dir folder.Folder) (session, error) {
	opts, err := a.loaderOptions()
	if err != nil {
		return nil, err
	}
	if a.cfg.Engine == config.EngineStarlark {
		engine := starlarkengine.New(starlarkengine.WithReporter(func(format string, args ...interface{}) {
			a.logger.Info().Msgf(format, args...)
		}))
		host, err := starlarkengine.Enable(starlarkengine.NewLoader(engine, opts...), dir, mainFilename)
		if err != nil {
			return nil, err
		}
		return &starlarkSession{host}, nil
	}

	vm := goja.New()
	host, err := gojaengine.Enable(vm, dir, mainFilename, opts...)
	if err != nil {
		return nil, err
	}
	if err := bindConsole(vm, a); err != nil {
		return nil, err
	}
	return &jsSession{host}, nil
}

type jsSession struct {
	host *gojaengine.Host
}

func (s *jsSession) Require(specifier string) (string, error) {
	v, err := s.host.Require(specifier)
	if err != nil {
		return "", err
	}
	return s.host.Stringify(v)
}

func (s *jsSession) Main() *require.Module   { return s.host.Main() }
func (s *jsSession) Loader() *require.Loader { return s.host.Loader() }

type starlarkSession struct {
	host *starlarkengine.Host
}

func (s *starlarkSession) Require(specifier string) (string, error) {
	v, err := s.host.Require(specifier)
	if err != nil {
		return "", err
	}
	return starlarkengine.Format(v), nil
}

func (s *starlarkSession) Main() *require.Module   { return s.host.Main() }
func (s *starlarkSession) Loader() *require.Loader { return s.host.Loader() }

// bindConsole installs a minimal console whose log and error methods write
// through the CLI logger.
func bindConsole(vm *goja.Runtime, a *app) error {
	console := vm.NewObject()
	write := func(level zerolog.Level) func(goja.FunctionCall) goja.Value {
		return func(call goja.FunctionCall) goja.Value {
			parts := make([]string, len(call.Arguments))
			for i, arg := range call.Arguments {
				parts[i] = arg.String()
			}
			a.logger.WithLevel(level).Msg(strings.Join(parts, " "))
			return goja.Undefined()
		}
	}
	if err := console.Set("log", write(zerolog.InfoLevel)); err != nil {
		return err
	}
	if err := console.Set("error", write(zerolog.ErrorLevel)); err != nil {
		return err
	}
	return vm.Set("console", console)
}
