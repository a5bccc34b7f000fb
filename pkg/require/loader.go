// Package require resolves CommonJS-style module specifiers against
// folders, compiles the resolved units through an Engine and memoizes the
// result.
//
// A Loader holds everything shared between threads of a scripting session:
// the module cache, the library paths and the engine. A Thread carries the
// state that must not be shared: the set of modules in flight on its own
// call stack, used to short-circuit circular requires.
package require

import (
	"github.com/rs/zerolog"

	"github.com/stackb/cjs/pkg/folder"
)

// Loader resolves and loads modules.
type Loader struct {
	engine       Engine
	cache        *Cache
	libraryPaths []folder.Folder
	logger       zerolog.Logger

	scriptExt  string
	dataExt    string
	modulesDir string
	descriptor string
	mainField  string
	indexName  string
}

// NewLoader constructs a Loader that compiles units with engine.
func NewLoader(engine Engine, opts ...Option) *Loader {
	l := &Loader{
		engine:     engine,
		logger:     zerolog.Nop(),
		scriptExt:  DefaultScriptExtension,
		dataExt:    DefaultDataExtension,
		modulesDir: DefaultModulesDir,
		descriptor: DefaultDescriptor,
		mainField:  DefaultMainField,
		indexName:  DefaultIndexName,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.cache == nil {
		l.cache = NewCache()
	}
	return l
}

// Cache returns the module cache.
func (l *Loader) Cache() *Cache {
	return l.cache
}

// Engine returns the engine units are compiled with.
func (l *Loader) Engine() Engine {
	return l.engine
}

// LibraryPaths returns the configured library roots.
func (l *Loader) LibraryPaths() []folder.Folder {
	return l.libraryPaths
}

// NewMain constructs the root module of a load tree, identified as filename
// inside dir, with empty exports. It is not registered in the cache.
func (l *Loader) NewMain(dir folder.Folder, filename string) *Module {
	return newModule(folder.Join(dir, filename), dir, nil, l.engine.NewExports())
}

// NewThread returns a Thread for one goroutine of execution.
func (l *Loader) NewThread() *Thread {
	t := &Thread{
		loader:    l,
		inflight:  make(map[string]*pending),
		compiling: make(map[string]*Module),
	}
	if sealer, ok := l.engine.(Sealer); ok {
		t.sealer = sealer
		t.staged = make(map[string]*Module)
	}
	return t
}
