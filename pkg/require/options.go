package require

import (
	"github.com/rs/zerolog"

	"github.com/stackb/cjs/pkg/folder"
)

const (
	DefaultScriptExtension = ".js"
	DefaultDataExtension   = ".json"
	DefaultModulesDir      = "node_modules"
	DefaultDescriptor      = "package.json"
	DefaultMainField       = "main"
	DefaultIndexName       = "index"
)

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// WithLibraryPaths appends folders searched for bare specifiers after the
// ancestor walk from the requester fails, in the given order.
func WithLibraryPaths(paths ...folder.Folder) Option {
	return func(l *Loader) {
		l.libraryPaths = append(l.libraryPaths, paths...)
	}
}

// WithCache shares an existing cache.
func WithCache(cache *Cache) Option {
	return func(l *Loader) {
		l.cache = cache
	}
}

// WithScriptExtension sets the extension probed for script units.
func WithScriptExtension(ext string) Option {
	return func(l *Loader) {
		l.scriptExt = ext
	}
}

// WithDataExtension sets the extension probed for data units.
func WithDataExtension(ext string) Option {
	return func(l *Loader) {
		l.dataExt = ext
	}
}

// WithModulesDir sets the name of the per-folder library root searched for
// bare specifiers.
func WithModulesDir(name string) Option {
	return func(l *Loader) {
		l.modulesDir = name
	}
}

// WithDescriptor sets the package descriptor filename and the field naming
// the main entry.
func WithDescriptor(filename, mainField string) Option {
	return func(l *Loader) {
		l.descriptor = filename
		l.mainField = mainField
	}
}

// WithIndexName sets the basename of directory index files.
func WithIndexName(name string) Option {
	return func(l *Loader) {
		l.indexName = name
	}
}
