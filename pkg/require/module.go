package require

import (
	"sync"

	"github.com/stackb/cjs/pkg/folder"
)

// Module is a loaded unit. Requirers normally see only its exports; the
// record itself is exposed to the unit's own code and to introspection.
type Module struct {
	id     string
	folder folder.Folder
	parent *Module
	top    *Module

	mu       sync.RWMutex
	exports  any
	children []*Module
	loaded   bool
}

func newModule(id string, dir folder.Folder, parent *Module, exports any) *Module {
	m := &Module{
		id:      id,
		folder:  dir,
		parent:  parent,
		exports: exports,
	}
	if parent != nil {
		m.top = parent.top
	} else {
		m.top = m
	}
	return m
}

// ID returns the effective full path of the module.
func (m *Module) ID() string {
	return m.id
}

// Filename is the same as ID.
func (m *Module) Filename() string {
	return m.id
}

// Dirname returns the path of the folder the module was loaded from.
func (m *Module) Dirname() string {
	return m.folder.Path()
}

// Folder returns the folder that the module's require resolves against.
func (m *Module) Folder() folder.Folder {
	return m.folder
}

// Parent returns the module that first required this one, or nil for the
// main module.
func (m *Module) Parent() *Module {
	return m.parent
}

// Top returns the main module of the load tree.
func (m *Module) Top() *Module {
	return m.top
}

// Exports returns the current exports value.
func (m *Module) Exports() any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.exports
}

// SetExports replaces the exports value wholesale.
func (m *Module) SetExports(v any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exports = v
}

// Children returns a copy of the modules this module has required, in
// first-require order.
func (m *Module) Children() []*Module {
	m.mu.RLock()
	defer m.mu.RUnlock()
	children := make([]*Module, len(m.children))
	copy(children, m.children)
	return children
}

// Loaded reports whether the module finished executing.
func (m *Module) Loaded() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loaded
}

// MarkLoaded flags the module as loaded. The loader does this for compiled
// units; hosts call it for a main module once its top-level script returns.
func (m *Module) MarkLoaded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loaded = true
}

func (m *Module) addChild(child *Module) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.children {
		if c == child {
			return
		}
	}
	m.children = append(m.children, child)
}

func (m *Module) String() string {
	return m.id
}
