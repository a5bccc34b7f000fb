package require

// Engine is the script execution collaborator of a Loader. Values it hands
// out as exports are opaque to the loader.
type Engine interface {
	// NewExports returns a fresh, empty exports container.
	NewExports() any
	// ExecScript runs a script unit synchronously. The unit's module,
	// exports, require, filename and dirname must be bound into the
	// script's top-level scope. Scripts may replace the exports value
	// through the module record.
	ExecScript(u *Unit) error
	// DecodeData parses a data unit. The result becomes the module's
	// exports verbatim.
	DecodeData(u *Unit) (any, error)
}

// Sealer is implemented by engines whose exports must be made immutable
// before they may be read outside the thread that built them. Seal is
// called once per module, after the outermost require of the compiling
// thread has returned. Modules compiled with a Sealer enter the shared
// cache only after they are sealed.
type Sealer interface {
	Seal(m *Module)
}

// Unit is a single compilation request.
type Unit struct {
	Module *Module
	Source []byte
	// Require resolves a specifier relative to Module, on the compiling
	// thread.
	Require func(specifier string) (any, error)
}

// Filename returns the effective path of the unit.
func (u *Unit) Filename() string {
	return u.Module.Filename()
}

// Dirname returns the path of the folder containing the unit.
func (u *Unit) Dirname() string {
	return u.Module.Dirname()
}
