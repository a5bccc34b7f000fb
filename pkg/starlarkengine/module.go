package starlarkengine

import (
	"fmt"

	"go.starlark.net/starlark"

	"github.com/stackb/cjs/pkg/require"
)

var moduleAttrs = []string{"children", "exports", "filename", "id", "loaded", "parent", "path"}

// moduleValue is the Starlark view of a module record. Attribute reads go
// to the record; exports may be assigned only until the module has loaded.
type moduleValue struct {
	module *require.Module
}

var (
	_ starlark.HasAttrs    = (*moduleValue)(nil)
	_ starlark.HasSetField = (*moduleValue)(nil)
)

func (v *moduleValue) String() string        { return fmt.Sprintf("<module %q>", v.module.ID()) }
func (v *moduleValue) Type() string          { return "module" }
func (v *moduleValue) Freeze()               {}
func (v *moduleValue) Truth() starlark.Bool  { return starlark.True }
func (v *moduleValue) Hash() (uint32, error) { return starlark.String(v.module.ID()).Hash() }

func (v *moduleValue) Attr(name string) (starlark.Value, error) {
	m := v.module
	switch name {
	case "id", "filename":
		return starlark.String(m.ID()), nil
	case "path":
		return starlark.String(m.Dirname()), nil
	case "exports":
		return Value(m.Exports()), nil
	case "loaded":
		return starlark.Bool(m.Loaded()), nil
	case "parent":
		if parent := m.Parent(); parent != nil {
			return &moduleValue{module: parent}, nil
		}
		return starlark.None, nil
	case "children":
		children := m.Children()
		elems := make([]starlark.Value, len(children))
		for i, child := range children {
			elems[i] = &moduleValue{module: child}
		}
		return starlark.NewList(elems), nil
	}
	return nil, nil
}

func (v *moduleValue) AttrNames() []string {
	return moduleAttrs
}

func (v *moduleValue) SetField(name string, val starlark.Value) error {
	if name != "exports" {
		return starlark.NoSuchAttrError(fmt.Sprintf("module has no assignable field .%s", name))
	}
	if v.module.Loaded() {
		return fmt.Errorf("cannot assign module.exports of %s after it has loaded", v.module.ID())
	}
	v.module.SetExports(val)
	return nil
}
