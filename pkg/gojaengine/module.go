package gojaengine

import (
	"github.com/dop251/goja"

	"github.com/stackb/cjs/pkg/require"
)

var moduleKeys = []string{"id", "filename", "path", "exports", "parent", "children", "loaded"}

// moduleObject exposes a module record to scripts as the "module" binding.
// Reads go to the record, so that module.exports and module.loaded always
// reflect the loader's view.
type moduleObject struct {
	engine *Engine
	module *require.Module
}

// moduleObject returns the script view of m, creating it on first use.
func (e *Engine) moduleObject(m *require.Module) *goja.Object {
	if obj, ok := e.objects[m]; ok {
		return obj
	}
	obj := e.vm.NewDynamicObject(&moduleObject{engine: e, module: m})
	e.objects[m] = obj
	return obj
}

func (o *moduleObject) Get(key string) goja.Value {
	vm := o.engine.vm
	switch key {
	case "id", "filename":
		return vm.ToValue(o.module.ID())
	case "path":
		return vm.ToValue(o.module.Dirname())
	case "exports":
		return o.engine.Value(o.module.Exports())
	case "loaded":
		return vm.ToValue(o.module.Loaded())
	case "parent":
		if parent := o.module.Parent(); parent != nil {
			return o.engine.moduleObject(parent)
		}
		return goja.Null()
	case "children":
		children := o.module.Children()
		items := make([]any, len(children))
		for i, child := range children {
			items[i] = o.engine.moduleObject(child)
		}
		return vm.NewArray(items...)
	}
	return nil
}

// Set accepts only "exports". Other properties are read-only.
func (o *moduleObject) Set(key string, val goja.Value) bool {
	if key != "exports" {
		return false
	}
	o.module.SetExports(val)
	return true
}

func (o *moduleObject) Has(key string) bool {
	for _, k := range moduleKeys {
		if k == key {
			return true
		}
	}
	return false
}

func (o *moduleObject) Delete(key string) bool {
	return !o.Has(key)
}

func (o *moduleObject) Keys() []string {
	return moduleKeys
}
