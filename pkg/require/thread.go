package require

import (
	"github.com/stackb/cjs/pkg/folder"
)

// pending is an in-flight guard entry: the placeholder exports published
// for a probe path while the require that registered it is running.
type pending struct {
	exports any
	// module is set once compilation of the unit begins.
	module *Module
}

func (p *pending) current() any {
	if p.module != nil {
		return p.module.Exports()
	}
	return p.exports
}

// Thread is the per-goroutine side of a Loader. It is not safe for
// concurrent use; give each goroutine (or each engine runtime) its own.
type Thread struct {
	loader *Loader
	// inflight is keyed by probe path (requester-relative folder + name).
	inflight map[string]*pending
	// compiling is keyed by effective path.
	compiling map[string]*Module
	// depth counts nested Require calls.
	depth int
	// compiled lists modules compiled since depth was last zero, for
	// sealing.
	compiled []*Module
	// staged holds cache entries withheld from the shared cache until the
	// modules they name are sealed. Only used when sealer is set.
	staged map[string]*Module
	sealer Sealer
}

// lookup returns the module cached at path, including entries staged on
// this thread.
func (t *Thread) lookup(path string) (*Module, bool) {
	if m, ok := t.loader.cache.Get(path); ok {
		return m, true
	}
	m, ok := t.staged[path]
	return m, ok
}

// publish registers m at path. With a sealing engine the entry stays
// private to the thread until the outermost require returns.
func (t *Thread) publish(path string, m *Module) {
	if t.sealer != nil {
		t.staged[path] = m
		return
	}
	t.loader.cache.Put(path, m)
}

// Loader returns the loader the thread belongs to.
func (t *Thread) Loader() *Loader {
	return t.loader
}

// Require resolves specifier relative to the folder of from and returns the
// resolved module's exports. A require that closes a cycle on this thread
// returns the in-progress exports of the module being loaded.
func (t *Thread) Require(from *Module, specifier string) (any, error) {
	_, exports, err := t.require(from, specifier)
	if err != nil {
		return nil, err
	}
	return exports, nil
}

func (t *Thread) require(from *Module, raw string) (*Module, any, error) {
	spec, err := parseSpecifier(raw)
	if err != nil {
		return nil, nil, err
	}

	t.depth++
	defer t.exit()

	log := t.loader.logger.With().Str("specifier", raw).Str("from", from.ID()).Logger()

	start := from.Folder()
	if spec.absolute {
		start = folder.Root(start)
	}
	target, ok, err := folder.Resolve(start, spec.segments)
	if err != nil {
		return nil, nil, &InvalidSpecifierError{Specifier: raw, Err: err}
	}

	var guard *pending
	if ok {
		key := folder.Join(target, spec.name)
		if p, busy := t.inflight[key]; busy {
			log.Debug().Str("path", key).Msg("circular require")
			if p.module != nil {
				from.addChild(p.module)
			}
			return p.module, p.current(), nil
		}
		guard = &pending{exports: t.loader.engine.NewExports()}
		t.inflight[key] = guard
		defer delete(t.inflight, key)
	}

	req := &request{from: from, spec: spec, guard: guard}

	var m *Module
	if spec.explicit {
		if ok {
			m, err = t.loadFromFolder(req, target, spec.name)
		}
	} else {
		m, err = t.searchModules(req, from.Folder())
		for _, lib := range t.loader.libraryPaths {
			if m != nil || err != nil {
				break
			}
			log.Debug().Str("library", lib.Path()).Msg("searching library path")
			m, err = t.searchModules(req, lib)
		}
	}
	if err != nil {
		return nil, nil, err
	}
	if m == nil {
		return nil, nil, &ModuleNotFoundError{Specifier: raw, From: from.ID()}
	}

	from.addChild(m)
	return m, m.Exports(), nil
}

// searchModules walks from start up to the root, trying the modules
// directory of each folder. The first hit wins.
func (t *Thread) searchModules(req *request, start folder.Folder) (*Module, error) {
	for dir := start; dir != nil; dir = dir.Parent() {
		modules, ok := dir.Child(t.loader.modulesDir)
		if !ok {
			continue
		}
		target, ok, err := folder.Resolve(modules, req.spec.segments)
		if err != nil {
			return nil, &InvalidSpecifierError{Specifier: req.spec.raw, Err: err}
		}
		if !ok {
			continue
		}
		m, err := t.loadFromFolder(req, target, req.spec.name)
		if err != nil || m != nil {
			return m, err
		}
	}
	return nil, nil
}

func (t *Thread) exit() {
	t.depth--
	if t.depth > 0 {
		return
	}
	compiled := t.compiled
	t.compiled = nil
	if t.sealer == nil {
		return
	}
	for _, m := range compiled {
		t.sealer.Seal(m)
	}
	for path, m := range t.staged {
		t.loader.cache.Put(path, m)
	}
	clear(t.staged)
}
