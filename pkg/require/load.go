package require

import (
	"path"
	"strings"

	"github.com/stackb/cjs/pkg/folder"
)

// maxMainHops bounds package descriptor indirection, so that descriptors
// whose main entries point at each other do not recurse forever.
const maxMainHops = 16

// request carries the per-call state of one Require through the probing
// helpers.
type request struct {
	from  *Module
	spec  *specifier
	guard *pending
}

// loadFromFolder loads name inside dir as a file, then as a directory. A
// hit is cached under both the probe path and the effective path.
func (t *Thread) loadFromFolder(req *request, dir folder.Folder, name string) (*Module, error) {
	probe := folder.Join(dir, name)
	if m, ok := t.lookup(probe); ok {
		t.loader.logger.Debug().Str("path", probe).Msg("cache hit")
		return m, nil
	}

	var m *Module
	var err error
	if name != "" {
		m, err = t.loadFile(req, dir, name)
		if err != nil {
			return nil, err
		}
	}
	if m == nil {
		sub := dir
		if name != "" {
			var ok bool
			if sub, ok = dir.Child(name); !ok {
				return nil, nil
			}
		}
		m, err = t.loadDirectory(req, sub, 0)
		if err != nil || m == nil {
			return nil, err
		}
	}

	// a module still compiling on this thread is returned to break the
	// cycle but only cached once it has loaded
	if m.Loaded() {
		t.publish(probe, m)
		t.publish(m.ID(), m)
	}
	return m, nil
}

// loadFile tries name, name + script extension and name + data extension,
// in that order.
func (t *Thread) loadFile(req *request, dir folder.Folder, name string) (*Module, error) {
	return t.loadCandidates(req, dir, name, name+t.loader.scriptExt, name+t.loader.dataExt)
}

// loadDirectory loads dir through its package descriptor, falling back to
// the index files.
func (t *Thread) loadDirectory(req *request, dir folder.Folder, hops int) (*Module, error) {
	if main, ok := t.packageMain(dir); ok && hops < maxMainHops {
		m, err := t.loadMain(req, dir, main, hops)
		if err != nil || m != nil {
			return m, err
		}
	}
	index := t.loader.indexName
	return t.loadCandidates(req, dir, index+t.loader.scriptExt, index+t.loader.dataExt)
}

// loadMain resolves a package descriptor main entry relative to dir,
// applying the file rules and then the directory rules to the entry.
func (t *Thread) loadMain(req *request, dir folder.Folder, main string, hops int) (*Module, error) {
	main = path.Clean(strings.TrimPrefix(main, "/"))
	if main == "." {
		return nil, nil
	}
	parts := strings.Split(main, "/")
	target, ok, err := folder.Resolve(dir, parts[:len(parts)-1])
	if err != nil || !ok {
		return nil, nil
	}
	name := parts[len(parts)-1]
	if name == ".." {
		parent := target.Parent()
		if parent == nil {
			return nil, nil
		}
		return t.loadDirectory(req, parent, hops+1)
	}
	m, err := t.loadFile(req, target, name)
	if err != nil || m != nil {
		return m, err
	}
	sub, ok := target.Child(name)
	if !ok {
		return nil, nil
	}
	return t.loadDirectory(req, sub, hops+1)
}

// loadCandidates compiles the first of names that dir can read. Candidates
// already cached or compiling on this thread are returned without I/O.
func (t *Thread) loadCandidates(req *request, dir folder.Folder, names ...string) (*Module, error) {
	for _, name := range names {
		id := folder.Join(dir, name)
		if m, ok := t.lookup(id); ok {
			return m, nil
		}
		if m, ok := t.compiling[id]; ok {
			t.loader.logger.Debug().Str("path", id).Msg("already compiling")
			return m, nil
		}
		src, ok := dir.Read(name)
		if !ok {
			continue
		}
		return t.compile(req, dir, name, src)
	}
	return nil, nil
}

// compile creates the module record for filename, runs it through the
// engine and registers it in the cache under its effective path. Failed
// units are not cached. With a sealing engine the entry reaches the shared
// cache only after the module is sealed.
func (t *Thread) compile(req *request, dir folder.Folder, filename string, src []byte) (*Module, error) {
	id := folder.Join(dir, filename)
	data := t.loader.dataExt != "" && strings.HasSuffix(filename, t.loader.dataExt)

	var exports any
	if !data && req.guard != nil && req.guard.module == nil {
		exports = req.guard.exports
	} else {
		exports = t.loader.engine.NewExports()
	}
	m := newModule(id, dir, req.from, exports)
	if !data && req.guard != nil && req.guard.module == nil {
		req.guard.module = m
	}

	t.compiling[id] = m
	defer delete(t.compiling, id)

	log := t.loader.logger.With().Str("path", id).Logger()
	log.Debug().Bool("data", data).Msg("compiling")

	u := &Unit{
		Module: m,
		Source: src,
		Require: func(specifier string) (any, error) {
			return t.Require(m, specifier)
		},
	}
	if data {
		value, err := t.loader.engine.DecodeData(u)
		if err != nil {
			return nil, &CompileError{Filename: id, Err: err}
		}
		m.SetExports(value)
	} else if err := t.loader.engine.ExecScript(u); err != nil {
		return nil, &CompileError{Filename: id, Err: err}
	}

	m.MarkLoaded()
	t.publish(id, m)
	t.compiled = append(t.compiled, m)
	log.Debug().Msg("loaded")
	return m, nil
}
