package require_test

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/stackb/cjs/pkg/folder"
	"github.com/stackb/cjs/pkg/require"
	"github.com/stackb/cjs/pkg/testutil"
)

// object is the exports container of lineEngine.
type object struct {
	mu    sync.Mutex
	props map[string]any
}

func (o *object) get(key string) any {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.props[key]
}

func (o *object) set(key string, value any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.props[key] = value
}

// lineEngine runs a tiny line-oriented script language:
//
//	require SPEC [as KEY]   require SPEC, optionally storing the result
//	set KEY VALUE           set a property on the current exports
//	replace VALUE           replace module.exports with a string
//	catch SPEC              require SPEC, storing the error text as "error"
//	fail MESSAGE...         abort with an error
type lineEngine struct {
	mu     sync.Mutex
	execs  map[string]int
	sealed []string
}

func newLineEngine() *lineEngine {
	return &lineEngine{execs: make(map[string]int)}
}

func (e *lineEngine) NewExports() any {
	return &object{props: make(map[string]any)}
}

func (e *lineEngine) ExecScript(u *require.Unit) error {
	e.mu.Lock()
	e.execs[u.Filename()]++
	e.mu.Unlock()

	for _, line := range strings.Split(string(u.Source), "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "require":
			v, err := u.Require(fields[1])
			if err != nil {
				return err
			}
			if len(fields) == 4 && fields[2] == "as" {
				if err := setProp(u, fields[3], v); err != nil {
					return err
				}
			}
		case "set":
			if err := setProp(u, fields[1], fields[2]); err != nil {
				return err
			}
		case "replace":
			u.Module.SetExports(fields[1])
		case "catch":
			_, err := u.Require(fields[1])
			if err == nil {
				return fmt.Errorf("expected require(%q) to fail", fields[1])
			}
			if err := setProp(u, "error", err.Error()); err != nil {
				return err
			}
		case "fail":
			return fmt.Errorf("%s", strings.Join(fields[1:], " "))
		default:
			return fmt.Errorf("unknown statement %q", fields[0])
		}
	}
	return nil
}

func (e *lineEngine) DecodeData(u *require.Unit) (any, error) {
	var v any
	if err := json.Unmarshal(u.Source, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func (e *lineEngine) execCount(filename string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.execs[filename]
}

func setProp(u *require.Unit, key string, value any) error {
	obj, ok := u.Module.Exports().(*object)
	if !ok {
		return fmt.Errorf("%s: exports were replaced", u.Filename())
	}
	obj.set(key, value)
	return nil
}

// sealingEngine records the modules it is asked to seal.
type sealingEngine struct {
	*lineEngine
}

func (e *sealingEngine) Seal(m *require.Module) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sealed = append(e.sealed, m.ID())
}

// observingEngine calls after once a script unit has run successfully.
type observingEngine struct {
	require.Engine
	after func(u *require.Unit)
}

func (e *observingEngine) ExecScript(u *require.Unit) error {
	if err := e.Engine.ExecScript(u); err != nil {
		return err
	}
	if e.after != nil {
		e.after(u)
	}
	return nil
}

// observingSealer is an observingEngine that also seals.
type observingSealer struct {
	*observingEngine
	require.Sealer
}

// testFiles builds a MapFS from path -> content.
func testFiles(files map[string]string) fstest.MapFS {
	fsys := fstest.MapFS{}
	for name, content := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return fsys
}

type fixture struct {
	engine *lineEngine
	loader *require.Loader
	thread *require.Thread
	root   folder.Folder
	main   *require.Module
}

// newFixture loads files into an in-memory folder rooted at "/" and
// creates a main module at /proj/app/main.
func newFixture(t *testing.T, files map[string]string, opts ...require.Option) *fixture {
	t.Helper()
	engine := newLineEngine()
	return newFixtureWithEngine(t, engine, engine, files, opts...)
}

func newFixtureWithEngine(t *testing.T, lines *lineEngine, engine require.Engine, files map[string]string, opts ...require.Option) *fixture {
	t.Helper()
	root := folder.NewFSFolder(testFiles(files), "/")
	app, ok, err := folder.Resolve(root, []string{"proj", "app"})
	if err != nil || !ok {
		t.Fatalf("fixture has no proj/app folder: %v", err)
	}
	opts = append([]require.Option{require.WithLogger(testutil.NewTestLogger(t))}, opts...)
	loader := require.NewLoader(engine, opts...)
	return &fixture{
		engine: lines,
		loader: loader,
		thread: loader.NewThread(),
		root:   root,
		main:   loader.NewMain(app, "main"),
	}
}

func (f *fixture) mustRequire(t *testing.T, specifier string) any {
	t.Helper()
	v, err := f.thread.Require(f.main, specifier)
	if err != nil {
		t.Fatalf("require(%q): %v", specifier, err)
	}
	return v
}
