package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bazelbuild/bazel-gazelle/testtools"
	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/stackb/cjs/pkg/require"
	"github.com/stackb/cjs/pkg/testutil"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	want := Default()
	want.LibraryPaths = []string{}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config (-want +got):\n%s", diff)
	}
}

func TestLoadEnv(t *testing.T) {
	libs := []string{"/opt/a", "/opt/b"}
	t.Setenv("CJS_LIBRARY_PATHS", strings.Join(libs, string(os.PathListSeparator)))
	t.Setenv("CJS_ENGINE", "starlark")
	t.Setenv("CJS_MODULES_DIR", "vendor")
	t.Setenv("CJS_LOG_LEVEL", "debug")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(libs, cfg.LibraryPaths); diff != "" {
		t.Errorf("library paths (-want +got):\n%s", diff)
	}
	assert.Equal(t, EngineStarlark, cfg.Engine)
	assert.Equal(t, "vendor", cfg.ModulesDir)
	level, err := cfg.Level()
	assert.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, level)
}

func TestLoadFile(t *testing.T) {
	for name, tc := range map[string]struct {
		files   []testtools.FileSpec
		want    func(*Config)
		wantErr string
	}{
		"yaml": {
			files: []testtools.FileSpec{{
				Path: "cjs.yaml",
				Content: `
library_paths:
  - /opt/lib
script_extension: .mjs
descriptor: manifest.json
main_field: entry
`,
			}},
			want: func(c *Config) {
				c.LibraryPaths = []string{"/opt/lib"}
				c.ScriptExtension = ".mjs"
				c.Descriptor = "manifest.json"
				c.MainField = "entry"
			},
		},
		"json": {
			files: []testtools.FileSpec{{
				Path:    "cjs.json",
				Content: `{"index_name": "main", "engine": "starlark"}`,
			}},
			want: func(c *Config) {
				c.LibraryPaths = []string{}
				c.IndexName = "main"
				c.Engine = EngineStarlark
			},
		},
		"unknown engine": {
			files: []testtools.FileSpec{{
				Path:    "cjs.yaml",
				Content: "engine: lua\n",
			}},
			wantErr: `unknown engine "lua"`,
		},
		"bad log level": {
			files: []testtools.FileSpec{{
				Path:    "cjs.yaml",
				Content: "log_level: loud\n",
			}},
			wantErr: "log level",
		},
		"missing file": {
			files: []testtools.FileSpec{{
				Path:     "cjs.yaml",
				NotExist: true,
			}},
			wantErr: "reading config",
		},
	} {
		t.Run(name, func(t *testing.T) {
			_, filenames, clean := testutil.MustPrepareTestFiles(t, tc.files)
			defer clean()

			cfg, err := Load(filenames[0])
			if tc.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
					t.Fatalf("want error containing %q, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			want := Default()
			tc.want(want)
			if diff := cmp.Diff(want, cfg); diff != "" {
				t.Errorf("config (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoaderOptions(t *testing.T) {
	dir, _, clean := testutil.MustPrepareTestFiles(t, []testtools.FileSpec{
		{Path: "first/node_modules/a.js"},
		{Path: "second/node_modules/b.js"},
	})
	defer clean()

	cfg := Default()
	cfg.LibraryPaths = []string{filepath.Join(dir, "first"), "", filepath.Join(dir, "second")}
	opts, err := cfg.LoaderOptions()
	if err != nil {
		t.Fatal(err)
	}

	loader := require.NewLoader(nil, opts...)
	var got []string
	for _, lib := range loader.LibraryPaths() {
		got = append(got, lib.Path())
	}
	want := []string{
		filepath.ToSlash(filepath.Join(dir, "first")),
		filepath.ToSlash(filepath.Join(dir, "second")),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("library paths (-want +got):\n%s", diff)
	}

	cfg.LibraryPaths = []string{filepath.Join(dir, "missing")}
	if _, err := cfg.LoaderOptions(); err == nil {
		t.Error("expected error for missing library path")
	}
}
