package folder_test

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/bazelbuild/bazel-gazelle/testtools"
	"github.com/google/go-cmp/cmp"

	"github.com/stackb/cjs/pkg/folder"
	"github.com/stackb/cjs/pkg/testutil"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"app/main.js":           {Data: []byte("main")},
		"app/lib/util.js":       {Data: []byte("util")},
		"node_modules/x/x.json": {Data: []byte("{}")},
	}
}

func TestResolve(t *testing.T) {
	root := folder.NewFSFolder(testFS(), "/bundle")
	app, ok := root.Child("app")
	if !ok {
		t.Fatal("app folder not found")
	}

	for name, tc := range map[string]struct {
		segments []string
		want     string
		wantOk   bool
		wantErr  error
	}{
		"degenerate": {
			want:   "/bundle/app",
			wantOk: true,
		},
		"dot is a no-op": {
			segments: []string{".", "."},
			want:     "/bundle/app",
			wantOk:   true,
		},
		"child": {
			segments: []string{"lib"},
			want:     "/bundle/app/lib",
			wantOk:   true,
		},
		"parent": {
			segments: []string{".."},
			want:     "/bundle",
			wantOk:   true,
		},
		"parent then child": {
			segments: []string{"..", "node_modules", "x"},
			want:     "/bundle/node_modules/x",
			wantOk:   true,
		},
		"above the root": {
			segments: []string{"..", ".."},
		},
		"missing child": {
			segments: []string{"nope"},
		},
		"file is not a folder": {
			segments: []string{"main.js"},
		},
		"empty segment": {
			segments: []string{"lib", ""},
			wantErr:  folder.ErrEmptySegment,
		},
		"empty segment after a missing child": {
			segments: []string{"nope", ""},
			wantErr:  folder.ErrEmptySegment,
		},
	} {
		t.Run(name, func(t *testing.T) {
			got, ok, err := folder.Resolve(app, tc.segments)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("error: want %v, got %v", tc.wantErr, err)
			}
			if ok != tc.wantOk {
				t.Fatalf("ok: want %t, got %t", tc.wantOk, ok)
			}
			if !ok {
				return
			}
			if diff := cmp.Diff(tc.want, got.Path()); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestFSFolderRead(t *testing.T) {
	root := folder.NewFSFolder(testFS(), "")
	if got := root.Path(); got != "/" {
		t.Errorf("root path: want /, got %s", got)
	}
	app, _ := root.Child("app")

	for name, tc := range map[string]struct {
		name   string
		want   string
		wantOk bool
	}{
		"file":           {name: "main.js", want: "main", wantOk: true},
		"missing":        {name: "missing.js"},
		"directory":      {name: "lib"},
		"dot":            {name: "."},
		"nested path":    {name: "lib/util.js"},
		"parent escape":  {name: ".."},
		"empty filename": {name: ""},
	} {
		t.Run(name, func(t *testing.T) {
			got, ok := app.Read(tc.name)
			if ok != tc.wantOk {
				t.Fatalf("ok: want %t, got %t", tc.wantOk, ok)
			}
			if diff := cmp.Diff(tc.want, string(got)); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestRootAndJoin(t *testing.T) {
	root := folder.NewFSFolder(testFS(), "/bundle")
	lib, ok, err := folder.Resolve(root, []string{"app", "lib"})
	if err != nil || !ok {
		t.Fatalf("resolve app/lib: %v %t", err, ok)
	}
	if got := folder.Root(lib).Path(); got != "/bundle" {
		t.Errorf("root: want /bundle, got %s", got)
	}
	if got := folder.Join(lib, "util.js"); got != "/bundle/app/lib/util.js" {
		t.Errorf("join: got %s", got)
	}
	if got := folder.Join(lib, ""); got != "/bundle/app/lib" {
		t.Errorf("join empty: got %s", got)
	}
}

func TestOSFolder(t *testing.T) {
	dir, _, cleanup := testutil.MustPrepareTestFiles(t, []testtools.FileSpec{
		{Path: "proj/app/main.js", Content: "main"},
		{Path: "proj/node_modules/util/index.js", Content: "util"},
	})
	defer cleanup()

	app, err := folder.NewOSFolder(dir + "/proj/app")
	if err != nil {
		t.Fatal(err)
	}

	data, ok := app.Read("main.js")
	if !ok || string(data) != "main" {
		t.Fatalf("read main.js: %q %t", data, ok)
	}
	if _, ok := app.Read("missing.js"); ok {
		t.Error("expected missing.js to be absent")
	}

	util, ok, err := folder.Resolve(app, []string{"..", "node_modules", "util"})
	if err != nil || !ok {
		t.Fatalf("resolve ../node_modules/util: %v %t", err, ok)
	}
	if diff := cmp.Diff(dir+"/proj/node_modules/util", util.Path()); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if _, ok := util.Read("."); ok {
		t.Error("expected a directory read to be absent")
	}
	if _, ok := app.Child("main.js"); ok {
		t.Error("expected a file to not be a child folder")
	}
	if folder.Root(app).Parent() != nil {
		t.Error("expected the filesystem root to have no parent")
	}
}

func TestNewOSFolderErrors(t *testing.T) {
	dir, _, cleanup := testutil.MustPrepareTestFiles(t, []testtools.FileSpec{
		{Path: "file.txt", Content: "x"},
	})
	defer cleanup()

	if _, err := folder.NewOSFolder(dir + "/missing"); err == nil {
		t.Error("expected an error for a missing directory")
	}
	if _, err := folder.NewOSFolder(dir + "/file.txt"); err == nil {
		t.Error("expected an error for a regular file")
	}
}
