package folder

import (
	"io/fs"
	"path"
)

// fsFolder is a Folder backed by an fs.FS, such as an embed.FS resource
// bundle or an fstest.MapFS.
type fsFolder struct {
	fsys   fs.FS
	root   string
	name   string
	parent *fsFolder
}

// NewFSFolder returns the root Folder of fsys. The root is identified as
// root in module paths, for example "/bundle"; an empty root becomes "/".
func NewFSFolder(fsys fs.FS, root string) Folder {
	if root == "" {
		root = "/"
	}
	return &fsFolder{
		fsys: fsys,
		root: path.Clean("/" + root),
		name: ".",
	}
}

func (f *fsFolder) Path() string {
	if f.name == "." {
		return f.root
	}
	return path.Join(f.root, f.name)
}

func (f *fsFolder) Parent() Folder {
	if f.parent == nil {
		return nil
	}
	return f.parent
}

func (f *fsFolder) Read(name string) ([]byte, bool) {
	if !validName(name) {
		return nil, false
	}
	p := path.Join(f.name, name)
	info, err := fs.Stat(f.fsys, p)
	if err != nil || info.IsDir() {
		return nil, false
	}
	data, err := fs.ReadFile(f.fsys, p)
	if err != nil {
		return nil, false
	}
	return data, true
}

func (f *fsFolder) Child(name string) (Folder, bool) {
	if !validName(name) {
		return nil, false
	}
	p := path.Join(f.name, name)
	info, err := fs.Stat(f.fsys, p)
	if err != nil || !info.IsDir() {
		return nil, false
	}
	return &fsFolder{
		fsys:   f.fsys,
		root:   f.root,
		name:   p,
		parent: f,
	}, true
}

func (f *fsFolder) String() string {
	return f.Path()
}
