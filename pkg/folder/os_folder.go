package folder

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// osFolder is a Folder backed by a directory of the host filesystem.
type osFolder struct {
	dir    string
	parent Folder
}

// NewOSFolder returns a Folder for the directory dir. The directory must
// exist; relative paths are made absolute.
func NewOSFolder(dir string) (Folder, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("folder %q: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("folder %q: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("folder %q: not a directory", dir)
	}
	return &osFolder{dir: abs}, nil
}

func (f *osFolder) Path() string {
	return filepath.ToSlash(f.dir)
}

// Parent is computed lazily so that navigating upward never requires the
// ancestors to have been visited first.
func (f *osFolder) Parent() Folder {
	if f.parent != nil {
		return f.parent
	}
	up := filepath.Dir(f.dir)
	if up == f.dir {
		return nil
	}
	return &osFolder{dir: up}
}

func (f *osFolder) Read(name string) ([]byte, bool) {
	if !validName(name) {
		return nil, false
	}
	file, err := os.Open(filepath.Join(f.dir, name))
	if err != nil {
		return nil, false
	}
	defer file.Close()
	// Some platforms allow read() on a directory, so stat instead of
	// relying on the read to fail.
	info, err := file.Stat()
	if err != nil || info.IsDir() {
		return nil, false
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, false
	}
	return data, true
}

func (f *osFolder) Child(name string) (Folder, bool) {
	if !validName(name) {
		return nil, false
	}
	dir := filepath.Join(f.dir, name)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, false
	}
	return &osFolder{dir: dir, parent: f}, true
}

func (f *osFolder) String() string {
	return f.Path()
}
