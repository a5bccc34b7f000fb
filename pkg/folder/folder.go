// Package folder provides navigable, read-only resource containers that
// modules are loaded from. A Folder may be backed by the host filesystem or
// by any io/fs.FS (for example an embed.FS resource bundle); both variants
// navigate identically.
package folder

import (
	"errors"
	"path"
	"strings"
)

// ErrEmptySegment is returned by Resolve when a path segment is the empty
// string, for example from a doubled separator.
var ErrEmptySegment = errors.New("empty path segment")

// Folder is a directory-like resource container. Multi-segment navigation
// is not part of the interface; it lives in Resolve, built on Child and
// Parent, so every backend navigates the same way.
type Folder interface {
	// Path returns the slash-separated identity of the folder.
	Path() string
	// Parent returns the containing folder, or nil at the root.
	Parent() Folder
	// Read returns the content of the named file directly inside this
	// folder. Missing and unreadable files both report false.
	Read(name string) ([]byte, bool)
	// Child returns the named subfolder.
	Child(name string) (Folder, bool)
}

// Resolve applies ".", ".." and named-child navigation to f, left to right.
// It reports false as soon as a step cannot be taken (a missing child, or
// ".." at the root). Any empty segment is an error, checked before
// navigation starts.
func Resolve(f Folder, segments []string) (Folder, bool, error) {
	for _, seg := range segments {
		if seg == "" {
			return nil, false, ErrEmptySegment
		}
	}
	current := f
	for _, seg := range segments {
		switch seg {
		case ".":
			continue
		case "..":
			current = current.Parent()
			if current == nil {
				return nil, false, nil
			}
		default:
			next, ok := current.Child(seg)
			if !ok {
				return nil, false, nil
			}
			current = next
		}
	}
	return current, true, nil
}

// Root returns the topmost ancestor of f.
func Root(f Folder) Folder {
	for {
		parent := f.Parent()
		if parent == nil {
			return f
		}
		f = parent
	}
}

// Join returns the path of name inside f. An empty name yields the path of f
// itself.
func Join(f Folder, name string) string {
	if name == "" {
		return f.Path()
	}
	return path.Join(f.Path(), name)
}

// validName reports whether name can address a direct child entry.
func validName(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.ContainsAny(name, `/\`)
}
