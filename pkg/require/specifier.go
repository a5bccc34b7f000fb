package require

import (
	"strings"

	"github.com/stackb/cjs/pkg/folder"
)

// specifier is a parsed require argument.
type specifier struct {
	raw string
	// segments are the directory steps preceding name.
	segments []string
	// name is the final element. Empty when the specifier names a
	// directory itself ("." or "..").
	name string
	// explicit specifiers are resolved only against the requester's
	// folder (or the root, when absolute).
	explicit bool
	absolute bool
}

func parseSpecifier(raw string) (*specifier, error) {
	if raw == "" {
		return nil, &InvalidSpecifierError{Specifier: raw, Err: folder.ErrEmptySegment}
	}

	s := &specifier{raw: raw}
	body := raw
	if strings.HasPrefix(raw, "/") {
		s.absolute = true
		s.explicit = true
		body = raw[1:]
	} else if raw == "." || raw == ".." || strings.HasPrefix(raw, "./") || strings.HasPrefix(raw, "../") {
		s.explicit = true
	}

	parts := strings.Split(body, "/")
	last := parts[len(parts)-1]
	switch last {
	case "":
		// trailing separator, or a bare "/"
		return nil, &InvalidSpecifierError{Specifier: raw, Err: folder.ErrEmptySegment}
	case ".", "..":
		s.segments = parts
	default:
		s.segments = parts[:len(parts)-1]
		s.name = last
	}
	return s, nil
}

func (s *specifier) String() string {
	return s.raw
}
