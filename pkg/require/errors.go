package require

import (
	"errors"
	"fmt"
)

// ErrModuleNotFound is matched (with errors.Is) by every
// *ModuleNotFoundError.
var ErrModuleNotFound = errors.New("module not found")

// ModuleNotFoundError reports a specifier that no search step resolved.
type ModuleNotFoundError struct {
	// Specifier is the string passed to require, not an expanded candidate
	// path.
	Specifier string
	// From is the id of the requiring module.
	From string
}

func (e *ModuleNotFoundError) Error() string {
	if e.From == "" {
		return fmt.Sprintf("cannot find module %q", e.Specifier)
	}
	return fmt.Sprintf("cannot find module %q (required from %s)", e.Specifier, e.From)
}

func (e *ModuleNotFoundError) Is(target error) bool {
	return target == ErrModuleNotFound
}

// InvalidSpecifierError reports a specifier that cannot be navigated, such as
// one containing an empty path segment.
type InvalidSpecifierError struct {
	Specifier string
	Err       error
}

func (e *InvalidSpecifierError) Error() string {
	return fmt.Sprintf("invalid module specifier %q: %v", e.Specifier, e.Err)
}

func (e *InvalidSpecifierError) Unwrap() error {
	return e.Err
}

// CompileError reports a script unit that failed to execute or a data unit
// that failed to parse. Err is the engine's error, unchanged.
//
// A dependency that cannot be found while a unit runs surfaces wrapped in
// the CompileError of the requiring file, so errors.Is(err,
// ErrModuleNotFound) holds for both a missing module and a missing
// dependency. Use errors.As with *CompileError first to tell them apart: a
// module that is itself missing is reported as a bare *ModuleNotFoundError.
type CompileError struct {
	Filename string
	Err      error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Filename, e.Err)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}
