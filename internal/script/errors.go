// SPDX-License-Identifier: MPL-2.0

package script

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDependencyNotFound is the sentinel error wrapped by DependencyNotFoundError.
	ErrDependencyNotFound = errors.New("dependency not found")
	// ErrCircularDependency is the sentinel error wrapped by CircularDependencyError.
	ErrCircularDependency = errors.New("circular dependency")
	// ErrInvalidDependencyPath is the sentinel error wrapped by InvalidDependencyPathError.
	ErrInvalidDependencyPath = errors.New("invalid dependency path")
	// ErrInvalidOption is the sentinel error wrapped by InvalidOptionError.
	ErrInvalidOption = errors.New("invalid script option")
	// ErrDuplicateScript is the sentinel error wrapped by DuplicateScriptError.
	ErrDuplicateScript = errors.New("duplicate script")
)

type (
	// DependencyNotFoundError is returned when a dependency reference matches
	// no discovered script.
	DependencyNotFoundError struct {
		// Ref is the reference as written in the annotation.
		Ref string
		// Script is the name of the script declaring the reference.
		Script string
		// Required is true for @vercel.requires references, false for @vercel.after.
		Required bool
	}

	// CircularDependencyError is returned when the dependency graph has a cycle.
	CircularDependencyError struct {
		// Scripts lists the pathnames that could not be ordered.
		Scripts []string
	}

	// InvalidDependencyPathError is returned at parse time for references that
	// escape the script directory.
	InvalidDependencyPathError struct {
		Ref  string
		Path string
	}

	// DuplicateScriptError is returned when two discovered scripts share a
	// pathname.
	DuplicateScriptError struct {
		Pathname string
	}

	// InvalidOptionError is returned when an @vercel.opt payload cannot be decoded.
	InvalidOptionError struct {
		Payload string
		Path    string
		Err     error
	}
)

// Error implements the error interface.
func (e *DependencyNotFoundError) Error() string {
	kind := "dependency"
	if e.Required {
		kind = "required script"
	}
	return fmt.Sprintf("%s %q not found in any known script directory for script %q", kind, e.Ref, e.Script)
}

// Unwrap returns ErrDependencyNotFound.
func (e *DependencyNotFoundError) Unwrap() error { return ErrDependencyNotFound }

// Error implements the error interface.
func (e *CircularDependencyError) Error() string {
	return fmt.Sprintf("circular dependency between scripts: %s", strings.Join(e.Scripts, ", "))
}

// Unwrap returns ErrCircularDependency.
func (e *CircularDependencyError) Unwrap() error { return ErrCircularDependency }

// Error implements the error interface.
func (e *InvalidDependencyPathError) Error() string {
	return fmt.Sprintf("%s: dependency %q uses parent directory reference which is not allowed", e.Path, e.Ref)
}

// Unwrap returns ErrInvalidDependencyPath.
func (e *InvalidDependencyPathError) Unwrap() error { return ErrInvalidDependencyPath }

// Error implements the error interface.
func (e *InvalidOptionError) Error() string {
	return fmt.Sprintf("%s: invalid option %s: %v", e.Path, e.Payload, e.Err)
}

// Unwrap returns both ErrInvalidOption and the decoding error.
func (e *InvalidOptionError) Unwrap() []error { return []error{ErrInvalidOption, e.Err} }

// Error implements the error interface.
func (e *DuplicateScriptError) Error() string {
	return fmt.Sprintf("script %s was discovered more than once", e.Pathname)
}

// Unwrap returns ErrDuplicateScript.
func (e *DuplicateScriptError) Unwrap() error { return ErrDuplicateScript }
