// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingExport is the sentinel error wrapped by MissingExportError.
	ErrMissingExport = errors.New("required variable not exported")
	// ErrScriptFailed is the sentinel error wrapped by ScriptFailedError.
	ErrScriptFailed = errors.New("script failed")
)

type (
	// MissingExportError reports required variables that a dependency did
	// not export. It is detected before the dependent script is spawned.
	MissingExportError struct {
		// Script is the name of the script that declared the requirement.
		Script string
		// Dependency is the requirement reference as written.
		Dependency string
		// Variables are the missing names.
		Variables []string
	}

	// ScriptFailedError reports a script that exited with a non-zero status.
	ScriptFailedError struct {
		Script   string
		ExitCode ExitCode
	}
)

func (e *MissingExportError) Error() string {
	return fmt.Sprintf("script '%s' requires %s from '%s', but it was not exported",
		e.Script, strings.Join(e.Variables, ", "), e.Dependency)
}

// Unwrap returns ErrMissingExport for errors.Is.
func (e *MissingExportError) Unwrap() error { return ErrMissingExport }

func (e *ScriptFailedError) Error() string {
	return fmt.Sprintf("script %s failed with exit code %s", e.Script, e.ExitCode)
}

// Unwrap returns ErrScriptFailed for errors.Is.
func (e *ScriptFailedError) Unwrap() error { return ErrScriptFailed }
