// SPDX-License-Identifier: MPL-2.0

package script

import (
	"fmt"
	"path/filepath"
)

// Extension is the file extension of discoverable scripts.
const Extension = ".sh"

// embeddedRoot prefixes the synthetic AbsolutePath of embedded scripts.
const embeddedRoot = "<embedded>"

// Key kinds.
const (
	// KeyEmbedded identifies a script shipped inside the binary by its filename.
	KeyEmbedded KeyKind = iota
	// KeyExternal identifies a script in a configured directory by its canonical path.
	KeyExternal
)

// Stdin modes.
const (
	// StdinCapture pipes stdout and stderr through the engine (zero value).
	StdinCapture StdinMode = ""
	// StdinInherit connects all three streams to the controlling terminal.
	StdinInherit StdinMode = "inherit"
)

type (
	// KeyKind distinguishes embedded from external script identities.
	KeyKind int

	// Key is the normalized identity of a script. Embedded and external
	// scripts never collide even when an external script shares a filename
	// with an embedded one.
	Key struct {
		Kind KeyKind
		Name string
	}

	// StdinMode selects how the script's standard streams are wired.
	StdinMode string

	// Arg is a declared script argument. Argument values are shared across
	// projects and stored in the global config.
	Arg struct {
		Name        string
		Description string
	}

	// Requirement is a data dependency: Script must run first and must export
	// every name in Variables.
	Requirement struct {
		Script    string
		Variables []string
	}

	// Descriptor is the parsed, immutable metadata of one script.
	Descriptor struct {
		// Name is the display label.
		Name string
		// Description is optional free text.
		Description string
		// Pathname is the stable identifier: the bare filename for embedded
		// scripts, the canonical absolute path for external ones.
		Pathname string
		// AbsolutePath is the file location; synthetic for embedded scripts.
		AbsolutePath string
		// Embedded reports whether the script ships inside the binary.
		Embedded bool
		// After lists ordering-only dependency references.
		After []string
		// Requires lists data dependencies.
		Requires []Requirement
		Args     []Arg
		Opts     []Opt
		Stdin    StdinMode
	}
)

func (k Key) String() string {
	if k.Kind == KeyEmbedded {
		return "embedded:" + k.Name
	}
	return k.Name
}

// Key returns the normalized identity of the descriptor.
func (d Descriptor) Key() Key {
	if d.Embedded {
		return Key{Kind: KeyEmbedded, Name: d.Pathname}
	}
	return Key{Kind: KeyExternal, Name: d.Pathname}
}

// Label is the short identity used to prefix output lines.
func (d Descriptor) Label() string {
	return filepath.Base(d.Pathname)
}

// Dir returns the directory containing an external script, or "" for
// embedded scripts.
func (d Descriptor) Dir() string {
	if d.Embedded {
		return ""
	}
	return filepath.Dir(d.AbsolutePath)
}

// InheritsStdio reports whether the script runs attached to the terminal.
func (d Descriptor) InheritsStdio() bool {
	return d.Stdin == StdinInherit
}

// String renders the descriptor as shown in selection prompts.
func (d Descriptor) String() string {
	return fmt.Sprintf("%s (%s)", d.Name, d.Label())
}
