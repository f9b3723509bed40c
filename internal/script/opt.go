// SPDX-License-Identifier: MPL-2.0

package script

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Option kinds as they appear in the "type" field of an @vercel.opt annotation.
const (
	OptBoolean  OptKind = "boolean"
	OptString   OptKind = "string"
	OptWorktree OptKind = "worktree"
)

// ErrInvalidOptKind is the sentinel error wrapped by InvalidOptKindError.
var ErrInvalidOptKind = errors.New("invalid option kind")

type (
	// OptKind is the discriminator of the Opt sum type.
	OptKind string

	// InvalidOptKindError is returned when an option declares an unknown kind.
	InvalidOptKindError struct {
		Value OptKind
	}

	// Opt is a declared script option. It is a closed sum type: the only
	// implementations are BoolOpt, StringOpt and WorktreeOpt.
	Opt interface {
		Kind() OptKind
		Info() OptInfo
		isOpt()
	}

	// OptInfo holds the fields shared by every option kind.
	OptInfo struct {
		Name        string
		Description string
		Optional    bool
	}

	// BoolOpt is a yes/no option.
	BoolOpt struct {
		OptInfo
		Default *bool
	}

	// StringOpt is a free-text option, optionally validated by a regular expression.
	StringOpt struct {
		OptInfo
		Default     *string
		Pattern     string
		PatternHelp string
	}

	// WorktreeOpt picks a git worktree of the directory stored in the
	// argument named BaseDirArg.
	WorktreeOpt struct {
		OptInfo
		BaseDirArg string
		Default    *string
	}

	// optWire is the JSON shape of an option annotation.
	optWire struct {
		Type           OptKind `json:"type"`
		Name           string  `json:"name"`
		Description    string  `json:"description"`
		Optional       bool    `json:"optional,omitempty"`
		Default        any     `json:"default,omitempty"`
		Pattern        string  `json:"pattern,omitempty"`
		PatternHelp    string  `json:"pattern_help,omitempty"`
		BaseDirArg     string  `json:"base_dir_arg,omitempty"`
		BaseDirArgAlt  string  `json:"baseDirArg,omitempty"`
		PatternHelpAlt string  `json:"patternHelp,omitempty"`
	}
)

// Error implements the error interface.
func (e *InvalidOptKindError) Error() string {
	return fmt.Sprintf("invalid option kind %q (valid: boolean, string, worktree)", e.Value)
}

// Unwrap returns ErrInvalidOptKind so callers can use errors.Is for programmatic detection.
func (e *InvalidOptKindError) Unwrap() error { return ErrInvalidOptKind }

// IsValid returns whether the OptKind is one of the defined kinds,
// and a list of validation errors if it is not.
func (k OptKind) IsValid() (bool, []error) {
	switch k {
	case OptBoolean, OptString, OptWorktree:
		return true, nil
	default:
		return false, []error{&InvalidOptKindError{Value: k}}
	}
}

// Info returns the shared option fields.
func (i OptInfo) Info() OptInfo { return i }

// Kind returns OptBoolean.
func (BoolOpt) Kind() OptKind { return OptBoolean }

// Kind returns OptString.
func (StringOpt) Kind() OptKind { return OptString }

// Kind returns OptWorktree.
func (WorktreeOpt) Kind() OptKind { return OptWorktree }

func (BoolOpt) isOpt()     {}
func (StringOpt) isOpt()   {}
func (WorktreeOpt) isOpt() {}

// ParseOpt decodes the JSON payload of an @vercel.opt annotation.
func ParseOpt(data []byte) (Opt, error) {
	var w optWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err
	}
	if ok, errs := w.Type.IsValid(); !ok {
		return nil, errors.Join(errs...)
	}
	if w.Name == "" {
		return nil, errors.New("option has no name")
	}

	info := OptInfo{Name: w.Name, Description: w.Description, Optional: w.Optional}
	switch w.Type {
	case OptBoolean:
		o := BoolOpt{OptInfo: info}
		if w.Default != nil {
			b, ok := w.Default.(bool)
			if !ok {
				return nil, fmt.Errorf("option %q: default must be a boolean", w.Name)
			}
			o.Default = &b
		}
		return o, nil
	case OptString:
		o := StringOpt{OptInfo: info, Pattern: w.Pattern, PatternHelp: w.PatternHelp}
		if o.PatternHelp == "" {
			o.PatternHelp = w.PatternHelpAlt
		}
		def, err := stringDefault(w)
		if err != nil {
			return nil, err
		}
		o.Default = def
		return o, nil
	default:
		o := WorktreeOpt{OptInfo: info, BaseDirArg: w.BaseDirArg}
		if o.BaseDirArg == "" {
			o.BaseDirArg = w.BaseDirArgAlt
		}
		if o.BaseDirArg == "" {
			return nil, fmt.Errorf("option %q: worktree options need base_dir_arg", w.Name)
		}
		def, err := stringDefault(w)
		if err != nil {
			return nil, err
		}
		o.Default = def
		return o, nil
	}
}

func stringDefault(w optWire) (*string, error) {
	if w.Default == nil {
		return nil, nil
	}
	s, ok := w.Default.(string)
	if !ok {
		return nil, fmt.Errorf("option %q: default must be a string", w.Name)
	}
	return &s, nil
}

// MarshalOpt encodes an option in the @vercel.opt annotation format.
func MarshalOpt(o Opt) ([]byte, error) {
	info := o.Info()
	w := optWire{Type: o.Kind(), Name: info.Name, Description: info.Description, Optional: info.Optional}
	switch v := o.(type) {
	case BoolOpt:
		if v.Default != nil {
			w.Default = *v.Default
		}
	case StringOpt:
		w.Pattern = v.Pattern
		w.PatternHelp = v.PatternHelp
		if v.Default != nil {
			w.Default = *v.Default
		}
	case WorktreeOpt:
		w.BaseDirArg = v.BaseDirArg
		if v.Default != nil {
			w.Default = *v.Default
		}
	}
	return json.Marshal(w)
}
