// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"vss-cli/internal/exports"
	"vss-cli/internal/script"
)

const (
	// DebugEnvVar is set to "1" for every script when debug output is on.
	DebugEnvVar = "VSS_DEBUG"
	// DefaultShell is exported as SHELL when the parent has none.
	DefaultShell = "/bin/zsh"
)

type (
	// Inputs are the user-supplied values for declared args and opts.
	// Values are JSON-shaped: strings, booleans, numbers or nil.
	Inputs struct {
		Args map[string]any
		Opts map[string]any
	}

	// ExportMap holds the variables exported by each executed script, keyed
	// by script pathname.
	ExportMap map[string]map[string]string

	// envVar is a variable shown in the "Running" banner.
	envVar struct {
		Name  string
		Value string
		// From is the requirement reference for required variables.
		From string
	}
)

// Record stores the exports of the script with the given pathname.
func (m ExportMap) Record(pathname string, vars map[string]string) {
	m[pathname] = maps.Clone(vars)
}

// Lookup returns the value exported by pathname under name.
func (m ExportMap) Lookup(pathname, name string) (string, bool) {
	vars, ok := m[pathname]
	if !ok {
		return "", false
	}
	v, ok := vars[name]
	return v, ok
}

// buildEnv returns the variables a script runs with on top of the host
// environment, along with the subset shown to the user. A required variable
// that its dependency did not export yields *MissingExportError; all such
// errors are joined.
func buildEnv(d script.Descriptor, deps []script.Dependency, in Inputs, exported ExportMap, debug bool) (map[string]string, []envVar, error) {
	env := make(map[string]string)
	var shown []envVar

	if debug {
		env[DebugEnvVar] = "1"
	}

	for _, arg := range d.Args {
		value, ok := stringify(in.Args[arg.Name])
		if !ok {
			continue
		}
		env[arg.Name] = value
		shown = append(shown, envVar{Name: arg.Name, Value: value})
	}

	for _, opt := range d.Opts {
		name := opt.Info().Name
		value, ok := stringify(in.Opts[name])
		if !ok {
			continue
		}
		env[name] = value
		shown = append(shown, envVar{Name: name, Value: value})
	}

	var errs []error
	for _, dep := range deps {
		var missing []string
		for _, name := range dep.Variables {
			value, ok := exported.Lookup(dep.Pathname, name)
			if !ok {
				missing = append(missing, name)
				continue
			}
			env[name] = value
			shown = append(shown, envVar{Name: name, Value: value, From: dep.Ref})
		}
		if len(missing) > 0 {
			errs = append(errs, &MissingExportError{Script: d.Name, Dependency: dep.Ref, Variables: missing})
		}
	}
	if len(errs) > 0 {
		return nil, nil, errors.Join(errs...)
	}

	return env, shown, nil
}

// stringify renders a JSON-shaped value as an environment value. Nil and
// absent values report false.
func stringify(v any) (string, bool) {
	switch v := v.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case bool:
		return strconv.FormatBool(v), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case json.Number:
		return v.String(), true
	case fmt.Stringer:
		return v.String(), true
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v), true
		}
		return string(data), true
	}
}

// envToSlice converts an environment map to sorted KEY=VALUE strings.
func envToSlice(env map[string]string) []string {
	result := make([]string, 0, len(env))
	for _, k := range slices.Sorted(maps.Keys(env)) {
		result = append(result, k+"="+env[k])
	}
	return result
}

// filterVssEnvVars drops variables the engine owns from a host environment so
// nested runs do not inherit a parent's snapshot files or debug flag.
func filterVssEnvVars(environ []string) []string {
	return slices.DeleteFunc(slices.Clone(environ), func(kv string) bool {
		name, _, _ := strings.Cut(kv, "=")
		switch name {
		case exports.PreEnvFileVar, exports.PostEnvFileVar, DebugEnvVar:
			return true
		}
		return false
	})
}
