// SPDX-License-Identifier: MPL-2.0

package exports

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/syntax"
)

const (
	// PreEnvFileVar names the file the runtime shim dumps the environment to
	// before the script body runs.
	PreEnvFileVar = "VSS_PRE_ENV_FILE"
	// PostEnvFileVar names the file the runtime shim dumps the environment to
	// after the script body ran.
	PostEnvFileVar = "VSS_POST_ENV_FILE"
)

// assignment is one variable read from an environment dump.
type assignment struct {
	key, value string
}

// DiffSnapshots returns the variables that are new in the post snapshot or
// whose value differs from the pre snapshot. Snapshots are `export -p` dumps
// (`declare -x NAME="value"` or `export NAME=value`) parsed as shell, so
// quoting, escapes and multi-line values are decoded. A missing snapshot file
// counts as empty.
func DiffSnapshots(prePath, postPath string) (map[string]string, error) {
	pre, err := readSnapshot(prePath)
	if err != nil {
		return nil, err
	}
	post, err := readSnapshot(postPath)
	if err != nil {
		return nil, err
	}

	before := make(map[string]string, len(pre))
	for _, a := range pre {
		before[a.key] = a.value
	}

	vars := make(map[string]string)
	for _, a := range post {
		if old, ok := before[a.key]; ok && old == a.value {
			continue
		}
		vars[a.key] = a.value
	}
	return vars, nil
}

// ParseAssignment parses one environment dump line such as
// `declare -x NAME="value"` or `export NAME=value` and returns the first
// variable it assigns, with shell quoting removed.
func ParseAssignment(line string) (key, value string, ok bool) {
	assigns, err := parseSnapshot(strings.NewReader(line), "")
	if err != nil || len(assigns) == 0 {
		return "", "", false
	}
	return assigns[0].key, assigns[0].value, true
}

func readSnapshot(path string) ([]assignment, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot %s: %w", path, err)
	}
	defer f.Close()

	assigns, err := parseSnapshot(f, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", path, err)
	}
	return assigns, nil
}

// parseSnapshot collects the valued assignments of every `declare` or
// `export` command in r. Flags, bare names and arrays are skipped.
func parseSnapshot(r io.Reader, name string) ([]assignment, error) {
	file, err := syntax.NewParser(syntax.Variant(syntax.LangBash)).Parse(r, name)
	if err != nil {
		return nil, err
	}

	cfg := &expand.Config{}
	var assigns []assignment
	for _, stmt := range file.Stmts {
		decl, ok := stmt.Cmd.(*syntax.DeclClause)
		if !ok {
			continue
		}
		if v := decl.Variant.Value; v != "declare" && v != "export" {
			continue
		}
		for _, as := range decl.Args {
			if as.Name == nil || as.Naked || as.Array != nil {
				continue
			}
			var value string
			if as.Value != nil {
				if value, err = expand.Literal(cfg, as.Value); err != nil {
					return nil, fmt.Errorf("variable %s: %w", as.Name.Value, err)
				}
			}
			assigns = append(assigns, assignment{key: as.Name.Value, value: value})
		}
	}
	return assigns, nil
}
