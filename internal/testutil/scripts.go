// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Shebang starts every script written by WriteScript.
const Shebang = "#!/bin/bash"

// WriteScript writes an executable script named name into dir, creating dir
// when needed, and returns its path. Each line is written as given, so
// annotations are passed as "# @vercel.name Deploy".
func WriteScript(t testing.TB, dir, name string, lines ...string) string {
	t.Helper()
	MustMkdirAll(t, dir)

	content := Shebang + "\n" + strings.Join(lines, "\n") + "\n"
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o755); err != nil {
		t.Fatalf("failed to write script %s: %v", path, err)
	}
	return path
}

// Annotation formats a "# @vercel.<attr> <value>" comment line.
func Annotation(attr, value string) string {
	return "# @vercel." + attr + " " + value
}
