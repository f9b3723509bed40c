// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"strings"
	"testing"
)

func TestGetVersionString(t *testing.T) {
	// Mutates package-level build info.
	orig := Version
	t.Cleanup(func() { Version = orig })

	Version = "dev"
	if got := getVersionString(); got != "dev (built from source)" {
		t.Errorf("getVersionString() = %q", got)
	}

	Version = "1.2.3"
	if got := getVersionString(); !strings.HasPrefix(got, "1.2.3 (commit: ") {
		t.Errorf("getVersionString() = %q", got)
	}
}

func TestRootCommand_Subcommands(t *testing.T) {
	t.Parallel()
	root := NewRootCommand(NewApp(Dependencies{}))

	for _, name := range []string{"add-script-dir", "remove-script-dir", "list-script-dirs", "list-scripts", "new", "completion"} {
		if c, _, err := root.Find([]string{name}); err != nil || c.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	for _, flag := range []string{"debug", "accessible", "cache-dir"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("persistent flag --%s missing", flag)
		}
	}
	for _, flag := range []string{"replay", "watch"} {
		if root.Flags().Lookup(flag) == nil {
			t.Errorf("flag --%s missing", flag)
		}
	}
}
