// SPDX-License-Identifier: MPL-2.0

package config

import (
	"path/filepath"
	"slices"
	"testing"

	"github.com/spf13/pflag"
)

func TestLoadSettings_Defaults(t *testing.T) {
	t.Setenv("VSS_DEBUG", "")
	t.Setenv("VSS_ACCESSIBLE", "")
	t.Setenv("VSS_CACHE_DIR", "")
	t.Setenv("VSS_SCRIPT_DIRS", "")

	s, err := LoadSettings(nil)
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	if s.Debug || s.Accessible || s.CacheDir != "" || len(s.ScriptDirs) != 0 {
		t.Errorf("LoadSettings() = %+v", s)
	}
}

func TestLoadSettings_Environment(t *testing.T) {
	t.Setenv("VSS_DEBUG", "1")
	t.Setenv("VSS_ACCESSIBLE", "true")
	t.Setenv("VSS_CACHE_DIR", "/tmp/vss-cache")
	t.Setenv("VSS_SCRIPT_DIRS", "/a"+string(filepath.ListSeparator)+" "+string(filepath.ListSeparator)+"/b")

	s, err := LoadSettings(nil)
	if err != nil {
		t.Fatal(err)
	}
	if !s.Debug || !s.Accessible || s.CacheDir != "/tmp/vss-cache" {
		t.Errorf("LoadSettings() = %+v", s)
	}
	if !slices.Equal(s.ScriptDirs, []string{"/a", "/b"}) {
		t.Errorf("ScriptDirs = %v", s.ScriptDirs)
	}
}

func TestLoadSettings_FlagsWinOverEnvironment(t *testing.T) {
	t.Setenv("VSS_DEBUG", "")
	t.Setenv("VSS_CACHE_DIR", "/from/env")

	flags := pflag.NewFlagSet("vss", pflag.ContinueOnError)
	flags.BoolP("debug", "d", false, "")
	flags.String("cache-dir", "", "")
	if err := flags.Parse([]string{"-d", "--cache-dir", "/from/flag"}); err != nil {
		t.Fatal(err)
	}

	s, err := LoadSettings(flags)
	if err != nil {
		t.Fatal(err)
	}
	if !s.Debug || s.CacheDir != "/from/flag" {
		t.Errorf("LoadSettings() = %+v", s)
	}
}

func TestLoadSettings_UnchangedFlagFallsBackToEnvironment(t *testing.T) {
	t.Setenv("VSS_CACHE_DIR", "/from/env")

	flags := pflag.NewFlagSet("vss", pflag.ContinueOnError)
	flags.String("cache-dir", "", "")
	s, err := LoadSettings(flags)
	if err != nil {
		t.Fatal(err)
	}
	if s.CacheDir != "/from/env" {
		t.Errorf("CacheDir = %q, want env value", s.CacheDir)
	}
}
