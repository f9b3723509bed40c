// SPDX-License-Identifier: MPL-2.0

package config

import (
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read into Settings.
const EnvPrefix = "VSS"

// Settings are per-invocation options that are never persisted.
type Settings struct {
	// Debug enables debug logging and VSS_DEBUG=1 for scripts.
	Debug bool
	// Accessible switches prompts to plain line-based input.
	Accessible bool
	// CacheDir overrides the staging directory.
	CacheDir string
	// ScriptDirs are searched after the configured directories.
	ScriptDirs []string
}

// LoadSettings resolves Settings from flags, then VSS_* environment
// variables, then defaults. flags may be nil.
func LoadSettings(flags *pflag.FlagSet) (Settings, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("debug", false)
	v.SetDefault("accessible", false)
	v.SetDefault("cache-dir", "")
	v.SetDefault("script-dirs", "")

	if flags != nil {
		for _, name := range []string{"debug", "accessible", "cache-dir"} {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(name, f); err != nil {
					return Settings{}, err
				}
			}
		}
	}

	return Settings{
		Debug:      v.GetBool("debug"),
		Accessible: v.GetBool("accessible"),
		CacheDir:   v.GetString("cache-dir"),
		ScriptDirs: splitDirs(v.GetString("script-dirs")),
	}, nil
}

func splitDirs(s string) []string {
	var dirs []string
	for _, d := range filepath.SplitList(s) {
		if d = strings.TrimSpace(d); d != "" {
			dirs = append(dirs, d)
		}
	}
	return dirs
}
