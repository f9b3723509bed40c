// SPDX-License-Identifier: MPL-2.0

package config

import (
	_ "embed"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/charmbracelet/log"
)

const (
	// GlobalFileName is the global document, stored in the home directory.
	GlobalFileName = ".vss.json"
	// AppFileName is the per-project document, stored in the working directory.
	AppFileName = ".vss-app.json"
)

//go:embed config_schema.cue
var configSchema string

type (
	// Global is the content of the global document.
	Global struct {
		// Args maps argument names to their last entered values.
		Args map[string]any `json:"args"`
		// ScriptDirs lists external script directories in search order.
		ScriptDirs []string `json:"scriptDirs"`
		// LastChecked is a unix timestamp kept for compatibility.
		LastChecked *int64 `json:"lastChecked"`
	}

	// App is the content of the per-project document.
	App struct {
		// Selected holds the pathnames of the last selected scripts.
		Selected []string `json:"selected"`
		// Opts maps option names to their last values.
		Opts map[string]any `json:"opts"`
	}

	// LoadOptions overrides the document locations.
	LoadOptions struct {
		// HomeDir replaces the user home directory when set.
		HomeDir string
		// WorkDir replaces the working directory when set.
		WorkDir string
		// Logger receives debug output. A nil value discards it.
		Logger *log.Logger
	}

	// Config bundles both documents.
	Config struct {
		Global *Store[Global]
		App    *Store[App]
	}
)

// Load locates both documents. Nothing is read until first access.
func Load(opts LoadOptions) (*Config, error) {
	home := opts.HomeDir
	if home == "" {
		h, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		home = h
	}
	work := opts.WorkDir
	if work == "" {
		w, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		work = w
	}

	return &Config{
		Global: NewStore[Global](filepath.Join(home, GlobalFileName), "#Global", opts.Logger),
		App:    NewStore[App](filepath.Join(work, AppFileName), "#App", opts.Logger),
	}, nil
}

// Clone returns a deep copy with non-nil collections.
func (g Global) Clone() Global {
	c := Global{
		Args:       cloneValues(g.Args),
		ScriptDirs: slices.Clone(g.ScriptDirs),
	}
	if c.ScriptDirs == nil {
		c.ScriptDirs = []string{}
	}
	if g.LastChecked != nil {
		v := *g.LastChecked
		c.LastChecked = &v
	}
	return c
}

// HasScriptDir reports whether dir is already configured.
func (g Global) HasScriptDir(dir string) bool {
	return slices.Contains(g.ScriptDirs, dir)
}

// RemoveScriptDir deletes dir from the configured directories and reports
// whether it was present.
func (g *Global) RemoveScriptDir(dir string) bool {
	n := len(g.ScriptDirs)
	g.ScriptDirs = slices.DeleteFunc(g.ScriptDirs, func(d string) bool { return d == dir })
	return len(g.ScriptDirs) != n
}

// Clone returns a deep copy with non-nil collections.
func (a App) Clone() App {
	c := App{
		Selected: slices.Clone(a.Selected),
		Opts:     cloneValues(a.Opts),
	}
	if c.Selected == nil {
		c.Selected = []string{}
	}
	return c
}

func cloneValues(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return maps.Clone(m)
}
