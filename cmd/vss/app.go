// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"

	"vss-cli/internal/config"
	"vss-cli/internal/issue"
	"vss-cli/internal/script"
	"vss-cli/internal/stage"
	"vss-cli/internal/tui"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
)

type (
	// Prompts is the interactive surface the commands depend on.
	// *tui.Prompter implements it; tests supply scripted answers.
	Prompts interface {
		SelectScripts(plan *script.Plan, defaults []string) ([]string, error)
		CollectInputs(ctx context.Context, scripts []script.Descriptor, args, opts map[string]any) error
		Input(title, description, initial string, validate func(string) error) (string, error)
		Confirm(title string, initial bool) (bool, error)
		SelectString(title string, options []string) (string, error)
		MultiSelect(title string, options []string, validate func([]string) error) ([]string, error)
	}

	// Dependencies are the injection points of an App. Zero fields are
	// replaced with production defaults when the command starts.
	Dependencies struct {
		ConfigOptions config.LoadOptions
		// Embedded replaces the built-in scripts when non-nil.
		Embedded fs.FS
		Prompts  Prompts
		Environ  func() []string
		Stdout   io.Writer
		Stderr   io.Writer
		Stdin    io.Reader
	}

	// App is the composition root shared by every command handler.
	App struct {
		deps Dependencies

		Settings   config.Settings
		Config     *config.Config
		Discoverer *script.Discoverer
		Prompts    Prompts
		Logger     *log.Logger

		stdout io.Writer
		stderr io.Writer
		stdin  io.Reader
	}
)

// NewApp returns an App that is initialized by init once flags are parsed.
func NewApp(deps Dependencies) *App {
	app := &App{deps: deps, stdout: deps.Stdout, stderr: deps.Stderr, stdin: deps.Stdin}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	if app.stdin == nil {
		app.stdin = os.Stdin
	}
	return app
}

// init resolves settings from flags and the environment and builds the
// services. It runs before every command.
func (a *App) init(flags *pflag.FlagSet) error {
	settings, err := config.LoadSettings(flags)
	if err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}
	a.Settings = settings

	a.Logger = log.NewWithOptions(a.stderr, log.Options{Prefix: "vss"})
	if settings.Debug {
		a.Logger.SetLevel(log.DebugLevel)
	} else {
		a.Logger.SetLevel(log.WarnLevel)
	}

	opts := a.deps.ConfigOptions
	if opts.Logger == nil {
		opts.Logger = a.Logger
	}
	if a.Config, err = config.Load(opts); err != nil {
		return fmt.Errorf("%w: %w", errConfigLoad, err)
	}

	a.Discoverer = script.NewDiscoverer(a.Logger)
	if a.deps.Embedded != nil {
		a.Discoverer.Embedded = a.deps.Embedded
	}

	a.Prompts = a.deps.Prompts
	if a.Prompts == nil {
		a.Prompts = tui.NewPrompter(settings.Accessible, a.Logger)
	}
	return nil
}

// scriptDirs returns the configured directories followed by those from
// VSS_SCRIPT_DIRS, each canonical directory once.
func (a *App) scriptDirs() ([]string, error) {
	global, err := a.Config.Global.Get()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errConfigLoad, err)
	}
	var dirs []string
	seen := make(map[string]struct{})
	for _, dir := range append(global.ScriptDirs, a.Settings.ScriptDirs...) {
		canonical, err := script.CanonicalPath(dir)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[canonical]; dup {
			continue
		}
		seen[canonical] = struct{}{}
		dirs = append(dirs, canonical)
	}
	return dirs, nil
}

// newStager returns a Stager in the configured cache directory.
func (a *App) newStager() (*stage.Stager, error) {
	if a.Settings.CacheDir != "" {
		return &stage.Stager{Dir: a.Settings.CacheDir, Source: a.Discoverer, Logger: a.Logger}, nil
	}
	return stage.New(a.Discoverer, a.Logger)
}

func (a *App) environ() []string {
	if a.deps.Environ != nil {
		return a.deps.Environ()
	}
	return os.Environ()
}

// printNoScripts prints the guidance shown when discovery finds nothing.
func (a *App) printNoScripts() {
	fmt.Fprintln(a.stdout, WarningStyle.Render("Warning:")+" No scripts found.")
	if entry := issue.Get(issue.NoScriptsFoundId); entry != nil {
		if rendered, err := entry.Render("dark"); err == nil {
			fmt.Fprint(a.stdout, rendered)
			return
		}
	}
	fmt.Fprintln(a.stdout)
	fmt.Fprintf(a.stdout, "  Use %s to add a directory with scripts\n", CmdStyle.Render("vss add-script-dir <directory>"))
}
