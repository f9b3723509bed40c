// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"vss-cli/internal/script"

	"github.com/spf13/cobra"
)

var errNoScriptDirs = errors.New("no script directories configured, add one with 'vss add-script-dir <path>'")

// scriptShells are the interpreters offered for new scripts.
var scriptShells = []string{"zsh", "bash"}

func newNewScriptCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "new",
		Short: "Create a new script with guided prompts",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return ignoreInterrupt(app.newScript())
		},
	}
}

func (a *App) newScript() error {
	global, err := a.Config.Global.Get()
	if err != nil {
		return fmt.Errorf("%w: %w", errConfigLoad, err)
	}
	if len(global.ScriptDirs) == 0 {
		return errNoScriptDirs
	}

	fmt.Fprintln(a.stdout, TitleStyle.Render("Creating a new script..."))
	fmt.Fprintln(a.stdout)

	targetDir := global.ScriptDirs[0]
	if len(global.ScriptDirs) > 1 {
		if targetDir, err = a.Prompts.SelectString("Select target script directory", global.ScriptDirs); err != nil {
			return err
		}
	}

	base, err := a.Prompts.Input("Script filename (without .sh extension):", "", "", validateFilename(targetDir))
	if err != nil {
		return err
	}
	filename := base + script.Extension

	var s scaffold
	if s.Name, err = a.Prompts.Input("Script name:", "", defaultScriptName(filename), validateNonEmpty); err != nil {
		return err
	}
	if s.Description, err = a.Prompts.Input("Description (optional):", "", "", nil); err != nil {
		return err
	}
	s.Description = strings.TrimSpace(s.Description)
	if s.Shell, err = a.Prompts.SelectString("Shell type:", scriptShells); err != nil {
		return err
	}

	existing, err := a.Discoverer.Discover(global.ScriptDirs)
	if err != nil {
		return err
	}
	refs := make([]string, len(existing))
	for i, d := range existing {
		refs[i] = refFor(d, targetDir)
	}

	if s.After, err = a.askDependencies(refs); err != nil {
		return err
	}
	if s.Requires, err = a.askRequirements(refs); err != nil {
		return err
	}
	if s.Args, err = a.askArgs(); err != nil {
		return err
	}
	if s.Opts, err = a.askOpts(s.Args); err != nil {
		return err
	}
	if s.InheritStdin, err = a.Prompts.Confirm("Inherit the terminal's stdin (@vercel.stdin inherit)?", false); err != nil {
		return err
	}
	if s.Exports, err = a.askExports(); err != nil {
		return err
	}

	content, err := s.Render()
	if err != nil {
		return err
	}
	path := filepath.Join(targetDir, filename)
	if err := os.WriteFile(path, content, 0o755); err != nil {
		return fmt.Errorf("failed to write script: %w", err)
	}
	// WriteFile keeps the mode of an existing file and honors the umask.
	if err := os.Chmod(path, 0o755); err != nil {
		return fmt.Errorf("failed to set script permissions: %w", err)
	}

	fmt.Fprintln(a.stdout)
	fmt.Fprintf(a.stdout, "%s Created script: %s\n", SuccessStyle.Render("Success:"), path)
	fmt.Fprintf(a.stdout, "  Name: %s\n", CmdStyle.Render(s.Name))
	if s.Description != "" {
		fmt.Fprintf(a.stdout, "  Description: %s\n", s.Description)
	}
	if len(s.After) > 0 {
		fmt.Fprintf(a.stdout, "  Dependencies: %s\n", SubtitleStyle.Render(strings.Join(s.After, ", ")))
	}
	if len(s.Args) > 0 {
		fmt.Fprintf(a.stdout, "  Arguments: %d\n", len(s.Args))
	}
	if len(s.Opts) > 0 {
		fmt.Fprintf(a.stdout, "  Options: %d\n", len(s.Opts))
	}
	return nil
}

func (a *App) askDependencies(refs []string) ([]string, error) {
	if len(refs) == 0 {
		return nil, nil
	}
	ok, err := a.Prompts.Confirm("Add script dependencies (@vercel.after)?", false)
	if err != nil || !ok {
		return nil, err
	}
	return a.Prompts.MultiSelect("Select scripts that must run before this one:", refs, nil)
}

func (a *App) askRequirements(refs []string) ([]script.Requirement, error) {
	if len(refs) == 0 {
		return nil, nil
	}
	ok, err := a.Prompts.Confirm("Add script requirements (@vercel.requires)?", false)
	if err != nil || !ok {
		return nil, err
	}

	var reqs []script.Requirement
	for {
		ref, err := a.Prompts.SelectString("Select required script:", refs)
		if err != nil {
			return nil, err
		}
		vars, err := a.Prompts.Input("Required variables (space-separated):", "", "", validateNonEmpty)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, script.Requirement{Script: ref, Variables: strings.Fields(vars)})

		if more, err := a.Prompts.Confirm("Add another requirement?", false); err != nil || !more {
			return reqs, err
		}
	}
}

func (a *App) askArgs() ([]script.Arg, error) {
	ok, err := a.Prompts.Confirm("Add script arguments (@vercel.arg)?", false)
	if err != nil || !ok {
		return nil, err
	}

	var args []script.Arg
	for {
		name, err := a.Prompts.Input("Argument name (environment variable):", "", "", validateIdentifier)
		if err != nil {
			return nil, err
		}
		description, err := a.Prompts.Input("Argument description:", "", "", validateNonEmpty)
		if err != nil {
			return nil, err
		}
		args = append(args, script.Arg{Name: name, Description: description})

		if more, err := a.Prompts.Confirm("Add another argument?", false); err != nil || !more {
			return args, err
		}
	}
}

func (a *App) askOpts(args []script.Arg) ([]script.Opt, error) {
	ok, err := a.Prompts.Confirm("Add script options (@vercel.opt)?", false)
	if err != nil || !ok {
		return nil, err
	}

	kinds := []string{string(script.OptBoolean), string(script.OptString)}
	if len(args) > 0 {
		kinds = append(kinds, string(script.OptWorktree))
	}

	var opts []script.Opt
	for {
		opt, err := a.askOpt(kinds, args)
		if err != nil {
			return nil, err
		}
		opts = append(opts, opt)

		if more, err := a.Prompts.Confirm("Add another option?", false); err != nil || !more {
			return opts, err
		}
	}
}

func (a *App) askOpt(kinds []string, args []script.Arg) (script.Opt, error) {
	kind, err := a.Prompts.SelectString("Option type:", kinds)
	if err != nil {
		return nil, err
	}

	var info script.OptInfo
	if info.Name, err = a.Prompts.Input("Option name (environment variable):", "", "", validateIdentifier); err != nil {
		return nil, err
	}
	if info.Description, err = a.Prompts.Input("Option description:", "", "", validateNonEmpty); err != nil {
		return nil, err
	}
	if info.Optional, err = a.Prompts.Confirm("Is this option optional?", true); err != nil {
		return nil, err
	}

	switch script.OptKind(kind) {
	case script.OptBoolean:
		opt := script.BoolOpt{OptInfo: info}
		if set, err := a.Prompts.Confirm("Set a default value?", false); err != nil {
			return nil, err
		} else if set {
			v, err := a.Prompts.Confirm("Default value:", false)
			if err != nil {
				return nil, err
			}
			opt.Default = &v
		}
		return opt, nil

	case script.OptString:
		opt := script.StringOpt{OptInfo: info}
		if set, err := a.Prompts.Confirm("Set a default value?", false); err != nil {
			return nil, err
		} else if set {
			v, err := a.Prompts.Input("Default value:", "", "", nil)
			if err != nil {
				return nil, err
			}
			if v != "" {
				opt.Default = &v
			}
		}
		if withPattern, err := a.Prompts.Confirm("Add validation pattern (regex)?", false); err != nil {
			return nil, err
		} else if withPattern {
			if opt.Pattern, err = a.Prompts.Input("Validation pattern (regex):", "", "", validateRegexp); err != nil {
				return nil, err
			}
			if opt.PatternHelp, err = a.Prompts.Input("Pattern help text (optional):", "", "", nil); err != nil {
				return nil, err
			}
		}
		return opt, nil

	default:
		names := make([]string, len(args))
		for i, arg := range args {
			names[i] = arg.Name
		}
		base, err := a.Prompts.SelectString("Select base directory argument:", names)
		if err != nil {
			return nil, err
		}
		return script.WorktreeOpt{OptInfo: info, BaseDirArg: base}, nil
	}
}

func (a *App) askExports() ([]string, error) {
	ok, err := a.Prompts.Confirm("Export variables for later scripts?", false)
	if err != nil || !ok {
		return nil, err
	}
	names, err := a.Prompts.Input("Exported variables (space-separated):", "", "", func(s string) error {
		fields := strings.Fields(s)
		if len(fields) == 0 {
			return errEmptyValue
		}
		if i := slices.IndexFunc(fields, func(f string) bool { return validateIdentifier(f) != nil }); i >= 0 {
			return fmt.Errorf("%s: %w", fields[i], errInvalidIdentifier)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return strings.Fields(names), nil
}
