// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"

	"vss-cli/internal/config"
	"vss-cli/internal/issue"
	"vss-cli/internal/script"

	"github.com/spf13/cobra"
)

var (
	errScriptDirNotFound = errors.New("script directory not found")
	errNotADirectory     = errors.New("not a directory")
	errNotConfigured     = errors.New("script directory is not configured")
)

func newAddScriptDirCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add-script-dir <path>",
		Short: "Add a script directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return app.addScriptDir(args[0])
		},
	}
}

func newRemoveScriptDirCommand(app *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "remove-script-dir [path]",
		Short: "Remove a script directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return ignoreInterrupt(app.removeScriptDir(path, yes))
		},
		ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			if app.Config == nil {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			global, err := app.Config.Global.Get()
			if err != nil {
				return nil, cobra.ShellCompDirectiveError
			}
			return global.ScriptDirs, cobra.ShellCompDirectiveNoFileComp
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newListScriptDirsCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list-script-dirs",
		Short: "List configured script directories",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return app.listScriptDirs()
		},
	}
}

func (a *App) addScriptDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return issue.NewErrorContext().
				WithOperation("add script directory").
				WithResource(path).
				WithSuggestion("Check the path, or create the directory first").
				Wrap(fmt.Errorf("%w: %s", errScriptDirNotFound, path)).
				BuildError()
		}
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", errNotADirectory, path)
	}

	dir, err := script.CanonicalPath(path)
	if err != nil {
		return err
	}

	global, err := a.Config.Global.Get()
	if err != nil {
		return fmt.Errorf("%w: %w", errConfigLoad, err)
	}
	if global.HasScriptDir(dir) {
		fmt.Fprintf(a.stdout, "%s Script directory already added: %s\n", WarningStyle.Render("Warning:"), dir)
		return nil
	}

	if err := a.Config.Global.Update(func(g *config.Global) {
		g.ScriptDirs = append(g.ScriptDirs, dir)
	}); err != nil {
		return fmt.Errorf("%w: %w", errConfigLoad, err)
	}

	count, err := script.CountScripts(dir)
	if err != nil {
		a.Logger.Debug("counting scripts failed", "dir", dir, "err", err)
	}
	fmt.Fprintf(a.stdout, "%s Added script directory: %s\n", SuccessStyle.Render("Success:"), dir)
	fmt.Fprintf(a.stdout, "  Found %s script%s\n", CountStyle.Render(fmt.Sprint(count)), plural(count))
	return nil
}

func (a *App) removeScriptDir(path string, yes bool) error {
	global, err := a.Config.Global.Get()
	if err != nil {
		return fmt.Errorf("%w: %w", errConfigLoad, err)
	}
	if len(global.ScriptDirs) == 0 {
		fmt.Fprintln(a.stdout, "No script directories configured.")
		return nil
	}

	var dir string
	if path == "" {
		if dir, err = a.Prompts.SelectString("Select a script directory to remove", global.ScriptDirs); err != nil {
			return err
		}
	} else {
		if dir, err = script.CanonicalPath(path); err != nil {
			return err
		}
		if !global.HasScriptDir(dir) && global.HasScriptDir(path) {
			dir = path
		}
		if !global.HasScriptDir(dir) {
			return fmt.Errorf("%w: %s", errNotConfigured, dir)
		}
	}

	if !yes {
		ok, err := a.Prompts.Confirm(fmt.Sprintf("Remove script directory %s?", dir), false)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(a.stdout, "Cancelled.")
			return nil
		}
	}

	if err := a.Config.Global.Update(func(g *config.Global) { g.RemoveScriptDir(dir) }); err != nil {
		return fmt.Errorf("%w: %w", errConfigLoad, err)
	}
	fmt.Fprintf(a.stdout, "%s Removed script directory: %s\n", SuccessStyle.Render("Success:"), dir)
	return nil
}

func (a *App) listScriptDirs() error {
	global, err := a.Config.Global.Get()
	if err != nil {
		return fmt.Errorf("%w: %w", errConfigLoad, err)
	}
	if len(global.ScriptDirs) == 0 {
		fmt.Fprintln(a.stdout, "No script directories configured.")
		fmt.Fprintln(a.stdout)
		fmt.Fprintf(a.stdout, "Use %s to add a directory with scripts\n", CmdStyle.Render("vss add-script-dir <directory>"))
		return nil
	}

	fmt.Fprintln(a.stdout, TitleStyle.Render("Script directories:"))
	fmt.Fprintln(a.stdout)
	for i, dir := range global.ScriptDirs {
		line := fmt.Sprintf("  %s %s", CountStyle.Render(fmt.Sprintf("%d.", i+1)), dir)
		info, statErr := os.Stat(dir)
		switch {
		case statErr != nil:
			line += " " + ErrorStyle.Render("(not found)")
		case !info.IsDir():
			line += " " + ErrorStyle.Render("(not a directory)")
		default:
			count, countErr := script.CountScripts(dir)
			if countErr != nil {
				line += " " + WarningStyle.Render("(unreadable)")
			} else {
				line += " " + SubtitleStyle.Render(fmt.Sprintf("(%d script%s)", count, plural(count)))
			}
		}
		fmt.Fprintln(a.stdout, line)
	}
	return nil
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
