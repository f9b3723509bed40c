// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"vss-cli/internal/script"
	"vss-cli/internal/tui"

	"github.com/spf13/cobra"
)

// checkErrMaxLen bounds the syntax error shown in the Check column.
const checkErrMaxLen = 40

func newListScriptsCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list-scripts",
		Aliases: []string{"ls"},
		Short:   "List all available scripts",
		Args:    cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return app.listScripts()
		},
	}
}

func (a *App) listScripts() error {
	dirs, err := a.scriptDirs()
	if err != nil {
		return err
	}
	scripts, err := a.Discoverer.Discover(dirs)
	if err != nil {
		return err
	}
	if len(scripts) == 0 {
		a.printNoScripts()
		return nil
	}

	rows := make([][]string, len(scripts))
	embedded := 0
	for i, s := range scripts {
		if s.Embedded {
			embedded++
		}
		rows[i] = a.scriptRow(s)
	}

	fmt.Fprintln(a.stdout, tui.Table([]string{"Name", "Description", "Source", "Arguments", "Options", "Check"}, rows))
	fmt.Fprintln(a.stdout)
	fmt.Fprintf(a.stdout, "%s %s script%s found\n", SubtitleStyle.Render("Total:"), CountStyle.Render(fmt.Sprint(len(scripts))), plural(len(scripts)))
	fmt.Fprintf(a.stdout, "  %d embedded, %d external\n", embedded, len(scripts)-embedded)
	return nil
}

func (a *App) scriptRow(s script.Descriptor) []string {
	source := "embedded"
	if !s.Embedded {
		source = s.Dir()
	}

	description := s.Description
	if description == "" {
		description = SubtitleStyle.Render("No description")
	}

	argNames := make([]string, len(s.Args))
	for i, arg := range s.Args {
		argNames[i] = arg.Name
	}
	optNames := make([]string, len(s.Opts))
	for i, opt := range s.Opts {
		optNames[i] = opt.Info().Name
	}

	return []string{s.Name, description, source, namesOrNone(argNames), namesOrNone(optNames), a.checkScript(s)}
}

// checkScript parses the script as bash and reports the outcome.
func (a *App) checkScript(s script.Descriptor) string {
	content, err := a.Discoverer.Content(s)
	if err != nil {
		return ErrorStyle.Render("unreadable")
	}
	if err := script.CheckSyntax(content, s.Label()); err != nil {
		msg := err.Error()
		if len(msg) > checkErrMaxLen {
			msg = msg[:checkErrMaxLen-1] + "…"
		}
		return ErrorStyle.Render("✗ " + msg)
	}
	return SuccessStyle.Render("✓")
}

func namesOrNone(names []string) string {
	if len(names) == 0 {
		return SubtitleStyle.Render("none")
	}
	return strings.Join(names, ", ")
}
