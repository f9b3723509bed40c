// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootFlagValues holds the flags only the root command reads directly.
type rootFlagValues struct {
	replay bool
	watch  bool
}

// NewRootCommand builds the vss command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	var flags rootFlagValues

	rootCmd := &cobra.Command{
		Use:   "vss",
		Short: "Interactive script runner for Vercel development workflows",
		Long: TitleStyle.Render("vss") + SubtitleStyle.Render(" - Vercel Scripts Selector") + `

vss discovers shell scripts (built-in and from your script directories),
lets you pick which ones to run, orders them by their declared
dependencies and runs them one after another, passing exported variables
from one script to the next.

` + SubtitleStyle.Render("Examples:") + `
  vss                          Pick scripts and run them
  vss --replay                 Run the last selection again without prompts
  vss --replay --watch         Re-run the last selection when scripts change
  vss add-script-dir ./scripts Add a directory of scripts
  vss ls                       List available scripts`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.init(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if flags.watch && !flags.replay {
				return errors.New("--watch requires --replay")
			}
			if flags.watch {
				return ignoreInterrupt(app.runWatch(cmd.Context()))
			}
			return ignoreInterrupt(app.runScripts(cmd.Context(), flags.replay))
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.BoolP("debug", "d", false, "enable debug logging for script operations")
	pf.Bool("accessible", false, "use plain line-based prompts")
	pf.String("cache-dir", "", "directory for staged scripts (default is the user cache dir)")

	rootCmd.Flags().BoolVarP(&flags.replay, "replay", "r", false, "replay the last run without prompts")
	rootCmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "with --replay, re-run when scripts change")

	rootCmd.AddCommand(
		newAddScriptDirCommand(app),
		newRemoveScriptDirCommand(app),
		newListScriptDirsCommand(app),
		newListScriptsCommand(app),
		newNewScriptCommand(app),
		newCompletionCommand(),
	)

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the vss command tree and exits with its status.
func Execute() {
	app := NewApp(Dependencies{})
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(func(w io.Writer, _ fang.Styles, err error) {
			renderError(w, err, app.Settings.Debug)
		}),
	); err != nil {
		os.Exit(exitCodeFor(err))
	}
}
