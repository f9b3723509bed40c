// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"vss-cli/internal/watch"
)

// runWatch replays the last selection once, then again every time a script
// in one of the script directories changes, until ctx is cancelled.
func (a *App) runWatch(ctx context.Context) error {
	dirs, err := a.scriptDirs()
	if err != nil {
		return err
	}

	replay := func(ctx context.Context) {
		if err := ignoreInterrupt(a.runScripts(ctx, true)); err != nil {
			renderError(a.stderr, err, a.Settings.Debug)
		}
	}

	w, err := watch.New(watch.Config{
		Dirs:   dirs,
		Logger: a.Logger,
		OnChange: func(ctx context.Context, changed []string) error {
			fmt.Fprintf(a.stdout, "\n%s Detected %d change(s), running again...\n", CmdStyle.Render("→"), len(changed))
			replay(ctx)
			fmt.Fprintf(a.stdout, "\n%s Watching for changes (Ctrl+C to stop)...\n", CmdStyle.Render("→"))
			return nil
		},
	})
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	replay(ctx)
	fmt.Fprintf(a.stdout, "\n%s Watching %d script directories for changes (Ctrl+C to stop)...\n", CmdStyle.Render("→"), len(w.Dirs()))
	return w.Run(ctx)
}
