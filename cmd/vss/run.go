// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"slices"

	"vss-cli/internal/config"
	"vss-cli/internal/engine"
	"vss-cli/internal/script"
)

// runScripts is the root command: discover, plan, select, collect inputs and
// execute. With replay the saved selection is used without prompting.
func (a *App) runScripts(ctx context.Context, replay bool) error {
	dirs, err := a.scriptDirs()
	if err != nil {
		return err
	}
	global, err := a.Config.Global.Get()
	if err != nil {
		return fmt.Errorf("%w: %w", errConfigLoad, err)
	}
	appCfg, err := a.Config.App.Get()
	if err != nil {
		return fmt.Errorf("%w: %w", errConfigLoad, err)
	}

	scripts, err := a.Discoverer.Discover(dirs)
	if err != nil {
		return err
	}
	if len(scripts) == 0 {
		a.printNoScripts()
		return nil
	}

	// Plan over every discovered script so a broken dependency surfaces
	// even when the script declaring it is not selected.
	plan, err := script.BuildPlan(scripts, dirs, a.Logger)
	if err != nil {
		return err
	}

	var selected []string
	if replay {
		a.Logger.Debug("using previously selected scripts")
		selected = slices.DeleteFunc(slices.Clone(appCfg.Selected), func(p string) bool {
			return !slices.Contains(plan.Pathnames(), p)
		})
	} else {
		if selected, err = a.Prompts.SelectScripts(plan, appCfg.Selected); err != nil {
			return err
		}
		if err := a.Config.App.Update(func(c *config.App) { c.Selected = selected }); err != nil {
			return fmt.Errorf("%w: %w", errConfigLoad, err)
		}
	}

	if len(selected) == 0 {
		fmt.Fprintln(a.stdout, "No scripts selected.")
		return nil
	}
	run := plan.Select(selected)

	args, opts := global.Args, appCfg.Opts
	if err := a.Prompts.CollectInputs(ctx, run.Scripts, args, opts); err != nil {
		return err
	}
	if err := a.saveInputs(args, opts); err != nil {
		return err
	}

	stager, err := a.newStager()
	if err != nil {
		return err
	}
	eng := &engine.Engine{
		Stager:  stager,
		Stdout:  a.stdout,
		Stderr:  a.stderr,
		Stdin:   a.stdin,
		Logger:  a.Logger,
		Debug:   a.Settings.Debug,
		Environ: a.environ,
	}
	_, err = eng.Run(ctx, run, engine.Inputs{Args: args, Opts: opts})
	return err
}

func (a *App) saveInputs(args, opts map[string]any) error {
	if len(args) > 0 {
		if err := a.Config.Global.Update(func(g *config.Global) { g.Args = args }); err != nil {
			return fmt.Errorf("%w: %w", errConfigLoad, err)
		}
	}
	if len(opts) > 0 {
		if err := a.Config.App.Update(func(c *config.App) { c.Opts = opts }); err != nil {
			return fmt.Errorf("%w: %w", errConfigLoad, err)
		}
	}
	return nil
}
