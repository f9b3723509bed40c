// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"

	"vss-cli/internal/script"
	"vss-cli/internal/worktree"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

var (
	// ErrInvalidFormat is the fallback message when a string option does not
	// match its pattern and declares no pattern help.
	ErrInvalidFormat = errors.New("invalid input format")
	// ErrValueRequired rejects an empty value for a required string option.
	ErrValueRequired = errors.New("value is required")

	argNameStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

// CollectInputs prompts for every argument and option of scripts that has no
// value yet. Arguments are stored in args, options in opts; both maps are
// updated in place and must be non-nil.
func (p *Prompter) CollectInputs(ctx context.Context, scripts []script.Descriptor, args, opts map[string]any) error {
	home, _ := os.UserHomeDir()

	for _, s := range scripts {
		p.logger().Debug("collecting arguments", "script", s.Name)
		for _, arg := range s.Args {
			if _, ok := args[arg.Name]; ok {
				continue
			}
			title := fmt.Sprintf("Enter a value for %s - %s", argNameStyle.Render(arg.Name), arg.Description)
			value, err := p.Input(title, "", home, nil)
			if err != nil {
				return err
			}
			args[arg.Name] = value
		}

		p.logger().Debug("collecting options", "script", s.Name)
		for _, opt := range s.Opts {
			name := opt.Info().Name
			if _, ok := opts[name]; ok {
				continue
			}
			value, ok, err := p.PromptOpt(ctx, opt, args)
			if err != nil {
				return err
			}
			if ok {
				opts[name] = value
			}
		}
	}

	return nil
}

// PromptOpt asks for the value of one option. ok is false when the option
// was skipped and nothing should be stored.
func (p *Prompter) PromptOpt(ctx context.Context, opt script.Opt, args map[string]any) (value any, ok bool, err error) {
	switch o := opt.(type) {
	case script.BoolOpt:
		initial := o.Default != nil && *o.Default
		v, err := p.Confirm(optTitle(o.OptInfo), initial)
		if err != nil {
			return nil, false, err
		}
		return v, true, nil
	case script.StringOpt:
		return p.promptString(o)
	case script.WorktreeOpt:
		return p.promptWorktree(ctx, o, args)
	default:
		return nil, false, fmt.Errorf("unsupported option type %T", opt)
	}
}

func (p *Prompter) promptString(o script.StringOpt) (any, bool, error) {
	validate, err := StringValidator(o)
	if err != nil {
		return nil, false, err
	}

	initial := ""
	if o.Default != nil {
		initial = *o.Default
	}

	v, err := p.Input(optTitle(o.OptInfo), o.PatternHelp, initial, validate)
	if err != nil {
		return nil, false, err
	}
	if v == "" {
		return nil, false, nil
	}
	return v, true, nil
}

func (p *Prompter) promptWorktree(ctx context.Context, o script.WorktreeOpt, args map[string]any) (any, bool, error) {
	fallback := func() (any, bool, error) {
		if o.Default == nil {
			return nil, false, nil
		}
		return *o.Default, true, nil
	}

	baseDir, ok := args[o.BaseDirArg].(string)
	if !ok || baseDir == "" {
		p.logger().Warn("base directory not set, skipping option", "arg", o.BaseDirArg, "option", o.Name)
		return fallback()
	}

	lister := p.Worktrees
	if lister == nil {
		lister = worktree.List
	}
	worktrees, err := lister(ctx, baseDir)
	if err != nil {
		p.logger().Debug("listing worktrees failed", "dir", baseDir, "err", err)
	}
	if len(worktrees) == 0 {
		p.logger().Warn("no worktrees found, skipping option", "dir", baseDir, "option", o.Name)
		return fallback()
	}

	initial := worktrees[0].Path
	if o.Default != nil {
		initial = *o.Default
	}

	v, err := Select(p, optTitle(o.OptInfo), WorktreeOptions(worktrees, baseDir), initial)
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

// WorktreeOptions turns worktrees into select options keyed by display name
// with the worktree path as value.
func WorktreeOptions(worktrees []worktree.Worktree, baseDir string) []huh.Option[string] {
	options := make([]huh.Option[string], len(worktrees))
	for i, wt := range worktrees {
		options[i] = huh.NewOption(wt.DisplayName(baseDir), wt.Path)
	}
	return options
}

// StringValidator builds the input validator of a string option. Empty input
// is accepted for optional options; otherwise the value must be non-empty and
// match Pattern when one is declared. PatternHelp replaces the default
// messages.
func StringValidator(o script.StringOpt) (func(string) error, error) {
	var re *regexp.Regexp
	if o.Pattern != "" {
		var err error
		if re, err = regexp.Compile(o.Pattern); err != nil {
			return nil, fmt.Errorf("option %s: invalid pattern %q: %w", o.Name, o.Pattern, err)
		}
	}

	fail := func(fallback error) error {
		if o.PatternHelp != "" {
			return errors.New(o.PatternHelp)
		}
		return fallback
	}

	return func(v string) error {
		switch {
		case v == "" && o.Optional:
			return nil
		case re != nil && !re.MatchString(v):
			return fail(ErrInvalidFormat)
		case v == "":
			return fail(ErrValueRequired)
		}
		return nil
	}, nil
}

func optTitle(info script.OptInfo) string {
	if info.Description != "" {
		return info.Description
	}
	return info.Name
}
