// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"vss-cli/internal/worktree"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/log"
	"golang.org/x/term"
)

// ErrUserInterrupted is returned when the user cancels a prompt. Callers
// treat it as a clean exit rather than a failure.
var ErrUserInterrupted = errors.New("interrupted by user")

type (
	// WorktreeLister lists the git worktrees of a directory.
	WorktreeLister func(ctx context.Context, baseDir string) ([]worktree.Worktree, error)

	// Prompter runs huh forms with a shared theme and accessibility setting.
	Prompter struct {
		// Accessible renders prompts as plain line-based questions.
		Accessible bool
		Theme      *huh.Theme
		// InputReader and Output override the terminal streams when set.
		InputReader io.Reader
		Output      io.Writer
		Logger      *log.Logger
		// Worktrees defaults to worktree.List.
		Worktrees WorktreeLister
	}
)

// NewPrompter returns a Prompter for the current terminal. Accessible mode is
// forced when stdin is not a terminal, and prompts then go to stderr so they
// are not captured by command substitution.
func NewPrompter(accessible bool, logger *log.Logger) *Prompter {
	accessible = accessible || !isInputTerminal()

	var output io.Writer = os.Stdout
	if accessible {
		output = os.Stderr
	}

	return &Prompter{
		Accessible: accessible,
		Theme:      huh.ThemeCharm(),
		Output:     output,
		Logger:     logger,
		Worktrees:  worktree.List,
	}
}

// Input asks for a line of text. initial pre-fills the field; validate may be nil.
func (p *Prompter) Input(title, description, initial string, validate func(string) error) (string, error) {
	value := initial
	field := huh.NewInput().
		Title(title).
		Description(description).
		Value(&value)
	if validate != nil {
		field = field.Validate(validate)
	}

	if err := p.run(field); err != nil {
		return "", err
	}
	return value, nil
}

// Confirm asks a yes/no question.
func (p *Prompter) Confirm(title string, initial bool) (bool, error) {
	value := initial
	field := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&value)

	if err := p.run(field); err != nil {
		return false, err
	}
	return value, nil
}

// MultiSelect asks for any number of values among options.
func (p *Prompter) MultiSelect(title string, options []string, validate func([]string) error) ([]string, error) {
	var selected []string
	field := huh.NewMultiSelect[string]().
		Title(title).
		Value(&selected).
		Options(huh.NewOptions(options...)...)
	if validate != nil {
		field = field.Validate(validate)
	}

	if err := p.run(field); err != nil {
		return nil, err
	}
	return selected, nil
}

// SelectString asks for one of options.
func (p *Prompter) SelectString(title string, options []string) (string, error) {
	return Select(p, title, huh.NewOptions(options...), "")
}

// Select asks for exactly one value among options. initial is preselected
// when it matches an option value.
func Select[T comparable](p *Prompter, title string, options []huh.Option[T], initial T) (T, error) {
	value := initial
	field := huh.NewSelect[T]().
		Title(title).
		Value(&value).
		Options(options...)

	if err := p.run(field); err != nil {
		var zero T
		return zero, err
	}
	return value, nil
}

func (p *Prompter) run(fields ...huh.Field) error {
	form := huh.NewForm(huh.NewGroup(fields...)).
		WithTheme(p.theme()).
		WithAccessible(p.Accessible)
	if p.InputReader != nil {
		form = form.WithInput(p.InputReader)
	}
	if p.Output != nil {
		form = form.WithOutput(p.Output)
	}

	return interrupted(form.Run())
}

func (p *Prompter) theme() *huh.Theme {
	if p.Theme == nil {
		return huh.ThemeBase()
	}
	return p.Theme
}

func (p *Prompter) logger() *log.Logger {
	if p.Logger == nil {
		return log.Default()
	}
	return p.Logger
}

// interrupted maps huh's abort error onto ErrUserInterrupted.
func interrupted(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return fmt.Errorf("%w: %w", ErrUserInterrupted, err)
	}
	return err
}

func isInputTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
