// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"errors"
	"fmt"
	"slices"

	"vss-cli/internal/script"

	"github.com/charmbracelet/huh"
)

// ErrNothingSelected rejects an empty script selection.
var ErrNothingSelected = errors.New("you must select at least one script to run")

// RequirementNotSelectedError rejects a selection that leaves out a script
// whose exports a selected script requires.
type RequirementNotSelectedError struct {
	Script string
	Ref    string
}

func (e *RequirementNotSelectedError) Error() string {
	return fmt.Sprintf("Script '%s' requires '%s' to be selected as well", e.Script, e.Ref)
}

// SelectScripts asks which of the planned scripts to run and returns the
// chosen pathnames. Scripts whose pathname is in defaults start selected.
func (p *Prompter) SelectScripts(plan *script.Plan, defaults []string) ([]string, error) {
	selected := slices.DeleteFunc(slices.Clone(defaults), func(pathname string) bool {
		return !slices.Contains(plan.Pathnames(), pathname)
	})

	options := make([]huh.Option[string], len(plan.Scripts))
	for i, s := range plan.Scripts {
		options[i] = huh.NewOption(s.String(), s.Pathname).
			Selected(slices.Contains(selected, s.Pathname))
	}

	field := huh.NewMultiSelect[string]().
		Title("Which scripts do you want to run?").
		Value(&selected).
		Options(options...).
		Validate(ValidateSelection(plan))

	if err := p.run(field); err != nil {
		return nil, err
	}

	p.logger().Debug("selected scripts", "pathnames", selected)
	return selected, nil
}

// ValidateSelection returns the validator used by SelectScripts: the
// selection must be non-empty and closed under data requirements.
func ValidateSelection(plan *script.Plan) func([]string) error {
	return func(selected []string) error {
		if len(selected) == 0 {
			return ErrNothingSelected
		}
		if missing := plan.MissingRequirements(selected); len(missing) > 0 {
			return &RequirementNotSelectedError{Script: missing[0].Script, Ref: missing[0].Ref}
		}
		return nil
	}
}
