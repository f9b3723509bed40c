// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"vss-cli/internal/engine"
	"vss-cli/internal/issue"
	"vss-cli/internal/script"
	"vss-cli/internal/tui"
)

// errConfigLoad marks failures to read or write a config document.
var errConfigLoad = errors.New("failed to load configuration")

// issueFor returns the guidance entry matching err, or 0 when none applies.
func issueFor(err error) issue.Id {
	switch {
	case errors.Is(err, script.ErrDependencyNotFound):
		return issue.DependencyNotFoundId
	case errors.Is(err, script.ErrCircularDependency):
		return issue.DependencyCycleId
	case errors.Is(err, script.ErrInvalidDependencyPath):
		return issue.InvalidDependencyPathId
	case errors.Is(err, script.ErrInvalidOption):
		return issue.InvalidScriptOptionId
	case errors.Is(err, engine.ErrMissingExport):
		return issue.MissingExportId
	case errors.Is(err, engine.ErrScriptFailed):
		return issue.ScriptExecutionFailedId
	case errors.Is(err, errScriptDirNotFound), errors.Is(err, errNotConfigured):
		return issue.ScriptDirNotFoundId
	case errors.Is(err, errConfigLoad):
		return issue.ConfigLoadFailedId
	case errors.Is(err, fs.ErrPermission):
		return issue.PermissionDeniedId
	}
	return 0
}

// exitCodeFor maps a failed run onto the process exit code. A failing script
// propagates its own status.
func exitCodeFor(err error) int {
	var failed *engine.ScriptFailedError
	if errors.As(err, &failed) && !failed.ExitCode.IsSuccess() {
		if ok, _ := failed.ExitCode.IsValid(); ok {
			return int(failed.ExitCode)
		}
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}

// ignoreInterrupt turns a cancelled prompt, or a run interrupted between
// scripts, into a silent success.
func ignoreInterrupt(err error) error {
	if errors.Is(err, tui.ErrUserInterrupted) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// formatErrorForDisplay formats an error for the user. Actionable errors show
// their suggestions, and the cause chain in verbose mode.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}

// renderError prints err and, when one matches, its long-form guidance.
func renderError(w io.Writer, err error, verbose bool) {
	fmt.Fprintln(w, ErrorStyle.Render("Error:")+" "+formatErrorForDisplay(err, verbose))

	id := issueFor(err)
	if id == 0 {
		return
	}
	entry := issue.Get(id)
	if entry == nil {
		return
	}
	rendered, renderErr := entry.Render("dark")
	if renderErr != nil {
		fmt.Fprintln(w, SubtitleStyle.Render(string(entry.MarkdownMsg())))
		return
	}
	fmt.Fprint(w, rendered)
}
