// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"

	"vss-cli/internal/engine"
	"vss-cli/internal/issue"
	"vss-cli/internal/script"
)

func TestIssueFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want issue.Id
	}{
		{name: "dependency not found", err: fmt.Errorf("plan: %w", script.ErrDependencyNotFound), want: issue.DependencyNotFoundId},
		{name: "cycle", err: script.ErrCircularDependency, want: issue.DependencyCycleId},
		{name: "dependency path", err: script.ErrInvalidDependencyPath, want: issue.InvalidDependencyPathId},
		{name: "option", err: script.ErrInvalidOption, want: issue.InvalidScriptOptionId},
		{name: "missing export", err: &engine.MissingExportError{Script: "b", Dependency: "a.sh", Variables: []string{"FOO"}}, want: issue.MissingExportId},
		{name: "script failed", err: &engine.ScriptFailedError{Script: "a", ExitCode: 2}, want: issue.ScriptExecutionFailedId},
		{name: "dir not found", err: errScriptDirNotFound, want: issue.ScriptDirNotFoundId},
		{name: "config", err: fmt.Errorf("%w: broken", errConfigLoad), want: issue.ConfigLoadFailedId},
		{name: "permission", err: &fs.PathError{Op: "open", Path: "/x", Err: fs.ErrPermission}, want: issue.PermissionDeniedId},
		{name: "unknown", err: errors.New("boom"), want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := issueFor(tt.err); got != tt.want {
				t.Errorf("issueFor() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "script status", err: fmt.Errorf("run: %w", &engine.ScriptFailedError{Script: "a", ExitCode: 42}), want: 42},
		{name: "unknown status", err: &engine.ScriptFailedError{Script: "a", ExitCode: -1}, want: 1},
		{name: "exit error", err: &ExitError{Code: 5}, want: 5},
		{name: "plain", err: errors.New("boom"), want: 1},
	}
	for _, tt := range tests {
		if got := exitCodeFor(tt.err); got != tt.want {
			t.Errorf("%s: exitCodeFor() = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestIgnoreInterrupt(t *testing.T) {
	t.Parallel()
	if err := ignoreInterrupt(interruptedErr()); err != nil {
		t.Errorf("ignoreInterrupt(interrupt) = %v, want nil", err)
	}
	if err := ignoreInterrupt(fmt.Errorf("run: %w", context.Canceled)); err != nil {
		t.Errorf("ignoreInterrupt(canceled) = %v, want nil", err)
	}
	boom := errors.New("boom")
	if err := ignoreInterrupt(boom); !errors.Is(err, boom) {
		t.Errorf("ignoreInterrupt(boom) = %v", err)
	}
}

func TestRenderError(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	renderError(&buf, errors.New("boom"), false)
	if got := buf.String(); !strings.Contains(got, "Error:") || !strings.Contains(got, "boom") {
		t.Errorf("renderError() = %q", got)
	}

	buf.Reset()
	renderError(&buf, fmt.Errorf("%w: a -> b -> a", script.ErrCircularDependency), false)
	if strings.Count(buf.String(), "\n") < 3 {
		t.Errorf("renderError() should append guidance, got %q", buf.String())
	}
}

func TestExitError(t *testing.T) {
	t.Parallel()
	if got := (&ExitError{Code: 3}).Error(); got != "exit status 3" {
		t.Errorf("Error() = %q", got)
	}
	inner := errors.New("inner")
	e := &ExitError{Code: 1, Err: inner}
	if !errors.Is(e, inner) || e.Error() != "inner" {
		t.Errorf("ExitError does not wrap %v", inner)
	}
}
