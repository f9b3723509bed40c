// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"vss-cli/internal/script"
	"vss-cli/internal/worktree"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/log"
)

func quietPrompter() *Prompter {
	return &Prompter{Logger: log.New(io.Discard)}
}

func selectionPlan(t *testing.T) *script.Plan {
	t.Helper()
	scripts := []script.Descriptor{
		{Name: "Login", Pathname: "login.sh", AbsolutePath: "<embedded>/login.sh", Embedded: true},
		{
			Name: "Deploy", Pathname: "deploy.sh", AbsolutePath: "<embedded>/deploy.sh", Embedded: true,
			Requires: []script.Requirement{{Script: "login.sh", Variables: []string{"TOKEN"}}},
		},
	}
	plan, err := script.BuildPlan(scripts, nil, nil)
	if err != nil {
		t.Fatalf("BuildPlan() error = %v", err)
	}
	return plan
}

func TestValidateSelection(t *testing.T) {
	t.Parallel()
	validate := ValidateSelection(selectionPlan(t))

	if err := validate(nil); !errors.Is(err, ErrNothingSelected) {
		t.Errorf("empty selection error = %v, want ErrNothingSelected", err)
	}

	err := validate([]string{"deploy.sh"})
	var reqErr *RequirementNotSelectedError
	if !errors.As(err, &reqErr) {
		t.Fatalf("error = %v, want *RequirementNotSelectedError", err)
	}
	if want := "Script 'Deploy' requires 'login.sh' to be selected as well"; err.Error() != want {
		t.Errorf("message = %q, want %q", err.Error(), want)
	}

	for _, sel := range [][]string{{"login.sh"}, {"login.sh", "deploy.sh"}} {
		if err := validate(sel); err != nil {
			t.Errorf("validate(%v) = %v, want nil", sel, err)
		}
	}
}

func TestStringValidator(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opt     script.StringOpt
		value   string
		wantErr string
	}{
		{name: "required empty", opt: script.StringOpt{}, value: "", wantErr: ErrValueRequired.Error()},
		{name: "required non-empty", opt: script.StringOpt{}, value: "x"},
		{name: "optional empty", opt: script.StringOpt{OptInfo: script.OptInfo{Optional: true}, Pattern: "^[0-9]+$"}, value: ""},
		{name: "pattern match", opt: script.StringOpt{Pattern: "^[0-9]+$"}, value: "42"},
		{name: "pattern mismatch", opt: script.StringOpt{Pattern: "^[0-9]+$"}, value: "abc", wantErr: ErrInvalidFormat.Error()},
		{name: "pattern help", opt: script.StringOpt{Pattern: "^[0-9]+$", PatternHelp: "digits only"}, value: "abc", wantErr: "digits only"},
		{name: "help on required empty", opt: script.StringOpt{PatternHelp: "type something"}, value: "", wantErr: "type something"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			validate, err := StringValidator(tt.opt)
			if err != nil {
				t.Fatalf("StringValidator() error = %v", err)
			}
			err = validate(tt.value)
			switch {
			case tt.wantErr == "" && err != nil:
				t.Errorf("validate(%q) = %v, want nil", tt.value, err)
			case tt.wantErr != "" && (err == nil || err.Error() != tt.wantErr):
				t.Errorf("validate(%q) = %v, want %q", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestStringValidator_BadPattern(t *testing.T) {
	t.Parallel()
	if _, err := StringValidator(script.StringOpt{OptInfo: script.OptInfo{Name: "ver"}, Pattern: "("}); err == nil {
		t.Error("expected error for invalid pattern")
	}
}

func TestWorktreeOptions(t *testing.T) {
	t.Parallel()
	base := filepath.Join(string(filepath.Separator), "repo")
	worktrees := []worktree.Worktree{
		{Path: base, Branch: "main"},
		{Path: filepath.Join(base, "feature"), Branch: "feature"},
	}

	options := WorktreeOptions(worktrees, base)
	if len(options) != 2 {
		t.Fatalf("len(options) = %d, want 2", len(options))
	}
	if options[0].Key != "main" || options[0].Value != base {
		t.Errorf("options[0] = %+v", options[0])
	}
	if options[1].Value != filepath.Join(base, "feature") || !strings.HasPrefix(options[1].Key, "feature (") {
		t.Errorf("options[1] = %+v", options[1])
	}
}

func TestPromptOpt_WorktreeSkipsWithoutPrompting(t *testing.T) {
	t.Parallel()
	def := "/srv/default"

	t.Run("base dir unset", func(t *testing.T) {
		t.Parallel()
		p := quietPrompter()
		p.Worktrees = func(context.Context, string) ([]worktree.Worktree, error) {
			t.Error("lister must not be called without a base directory")
			return nil, nil
		}
		opt := script.WorktreeOpt{OptInfo: script.OptInfo{Name: "WT"}, BaseDirArg: "REPO"}
		_, ok, err := p.PromptOpt(context.Background(), opt, map[string]any{})
		if err != nil || ok {
			t.Errorf("PromptOpt() = ok %v, err %v; want skipped", ok, err)
		}
	})

	t.Run("no worktrees keeps default", func(t *testing.T) {
		t.Parallel()
		p := quietPrompter()
		p.Worktrees = func(context.Context, string) ([]worktree.Worktree, error) {
			return nil, fmt.Errorf("not a git repository")
		}
		opt := script.WorktreeOpt{OptInfo: script.OptInfo{Name: "WT"}, BaseDirArg: "REPO", Default: &def}
		v, ok, err := p.PromptOpt(context.Background(), opt, map[string]any{"REPO": "/srv/repo"})
		if err != nil || !ok || v != def {
			t.Errorf("PromptOpt() = %v, %v, %v; want %q", v, ok, err, def)
		}
	})
}

func TestCollectInputs_NothingMissing(t *testing.T) {
	t.Parallel()
	scripts := []script.Descriptor{{
		Name: "deploy",
		Args: []script.Arg{{Name: "REPO"}},
		Opts: []script.Opt{script.BoolOpt{OptInfo: script.OptInfo{Name: "DRY_RUN"}}},
	}}
	args := map[string]any{"REPO": "/srv/repo"}
	opts := map[string]any{"DRY_RUN": true}

	if err := quietPrompter().CollectInputs(context.Background(), scripts, args, opts); err != nil {
		t.Fatalf("CollectInputs() error = %v", err)
	}
	if len(args) != 1 || len(opts) != 1 {
		t.Errorf("inputs changed: args %v, opts %v", args, opts)
	}
}

func TestInterrupted(t *testing.T) {
	t.Parallel()
	if err := interrupted(huh.ErrUserAborted); !errors.Is(err, ErrUserInterrupted) {
		t.Errorf("interrupted(ErrUserAborted) = %v, want ErrUserInterrupted", err)
	}
	other := errors.New("boom")
	if err := interrupted(other); err != other {
		t.Errorf("interrupted(other) = %v, want it unchanged", err)
	}
	if err := interrupted(nil); err != nil {
		t.Errorf("interrupted(nil) = %v", err)
	}
}

func TestTable(t *testing.T) {
	t.Parallel()
	out := Table([]string{"Name", "Source"}, [][]string{{"deploy", "embedded"}, {"build", "/srv/scripts"}})
	for _, want := range []string{"Name", "Source", "deploy", "embedded", "/srv/scripts"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}
