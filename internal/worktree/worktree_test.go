// SPDX-License-Identifier: MPL-2.0

package worktree

import (
	"context"
	"os/exec"
	"path/filepath"
	"slices"
	"testing"
)

const porcelain = `worktree /home/user/project
HEAD 1234567890abcdef1234567890abcdef12345678
branch refs/heads/main

worktree /home/user/project/worktrees/feature
HEAD abcdef1234567890abcdef1234567890abcdef12
branch refs/heads/feature-branch

worktree /home/user/project-detached
HEAD fedcba0987654321fedcba0987654321fedcba09
detached
`

func TestParse(t *testing.T) {
	t.Parallel()

	got := Parse(porcelain)
	want := []Worktree{
		{Path: "/home/user/project", Branch: "main", Head: "1234567890abcdef1234567890abcdef12345678"},
		{Path: "/home/user/project/worktrees/feature", Branch: "feature-branch", Head: "abcdef1234567890abcdef1234567890abcdef12"},
		{Path: "/home/user/project-detached", Branch: DetachedBranch, Head: "fedcba0987654321fedcba0987654321fedcba09"},
	}
	if !slices.Equal(got, want) {
		t.Errorf("Parse() = %+v\nwant %+v", got, want)
	}
}

func TestParse_IncompleteBlocks(t *testing.T) {
	t.Parallel()

	out := "worktree /a\n\nHEAD abc\nbranch refs/heads/x\n\n\nworktree /b\nHEAD def\nbare\n"
	got := Parse(out)
	if len(got) != 1 || got[0].Path != "/b" {
		t.Errorf("Parse() = %+v", got)
	}
	if Parse("") != nil {
		t.Error("Parse(\"\") should be nil")
	}
}

func TestDisplayName(t *testing.T) {
	t.Parallel()

	base := "/home/user/project"
	tests := []struct {
		tree Worktree
		want string
	}{
		{Worktree{Path: base, Branch: "main"}, "main"},
		{Worktree{Path: "/home/user/project/worktrees/feature", Branch: "feature-branch"}, "feature-branch (" + filepath.Join("worktrees", "feature") + ")"},
		{Worktree{Path: "/home/user/project-detached", Branch: DetachedBranch}, "(detached) (/home/user/project-detached)"},
	}
	for _, tt := range tests {
		if got := tt.tree.DisplayName(base); got != tt.want {
			t.Errorf("DisplayName() = %q, want %q", got, tt.want)
		}
	}
}

func TestList_GitRepository(t *testing.T) {
	t.Parallel()

	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	dir := t.TempDir()
	for _, args := range [][]string{
		{"init", "-q", "-b", "main"},
		{"-c", "user.name=t", "-c", "user.email=t@example.com", "commit", "-q", "--allow-empty", "-m", "init"},
	} {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Skipf("git %v failed: %v: %s", args, err, out)
		}
	}

	trees, err := List(context.Background(), dir)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(trees) != 1 || trees[0].Branch != "main" || trees[0].Head == "" {
		t.Errorf("List() = %+v", trees)
	}
}

func TestList_NotARepository(t *testing.T) {
	t.Parallel()

	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	if _, err := List(context.Background(), t.TempDir()); err == nil {
		t.Error("List() outside a repository should fail")
	}
}
