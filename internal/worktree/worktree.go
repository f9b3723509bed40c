// SPDX-License-Identifier: MPL-2.0

// Package worktree lists the git worktrees of a repository.
package worktree

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// DetachedBranch is reported for worktrees without a checked-out branch.
const DetachedBranch = "(detached)"

// Worktree is one entry of `git worktree list`.
type Worktree struct {
	Path   string
	Branch string
	Head   string
}

// List runs `git worktree list --porcelain` in baseDir.
func List(ctx context.Context, baseDir string) ([]Worktree, error) {
	cmd := exec.CommandContext(ctx, "git", "worktree", "list", "--porcelain")
	cmd.Dir = baseDir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("git worktree list failed: %w: %s", err, msg)
		}
		return nil, fmt.Errorf("git worktree list failed: %w", err)
	}
	return Parse(string(out)), nil
}

// Parse reads porcelain output: blank-line separated blocks of "worktree",
// "HEAD" and "branch" lines. Blocks without a path or HEAD are skipped.
func Parse(output string) []Worktree {
	var (
		trees   []Worktree
		current Worktree
	)
	flush := func() {
		if current.Path != "" && current.Head != "" {
			if current.Branch == "" {
				current.Branch = DetachedBranch
			}
			trees = append(trees, current)
		}
		current = Worktree{}
	}

	sc := bufio.NewScanner(strings.NewReader(output))
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			flush()
			continue
		}
		if v, ok := strings.CutPrefix(line, "worktree "); ok {
			current.Path = v
		} else if v, ok := strings.CutPrefix(line, "HEAD "); ok {
			current.Head = v
		} else if v, ok := strings.CutPrefix(line, "branch "); ok {
			current.Branch = strings.TrimPrefix(v, "refs/heads/")
		}
	}
	flush()
	return trees
}

// RelativePath returns the path relative to baseDir when the worktree lies
// inside it, and the full path otherwise.
func (w Worktree) RelativePath(baseDir string) string {
	rel, err := filepath.Rel(baseDir, w.Path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return w.Path
	}
	if rel == "." {
		return ""
	}
	return rel
}

// DisplayName is the branch name, followed by the relative path for
// worktrees other than baseDir itself.
func (w Worktree) DisplayName(baseDir string) string {
	rel := w.RelativePath(baseDir)
	if rel == "" {
		return w.Branch
	}
	return fmt.Sprintf("%s (%s)", w.Branch, rel)
}
