// SPDX-License-Identifier: MPL-2.0

package script

import (
	"errors"
	"path/filepath"
	"slices"
	"testing"
)

func scriptsRoot(t *testing.T) string {
	t.Helper()
	dir, err := CanonicalPath(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return dir
}

func external(dir, file string, after []string, requires ...Requirement) Descriptor {
	p := filepath.Join(dir, file)
	return Descriptor{Name: file, Pathname: p, AbsolutePath: p, After: after, Requires: requires}
}

func embeddedScript(file string, after []string, requires ...Requirement) Descriptor {
	return Descriptor{Name: file, Pathname: file, AbsolutePath: "<embedded>/" + file, Embedded: true, After: after, Requires: requires}
}

func TestBuildPlan_OrdersAfterAndRequires(t *testing.T) {
	t.Parallel()
	dir := scriptsRoot(t)

	scripts := []Descriptor{
		external(dir, "deploy.sh", []string{"./build.sh"}, Requirement{Script: "login.sh", Variables: []string{"TOKEN"}}),
		external(dir, "build.sh", nil),
		external(dir, "login.sh", nil),
	}

	plan, err := BuildPlan(scripts, []string{dir}, nil)
	if err != nil {
		t.Fatalf("BuildPlan() error = %v", err)
	}

	want := []string{
		filepath.Join(dir, "build.sh"),
		filepath.Join(dir, "login.sh"),
		filepath.Join(dir, "deploy.sh"),
	}
	if got := plan.Pathnames(); !slices.Equal(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}

	reqs := plan.Requirements(filepath.Join(dir, "deploy.sh"))
	if len(reqs) != 1 || reqs[0].Pathname != filepath.Join(dir, "login.sh") || reqs[0].Ref != "login.sh" {
		t.Errorf("Requirements() = %+v", reqs)
	}
}

func TestBuildPlan_ResolutionOrder(t *testing.T) {
	t.Parallel()
	dirA := scriptsRoot(t)
	dirB := scriptsRoot(t)

	t.Run("embedded filename wins", func(t *testing.T) {
		t.Parallel()
		scripts := []Descriptor{
			external(dirA, "main.sh", []string{"common.sh"}),
			external(dirA, "common.sh", nil),
			embeddedScript("common.sh", nil),
		}
		plan, err := BuildPlan(scripts, []string{dirA}, nil)
		if err != nil {
			t.Fatalf("BuildPlan() error = %v", err)
		}
		idxEmbedded := slices.Index(plan.Pathnames(), "common.sh")
		idxMain := slices.Index(plan.Pathnames(), filepath.Join(dirA, "main.sh"))
		if idxEmbedded < 0 || idxEmbedded > idxMain {
			t.Errorf("embedded common.sh must precede main.sh: %v", plan.Pathnames())
		}
	})

	t.Run("own directory before configured dirs", func(t *testing.T) {
		t.Parallel()
		scripts := []Descriptor{
			external(dirB, "use.sh", []string{"./dep.sh"}),
			external(dirA, "dep.sh", nil),
			external(dirB, "dep.sh", nil),
		}
		plan, err := BuildPlan(scripts, []string{dirA, dirB}, nil)
		if err != nil {
			t.Fatalf("BuildPlan() error = %v", err)
		}
		got := plan.Pathnames()
		if slices.Index(got, filepath.Join(dirB, "dep.sh")) > slices.Index(got, filepath.Join(dirB, "use.sh")) {
			t.Errorf("sibling dep.sh must precede use.sh: %v", got)
		}
	})

	t.Run("embedded script resolves through configured dirs", func(t *testing.T) {
		t.Parallel()
		scripts := []Descriptor{
			embeddedScript("builtin.sh", []string{"ext.sh"}),
			external(dirB, "ext.sh", nil),
		}
		plan, err := BuildPlan(scripts, []string{dirA, dirB}, nil)
		if err != nil {
			t.Fatalf("BuildPlan() error = %v", err)
		}
		want := []string{filepath.Join(dirB, "ext.sh"), "builtin.sh"}
		if got := plan.Pathnames(); !slices.Equal(got, want) {
			t.Errorf("order = %v, want %v", got, want)
		}
	})

	t.Run("absolute reference", func(t *testing.T) {
		t.Parallel()
		target := filepath.Join(dirA, "abs.sh")
		scripts := []Descriptor{
			embeddedScript("builtin.sh", []string{target}),
			external(dirA, "abs.sh", nil),
		}
		if _, err := BuildPlan(scripts, nil, nil); err != nil {
			t.Fatalf("BuildPlan() error = %v", err)
		}
	})
}

func TestBuildPlan_DependencyNotFound(t *testing.T) {
	t.Parallel()
	dir := scriptsRoot(t)

	tests := []struct {
		name     string
		script   Descriptor
		ref      string
		required bool
	}{
		{"after", external(dir, "a.sh", []string{"./missing.sh"}), "./missing.sh", false},
		{"requires", external(dir, "a.sh", nil, Requirement{Script: "gone.sh", Variables: []string{"X"}}), "gone.sh", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			plan, err := BuildPlan([]Descriptor{tt.script}, []string{dir}, nil)
			if plan != nil {
				t.Errorf("expected no plan, got %v", plan.Pathnames())
			}
			var nf *DependencyNotFoundError
			if !errors.As(err, &nf) {
				t.Fatalf("expected *DependencyNotFoundError, got %T: %v", err, err)
			}
			if nf.Ref != tt.ref || nf.Script != "a.sh" || nf.Required != tt.required {
				t.Errorf("error = %+v", nf)
			}
			if !errors.Is(err, ErrDependencyNotFound) {
				t.Error("expected errors.Is(err, ErrDependencyNotFound)")
			}
		})
	}
}

func TestBuildPlan_CircularDependency(t *testing.T) {
	t.Parallel()
	dir := scriptsRoot(t)

	scripts := []Descriptor{
		external(dir, "ok.sh", nil),
		external(dir, "a.sh", []string{"b.sh"}),
		external(dir, "b.sh", nil, Requirement{Script: "a.sh", Variables: []string{"X"}}),
	}

	plan, err := BuildPlan(scripts, []string{dir}, nil)
	if plan != nil {
		t.Fatalf("expected no plan on cycle, got %v", plan.Pathnames())
	}
	var cycle *CircularDependencyError
	if !errors.As(err, &cycle) {
		t.Fatalf("expected *CircularDependencyError, got %T: %v", err, err)
	}
	want := []string{filepath.Join(dir, "a.sh"), filepath.Join(dir, "b.sh")}
	if !slices.Equal(cycle.Scripts, want) {
		t.Errorf("Scripts = %v, want %v", cycle.Scripts, want)
	}
	if !errors.Is(err, ErrCircularDependency) {
		t.Error("expected errors.Is(err, ErrCircularDependency)")
	}
}

func TestBuildPlan_DuplicatePathname(t *testing.T) {
	t.Parallel()
	dir := scriptsRoot(t)

	scripts := []Descriptor{
		external(dir, "a.sh", nil),
		external(dir, "b.sh", nil),
		external(dir, "a.sh", nil),
	}
	plan, err := BuildPlan(scripts, []string{dir}, nil)
	if plan != nil {
		t.Fatalf("expected no plan, got %v", plan.Pathnames())
	}
	var dup *DuplicateScriptError
	if !errors.As(err, &dup) {
		t.Fatalf("expected *DuplicateScriptError, got %T: %v", err, err)
	}
	if dup.Pathname != filepath.Join(dir, "a.sh") || !errors.Is(err, ErrDuplicateScript) {
		t.Errorf("DuplicateScriptError = %+v", dup)
	}
}

func TestBuildPlan_DuplicateEdges(t *testing.T) {
	t.Parallel()
	dir := scriptsRoot(t)

	scripts := []Descriptor{
		external(dir, "b.sh", []string{"a.sh", "./a.sh"}, Requirement{Script: "a.sh", Variables: []string{"X"}}),
		external(dir, "a.sh", nil),
	}
	plan, err := BuildPlan(scripts, []string{dir}, nil)
	if err != nil {
		t.Fatalf("BuildPlan() error = %v", err)
	}
	want := []string{filepath.Join(dir, "a.sh"), filepath.Join(dir, "b.sh")}
	if got := plan.Pathnames(); !slices.Equal(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestPlan_SelectAndMissingRequirements(t *testing.T) {
	t.Parallel()
	dir := scriptsRoot(t)

	login := filepath.Join(dir, "login.sh")
	build := filepath.Join(dir, "build.sh")
	deploy := filepath.Join(dir, "deploy.sh")
	scripts := []Descriptor{
		external(dir, "deploy.sh", []string{"build.sh"}, Requirement{Script: "./login.sh", Variables: []string{"TOKEN"}}),
		external(dir, "build.sh", nil),
		external(dir, "login.sh", nil),
	}
	plan, err := BuildPlan(scripts, []string{dir}, nil)
	if err != nil {
		t.Fatalf("BuildPlan() error = %v", err)
	}

	sub := plan.Select([]string{deploy, build})
	if got := sub.Pathnames(); !slices.Equal(got, []string{build, deploy}) {
		t.Errorf("Select() = %v", got)
	}
	if got := sub.Requirements(deploy); len(got) != 1 {
		t.Errorf("selected plan lost requirements: %v", got)
	}

	missing := plan.MissingRequirements([]string{deploy, build})
	if len(missing) != 1 || missing[0].Script != "deploy.sh" || missing[0].Ref != "./login.sh" {
		t.Errorf("MissingRequirements() = %+v", missing)
	}
	if missing := plan.MissingRequirements([]string{deploy, login}); len(missing) != 0 {
		t.Errorf("after deps are not required to be selected: %+v", missing)
	}
}
