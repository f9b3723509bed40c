// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"testing/fstest"

	"vss-cli/internal/config"
	"vss-cli/internal/script"
	"vss-cli/internal/tui"
)

var errUnexpectedPrompt = errors.New("unexpected prompt")

// fakePrompts answers prompts from queues. An exhausted queue fails the
// prompt with errUnexpectedPrompt.
type fakePrompts struct {
	selection []string
	selectErr error
	inputs    []string
	confirms  []bool
	selects   []string
	multi     [][]string

	selectCalls int
	// collected records the scripts passed to CollectInputs.
	collected []string
	// fill is applied to the args and opts maps by CollectInputs.
	fill func(args, opts map[string]any)
}

func (f *fakePrompts) SelectScripts(*script.Plan, []string) ([]string, error) {
	f.selectCalls++
	return f.selection, f.selectErr
}

func (f *fakePrompts) CollectInputs(_ context.Context, scripts []script.Descriptor, args, opts map[string]any) error {
	for _, s := range scripts {
		f.collected = append(f.collected, s.Pathname)
	}
	if f.fill != nil {
		f.fill(args, opts)
	}
	return nil
}

func (f *fakePrompts) Input(_, _, _ string, validate func(string) error) (string, error) {
	if len(f.inputs) == 0 {
		return "", errUnexpectedPrompt
	}
	v := f.inputs[0]
	f.inputs = f.inputs[1:]
	if validate != nil {
		if err := validate(v); err != nil {
			return "", err
		}
	}
	return v, nil
}

func (f *fakePrompts) Confirm(string, bool) (bool, error) {
	if len(f.confirms) == 0 {
		return false, errUnexpectedPrompt
	}
	v := f.confirms[0]
	f.confirms = f.confirms[1:]
	return v, nil
}

func (f *fakePrompts) SelectString(string, []string) (string, error) {
	if len(f.selects) == 0 {
		return "", errUnexpectedPrompt
	}
	v := f.selects[0]
	f.selects = f.selects[1:]
	return v, nil
}

func (f *fakePrompts) MultiSelect(string, []string, func([]string) error) ([]string, error) {
	if len(f.multi) == 0 {
		return nil, errUnexpectedPrompt
	}
	v := f.multi[0]
	f.multi = f.multi[1:]
	return v, nil
}

// testEnv is an isolated home, working directory and cache for one test.
type testEnv struct {
	home, work, cache string
	stdout, stderr    *bytes.Buffer
	prompts           *fakePrompts
	app               *App
}

func newTestEnv(t *testing.T, prompts *fakePrompts) *testEnv {
	t.Helper()
	if prompts == nil {
		prompts = &fakePrompts{}
	}
	env := &testEnv{
		home:    t.TempDir(),
		work:    t.TempDir(),
		cache:   t.TempDir(),
		stdout:  &bytes.Buffer{},
		stderr:  &bytes.Buffer{},
		prompts: prompts,
	}
	env.app = NewApp(Dependencies{
		ConfigOptions: config.LoadOptions{HomeDir: env.home, WorkDir: env.work},
		Embedded:      fstest.MapFS{},
		Prompts:       prompts,
		Stdout:        env.stdout,
		Stderr:        env.stderr,
		Stdin:         &bytes.Buffer{},
	})
	return env
}

// run executes the command tree with args and a fresh App bound to env.
func (e *testEnv) run(t *testing.T, args ...string) error {
	t.Helper()
	root := NewRootCommand(e.app)
	root.SetArgs(append([]string{"--cache-dir", e.cache}, args...))
	root.SetOut(e.stdout)
	root.SetErr(e.stderr)
	return root.ExecuteContext(context.Background())
}

// globalConfig reads the global document the way a new process would.
func (e *testEnv) globalConfig(t *testing.T) config.Global {
	t.Helper()
	cfg, err := config.Load(config.LoadOptions{HomeDir: e.home, WorkDir: e.work})
	if err != nil {
		t.Fatal(err)
	}
	g, err := cfg.Global.Get()
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func (e *testEnv) appConfig(t *testing.T) config.App {
	t.Helper()
	cfg, err := config.Load(config.LoadOptions{HomeDir: e.home, WorkDir: e.work})
	if err != nil {
		t.Fatal(err)
	}
	a, err := cfg.App.Get()
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func canonicalTempDir(t *testing.T) string {
	t.Helper()
	dir, err := script.CanonicalPath(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return dir
}

func scriptPath(dir, name string) string {
	return filepath.Join(dir, name)
}

func requireBash(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("scripts need a POSIX shell")
	}
	if _, err := exec.LookPath("bash"); err != nil {
		t.Skip("bash not available")
	}
}

func interruptedErr() error {
	return fmt.Errorf("%w: aborted", tui.ErrUserInterrupted)
}
