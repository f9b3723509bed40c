// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"os/exec"
	"slices"
	"strings"
	"sync"

	"vss-cli/internal/exports"
	"vss-cli/internal/script"
	"vss-cli/internal/stage"

	"github.com/charmbracelet/log"
)

// stagePrefix is the cache subdirectory embedded scripts are staged into.
const stagePrefix = "script"

var discardLogger = log.New(io.Discard)

// Engine runs a plan of scripts serially.
type Engine struct {
	// Stager materializes the runtime shim and embedded scripts.
	Stager *stage.Stager
	// Stdout receives script output and banners. Defaults to os.Stdout.
	Stdout io.Writer
	// Stderr is handed to interactive scripts. Defaults to os.Stderr.
	Stderr io.Writer
	// Stdin is handed to interactive scripts. Defaults to os.Stdin.
	Stdin io.Reader
	// Logger receives debug output. A nil value discards it.
	Logger *log.Logger
	// Debug sets VSS_DEBUG=1 for every script.
	Debug bool
	// Environ returns the host environment. Defaults to os.Environ.
	Environ func() []string
	// TempDir holds the snapshot files. Defaults to os.TempDir().
	TempDir string
}

// Run executes every script of plan in order and returns the variables they
// exported. It stops at the first script that cannot be started, misses a
// required variable, or exits with a non-zero status. ctx is checked between
// scripts only: a spawned script always runs to completion.
func (e *Engine) Run(ctx context.Context, plan *script.Plan, in Inputs) (ExportMap, error) {
	exported := make(ExportMap)
	if e.Stager == nil {
		return exported, errors.New("engine has no stager")
	}

	runtimePath, err := e.Stager.PrepareRuntime()
	if err != nil {
		return exported, err
	}

	for i, d := range plan.Scripts {
		if err := ctx.Err(); err != nil {
			return exported, err
		}
		vars, err := e.runScript(runtimePath, i, d, plan.Requirements(d.Pathname), in, exported)
		if err != nil {
			return exported, err
		}
		exported.Record(d.Pathname, vars)
	}
	return exported, nil
}

func (e *Engine) runScript(runtimePath string, index int, d script.Descriptor, deps []script.Dependency, in Inputs, exported ExportMap) (map[string]string, error) {
	logger := e.logger()
	out := newPrinter(e.stdout(), d.Label(), colorFor(index))

	logger.Debug("executing script", "script", d.Name, "pathname", d.Pathname)
	out.Plain(fmt.Sprintf("✨ Running %s...", d.Name))

	env, shown, err := buildEnv(d, deps, in, exported, e.Debug)
	if err != nil {
		return nil, err
	}
	for _, v := range shown {
		out.Var(v)
	}

	scriptPath, err := e.Stager.PrepareScript(d, stagePrefix)
	if err != nil {
		return nil, err
	}

	preFile, err := e.createTemp("vss-pre-*")
	if err != nil {
		return nil, err
	}
	defer os.Remove(preFile)
	postFile, err := e.createTemp("vss-post-*")
	if err != nil {
		return nil, err
	}
	defer os.Remove(postFile)

	env[exports.PreEnvFileVar] = preFile
	env[exports.PostEnvFileVar] = postFile
	env["SHELL"] = shellFrom(e.environ())
	logger.Debug("script environment", "script", d.Name, "vars", slices.Sorted(maps.Keys(env)))

	cmd := exec.Command(runtimePath, scriptPath)
	cmd.Env = append(filterVssEnvVars(e.environ()), envToSlice(env)...)

	var parser exports.LineParser
	if d.InheritsStdio() {
		logger.Debug("script stdio mode", "script", d.Name, "mode", "inherit")
		err = e.runInherited(cmd)
	} else {
		logger.Debug("script stdio mode", "script", d.Name, "mode", "piped")
		err = e.runCaptured(cmd, out, &parser)
	}

	code, err := exitCodeOf(err)
	if err != nil {
		return nil, fmt.Errorf("failed to run script %s: %w", d.Name, err)
	}
	logger.Debug("script finished", "script", d.Name, "exit_code", code)

	if !code.IsSuccess() {
		return nil, &ScriptFailedError{Script: d.Name, ExitCode: code}
	}
	if parser.Inside() {
		logger.Warn("export section was not closed", "script", d.Name)
	}

	vars, err := collectExports(&parser, preFile, postFile)
	if err != nil {
		return nil, err
	}
	if len(vars) > 0 {
		logger.Debug("script exported variables", "script", d.Name, "vars", vars)
	}
	return vars, nil
}

func (e *Engine) runInherited(cmd *exec.Cmd) error {
	cmd.Stdin = e.stdin()
	cmd.Stdout = e.stdout()
	cmd.Stderr = e.stderr()
	return cmd.Run()
}

// runCaptured drains stdout through the export parser and stderr verbatim on
// two goroutines. Both drains finish before the process is reaped.
func (e *Engine) runCaptured(cmd *exec.Cmd, out *printer, parser *exports.LineParser) error {
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return err
	}

	logger := e.logger()
	var wg sync.WaitGroup
	wg.Go(func() {
		err := readLines(stdout, func(line string) {
			if l := parser.Process(line); l.Kind == exports.LineRegular {
				out.Line(l.Text)
			}
		})
		if err != nil {
			logger.Debug("stdout drain stopped", "error", err)
		}
	})
	wg.Go(func() {
		if err := readLines(stderr, out.Line); err != nil {
			logger.Debug("stderr drain stopped", "error", err)
		}
	})
	wg.Wait()

	return cmd.Wait()
}

// collectExports merges marker exports with the snapshot diff. Snapshot
// values win over marker values of the same name. Snapshot paths announced
// inside a marker section replace the provisioned ones.
func collectExports(parser *exports.LineParser, preFile, postFile string) (map[string]string, error) {
	vars := parser.Exports()
	if vars == nil {
		vars = make(map[string]string)
	}

	if pre, post := parser.SnapshotFiles(); pre != "" || post != "" {
		if pre != "" {
			preFile = pre
		}
		if post != "" {
			postFile = post
		}
	}

	diff, err := exports.DiffSnapshots(preFile, postFile)
	if err != nil {
		return nil, err
	}
	maps.Copy(vars, diff)
	return vars, nil
}

func (e *Engine) createTemp(pattern string) (string, error) {
	f, err := os.CreateTemp(e.TempDir, pattern)
	if err != nil {
		return "", fmt.Errorf("failed to create snapshot file: %w", err)
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		os.Remove(name)
		return "", fmt.Errorf("failed to create snapshot file: %w", err)
	}
	return name, nil
}

// shellFrom returns SHELL from environ, falling back to DefaultShell.
func shellFrom(environ []string) string {
	for _, kv := range slices.Backward(environ) {
		if v, ok := strings.CutPrefix(kv, "SHELL="); ok && v != "" {
			return v
		}
	}
	return DefaultShell
}

func (e *Engine) stdout() io.Writer {
	if e.Stdout == nil {
		return os.Stdout
	}
	return e.Stdout
}

func (e *Engine) stderr() io.Writer {
	if e.Stderr == nil {
		return os.Stderr
	}
	return e.Stderr
}

func (e *Engine) stdin() io.Reader {
	if e.Stdin == nil {
		return os.Stdin
	}
	return e.Stdin
}

func (e *Engine) environ() []string {
	if e.Environ == nil {
		return os.Environ()
	}
	return e.Environ()
}

func (e *Engine) logger() *log.Logger {
	if e.Logger == nil {
		return discardLogger
	}
	return e.Logger
}
