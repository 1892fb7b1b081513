package swigext

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"
	"time"

	"github.com/magefile/mage/sh"
)

// ToolInvocation describes one external tool call.
type ToolInvocation struct {
	// Name is the executable, looked up in PATH when it has no separator.
	Name string
	Args []string

	// Dir is the working directory of the tool. The process working
	// directory is never changed.
	Dir string

	// Env is layered over the current process environment.
	Env map[string]string
}

// Argv returns the full argument vector, executable first.
func (inv ToolInvocation) Argv() []string {
	return append([]string{inv.Name}, inv.Args...)
}

// ToolInvocationResult is the outcome of a tool that was started.
type ToolInvocationResult struct {
	Args     []string
	Dir      string
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration

	// Signaled is true when the tool was terminated by a signal instead of
	// exiting; ExitCode is then -1.
	Signaled bool
}

// Success reports whether the tool exited with status zero.
func (r *ToolInvocationResult) Success() bool {
	return r.ExitCode == 0 && !r.Signaled
}

// CommandLine renders the argument vector for logs and error messages.
func (r *ToolInvocationResult) CommandLine() string {
	return strings.Join(r.Args, " ")
}

// ToolRunner starts external tools.
//
// Run blocks until the tool finishes. A tool that exits nonzero is reported
// through ToolInvocationResult.ExitCode with a nil error; the error is
// reserved for tools that could not be started (*ToolError).
//
// # Thread Safety
//
// Implementations must be safe for concurrent use.
type ToolRunner interface {
	Run(ctx context.Context, inv ToolInvocation) (*ToolInvocationResult, error)
}

// ExecRunner runs tools as child processes.
type ExecRunner struct{}

// NewExecRunner returns a ToolRunner backed by os/exec.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes the tool with its own working directory and captures stdout
// and stderr separately.
func (r *ExecRunner) Run(ctx context.Context, inv ToolInvocation) (*ToolInvocationResult, error) {
	//nolint:gosec // Command comes from the build configuration
	cmd := exec.CommandContext(ctx, inv.Name, inv.Args...)
	cmd.Dir = inv.Dir
	cmd.Env = mergeEnv(os.Environ(), inv.Env)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	result := &ToolInvocationResult{
		Args:     inv.Argv(),
		Dir:      inv.Dir,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, &ToolError{Command: result.Args, Dir: inv.Dir, Err: err}
		}
		result.Signaled = !sh.CmdRan(err)
	}
	result.ExitCode = sh.ExitStatus(err)

	return result, nil
}

// mergeEnv appends overrides to base in key order so that the resulting
// environment is deterministic.
func mergeEnv(base []string, overrides map[string]string) []string {
	if len(overrides) == 0 {
		return base
	}

	keys := make([]string, 0, len(overrides))
	for key := range overrides {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	env := append([]string{}, base...)
	for _, key := range keys {
		env = append(env, fmt.Sprintf("%s=%s", key, overrides[key]))
	}
	return env
}
