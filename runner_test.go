package swigext

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skipWithoutShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	if CheckToolAvailable("sh") != nil {
		t.Skip("sh not in PATH")
	}
}

func TestExecRunnerCapturesOutputAndExitStatus(t *testing.T) {
	skipWithoutShell(t)

	result, err := NewExecRunner().Run(context.Background(), ToolInvocation{
		Name: "sh",
		Args: []string{"-c", "echo out; echo err >&2; exit 3"},
		Dir:  t.TempDir(),
	})
	require.NoError(t, err)

	assert.Equal(t, 3, result.ExitCode)
	assert.False(t, result.Success())
	assert.False(t, result.Signaled)
	assert.Equal(t, "out\n", result.Stdout)
	assert.Equal(t, "err\n", result.Stderr)
	assert.Equal(t, "sh", result.Args[0])
}

func TestExecRunnerUsesWorkingDirectory(t *testing.T) {
	skipWithoutShell(t)

	before, err := os.Getwd()
	require.NoError(t, err)

	dir := t.TempDir()
	result, err := NewExecRunner().Run(context.Background(), ToolInvocation{
		Name: "sh",
		Args: []string{"-c", "pwd; touch marker"},
		Dir:  dir,
	})
	require.NoError(t, err)
	require.True(t, result.Success())

	want, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	got, err := filepath.EvalSymlinks(strings.TrimSpace(result.Stdout))
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.FileExists(t, filepath.Join(dir, "marker"))

	after, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestExecRunnerEnvironment(t *testing.T) {
	skipWithoutShell(t)

	result, err := NewExecRunner().Run(context.Background(), ToolInvocation{
		Name: "sh",
		Args: []string{"-c", `printf %s "$SWIGEXT_TEST_VALUE"`},
		Env:  map[string]string{"SWIGEXT_TEST_VALUE": "from-invocation"},
	})
	require.NoError(t, err)
	assert.Equal(t, "from-invocation", result.Stdout)
}

func TestExecRunnerMissingTool(t *testing.T) {
	dir := t.TempDir()
	_, err := NewExecRunner().Run(context.Background(), ToolInvocation{
		Name: filepath.Join(dir, "no-such-tool"),
		Dir:  dir,
	})

	var toolErr *ToolError
	require.True(t, errors.As(err, &toolErr))
	assert.Equal(t, dir, toolErr.Dir)
	assert.Contains(t, err.Error(), "no-such-tool")
}

func TestMergeEnv(t *testing.T) {
	base := []string{"PATH=/bin"}
	assert.Equal(t, base, mergeEnv(base, nil))
	assert.Equal(t,
		[]string{"PATH=/bin", "A=1", "B=2"},
		mergeEnv(base, map[string]string{"B": "2", "A": "1"}))
	assert.Equal(t, []string{"PATH=/bin"}, base)
}

func TestToolInvocationArgv(t *testing.T) {
	inv := ToolInvocation{Name: "swig", Args: []string{"-python", "add.i"}}
	assert.Equal(t, []string{"swig", "-python", "add.i"}, inv.Argv())

	result := &ToolInvocationResult{Args: inv.Argv()}
	assert.Equal(t, "swig -python add.i", result.CommandLine())
	assert.True(t, result.Success())

	result.Signaled = true
	assert.False(t, result.Success())
}
