package swigext

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestIntegrationImportBuiltModule runs the real tools end to end and imports
// the result. It needs swig, g++, python3 and the interpreter's development
// files.
func TestIntegrationImportBuiltModule(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	if runtime.GOOS != "linux" {
		t.Skip("integration test runs on linux")
	}
	for _, tool := range []string{"swig", "g++", "python3"} {
		if CheckToolAvailable(tool) != nil {
			t.Skipf("%s not in PATH", tool)
		}
	}

	ctx := context.Background()
	runner := NewExecRunner()

	host, err := ProbeHostConfig(ctx, runner, "python3")
	if err != nil {
		t.Skipf("cannot probe interpreter: %v", err)
	}
	if _, err := os.Stat(filepath.Join(host.IncludeDir, "Python.h")); err != nil {
		t.Skip("Python.h not installed")
	}
	if _, err := os.Stat(filepath.Join(host.LibDir, host.LDLibrary)); err != nil {
		t.Skipf("%s not installed", host.LDLibrary)
	}

	config := DefaultBuildConfig()
	config.Generator = "swig"
	config.Compiler = "g++"
	config.Logger = testLogger()

	builder, err := NewBuilder(testRegistry(), host, config)
	require.NoError(t, err)
	require.NoError(t, builder.CheckTools())

	source := writeSource(t, t.TempDir(), "add.cpp", addSource)
	result, err := builder.Compile(ctx, source, "")
	require.NoError(t, err, strings.Join(result.Output, "\n"))
	defer func() { _ = result.OutputDir.Release() }()

	script := "import sys; sys.path.insert(0, sys.argv[1]); import add; print(add.add(2, 3))"
	out, err := runner.Run(ctx, ToolInvocation{
		Name: "python3",
		Args: []string{"-c", script, result.Artifacts.Dir},
		Env:  map[string]string{"LD_LIBRARY_PATH": host.LibDir},
	})
	require.NoError(t, err)
	require.True(t, out.Success(), out.Stderr)
	assert.Equal(t, "5", strings.TrimSpace(out.Stdout))
}
