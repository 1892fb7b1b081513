package swigext

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

const addSource = `#include <cstdio>

int add(int a, int b) {
    return a + b;
}
`

// fakeRunner is a ToolRunner test double. It records every invocation and,
// for tools that succeed, writes the files the real tool would write.
type fakeRunner struct {
	mu    sync.Mutex
	calls []ToolInvocation

	// exit and stderr are keyed by stage: "swig", "compile" or "link".
	exit   map[string]int
	stderr map[string]string

	// handler, if set, replaces the default behavior entirely.
	handler func(inv ToolInvocation) (*ToolInvocationResult, error)
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{exit: map[string]int{}, stderr: map[string]string{}}
}

func (f *fakeRunner) Run(_ context.Context, inv ToolInvocation) (*ToolInvocationResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, inv)
	f.mu.Unlock()

	if f.handler != nil {
		return f.handler(inv)
	}

	stage := fakeStage(inv)
	result := &ToolInvocationResult{
		Args:     inv.Argv(),
		Dir:      inv.Dir,
		ExitCode: f.exit[stage],
		Stderr:   f.stderr[stage],
	}
	if result.ExitCode != 0 {
		return result, nil
	}

	if err := fakeOutputs(stage, inv); err != nil {
		return nil, err
	}
	return result, nil
}

func (f *fakeRunner) stages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	stages := make([]string, len(f.calls))
	for i, inv := range f.calls {
		stages[i] = fakeStage(inv)
	}
	return stages
}

func (f *fakeRunner) invocations() []ToolInvocation {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ToolInvocation{}, f.calls...)
}

func fakeStage(inv ToolInvocation) string {
	switch {
	case inv.Name == "swig":
		return "swig"
	case indexOf(inv.Args, "-shared") >= 0:
		return "link"
	case indexOf(inv.Args, "-c") >= 0:
		return "compile"
	}
	return inv.Name
}

func fakeOutputs(stage string, inv ToolInvocation) error {
	resolve := func(path string) string {
		if filepath.IsAbs(path) {
			return path
		}
		return filepath.Join(inv.Dir, path)
	}

	switch stage {
	case "swig":
		descriptor := inv.Args[len(inv.Args)-1]
		module := strings.TrimSuffix(filepath.Base(descriptor), descriptorSuffix)
		if err := os.WriteFile(filepath.Join(inv.Dir, module+wrapperSuffix), []byte("// glue\n"), 0o644); err != nil {
			return err
		}
		return os.WriteFile(filepath.Join(inv.Dir, module+loaderSuffix), []byte("# loader\n"), 0o644)
	case "compile":
		for _, input := range inv.Args[indexOf(inv.Args, "-c")+1:] {
			if err := os.WriteFile(filepath.Join(inv.Dir, ObjectName(input)), []byte("obj"), 0o644); err != nil {
				return err
			}
		}
	case "link":
		for _, object := range inv.Args[indexOf(inv.Args, "-shared")+1 : indexOf(inv.Args, "-o")] {
			if _, err := os.Stat(resolve(object)); err != nil {
				return errors.New("link input missing: " + object)
			}
		}
		return os.WriteFile(resolve(inv.Args[indexOf(inv.Args, "-o")+1]), []byte("lib"), 0o755)
	}
	return nil
}

func indexOf(values []string, want string) int {
	for i, value := range values {
		if value == want {
			return i
		}
	}
	return -1
}

type passThrough struct{}

func (passThrough) Parse(_ context.Context, code, _ string) (any, error) { return code, nil }

func (passThrough) Generalize(_ context.Context, tree any, _ string) (any, error) { return tree, nil }

// declarationUnparser turns "ret name(args) {" lines into forward
// declarations and keeps include directives; bodies are dropped.
type declarationUnparser struct{}

func (declarationUnparser) UnparseHeader(_ context.Context, tree any) (string, error) {
	code, ok := tree.(string)
	if !ok {
		return "", errors.New("unexpected tree type")
	}

	var lines []string
	for _, line := range splitLines(code) {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, IncludePrefix):
			lines = append(lines, trimmed)
		case strings.HasSuffix(trimmed, "{") && strings.Contains(trimmed, "(") && !strings.HasPrefix(line, " "):
			lines = append(lines, strings.TrimSpace(strings.TrimSuffix(trimmed, "{"))+";")
		}
	}
	return strings.Join(lines, "\n") + "\n", nil
}

type failingStage struct{ err error }

func (f failingStage) Parse(context.Context, string, string) (any, error) { return nil, f.err }

func testFrontEnd() FrontEnd {
	return FrontEnd{Parser: passThrough{}, Generalizer: passThrough{}, Unparser: declarationUnparser{}}
}

func testRegistry() *FrontEndRegistry {
	registry := NewFrontEndRegistry()
	registry.Register(LanguageCPP, testFrontEnd())
	return registry
}

func testHostConfig() *HostConfig {
	return &HostConfig{
		IncludeDir:    "/usr/include/python3.12",
		BaseCFlags:    "-Wno-unused-result -Wsign-compare",
		LibDir:        "/usr/lib",
		LDLibrary:     "libpython3.12.so",
		Libs:          "-ldl",
		SysLibs:       "-lm",
		LinkForShared: "-Xlinker -export-dynamic",
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(runner ToolRunner) *BuildConfig {
	config := DefaultBuildConfig()
	config.Generator = "swig"
	config.Compiler = "g++"
	config.Platform = "linux"
	config.Runner = runner
	config.Logger = testLogger()
	return config
}

func writeSource(t *testing.T, dir, name, content string) SourceUnit {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return SourceUnit{Path: path, Language: LanguageCPP}
}

func newTestBuilder(t *testing.T, config *BuildConfig) *Builder {
	t.Helper()
	builder, err := NewBuilder(testRegistry(), testHostConfig(), config)
	require.NoError(t, err)
	return builder
}
