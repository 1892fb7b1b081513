package swigext

import (
	"context"
	"log/slog"
	"os"
)

const (
	defaultGenerator  = "swig"
	pythonBindingFlag = "-python"
)

// generatorExecutable returns the SWIG executable, honoring $SWIGEXT_SWIG.
func generatorExecutable() string {
	if swig := os.Getenv("SWIGEXT_SWIG"); swig != "" {
		return swig
	}
	return defaultGenerator
}

// InterfaceGenerator runs the SWIG binding generator.
//
// For C extensions:
//
//	swig -python example.i
//
// For C++ extensions pass "-c++" as an extra flag:
//
//	swig -python -c++ example.i
type InterfaceGenerator struct {
	Executable string
	Runner     ToolRunner
	Logger     *slog.Logger

	// Env is layered over the process environment for every run.
	Env map[string]string
}

// NewInterfaceGenerator returns a generator using executable, or the default
// SWIG executable when it is empty.
func NewInterfaceGenerator(executable string, runner ToolRunner, logger *slog.Logger) *InterfaceGenerator {
	if executable == "" {
		executable = generatorExecutable()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &InterfaceGenerator{Executable: executable, Runner: runner, Logger: logger}
}

// Invoke runs the generator on descriptorPath with dir as its working
// directory. SWIG writes the glue source and loader relative to dir.
//
// A nonzero exit status is returned in the result, not as an error.
func (g *InterfaceGenerator) Invoke(ctx context.Context, descriptorPath, dir string, extraArgs ...string) (*ToolInvocationResult, error) {
	args := append([]string{pythonBindingFlag}, extraArgs...)
	args = append(args, descriptorPath)

	inv := ToolInvocation{Name: g.Executable, Args: args, Dir: dir, Env: g.Env}
	g.Logger.Info("running SWIG", "command", inv.Argv(), "dir", dir)
	return g.Runner.Run(ctx, inv)
}

// RequiredTools returns the generator requirement.
func (g *InterfaceGenerator) RequiredTools() []ToolRequirement {
	return []ToolRequirement{
		{Name: g.Executable, Purpose: "SWIG interface generator"},
	}
}
