package swigext

import (
	"fmt"
	"strings"
)

// FrontendError reports that header derivation failed in one of the front-end
// stages (read, parse, generalize, unparse).
type FrontendError struct {
	Path  string
	Stage string
	Err   error
}

func (e *FrontendError) Error() string {
	return fmt.Sprintf("failed to create header for %q: %s: %v", e.Path, e.Stage, e.Err)
}

func (e *FrontendError) Unwrap() error {
	return e.Err
}

// GenerationError reports that the interface generator exited nonzero.
//
// It carries everything needed to rerun the generator by hand: the command,
// the source and header, the captured stderr and the output directory.
type GenerationError struct {
	Command    []string
	SourcePath string
	HeaderPath string
	Header     HeaderText
	Stdout     string
	Stderr     string
	ExitCode   int
	OutputDir  string
}

func (e *GenerationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s -- failed to create SWIG interface for %q (exit status %d):\n\"\"\"\n%s\"\"\"\n",
		strings.Join(e.Command, " "), e.SourcePath, e.ExitCode, e.Stderr)
	fmt.Fprintf(&b, "The header %q is:\n\"\"\"%s\"\"\"\n", e.HeaderPath, e.Header)
	fmt.Fprintf(&b, "Examine folder %q for details", e.OutputDir)
	return b.String()
}

// ToolchainError reports that the native compiler or linker exited nonzero.
type ToolchainError struct {
	Stage      string // "compile" or "link"
	Command    []string
	SourcePath string
	Stdout     string
	Stderr     string
	ExitCode   int
	OutputDir  string
}

func (e *ToolchainError) Error() string {
	prefix := fmt.Sprintf("%s failed for %q (exit status %d): %s\nExamine folder %q for details",
		e.Stage, e.SourcePath, e.ExitCode, strings.Join(e.Command, " "), e.OutputDir)
	return outputBlock(outputBlock(prefix, "Stdout", e.Stdout), "Stderr", e.Stderr)
}

// ConfigurationError reports an unsupported platform or language, or missing
// host build configuration.
type ConfigurationError struct {
	Key     string
	Message string
}

func (e *ConfigurationError) Error() string {
	if e.Key == "" {
		return "configuration error: " + e.Message
	}
	return fmt.Sprintf("configuration error (%s): %s", e.Key, e.Message)
}

// ToolError reports that an external tool could not be started at all.
// A tool that starts and exits nonzero is not a ToolError.
type ToolError struct {
	Command []string
	Dir     string
	Err     error
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("failed to run %s in %s: %v", strings.Join(e.Command, " "), e.Dir, e.Err)
}

func (e *ToolError) Unwrap() error {
	return e.Err
}
