package swigext

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
)

// Language identifies the source language of a SourceUnit.
//
// The set is closed; only native C++ is currently supported.
type Language int

const (
	// LanguageCPP is C++ compiled with the native C++ compiler.
	LanguageCPP Language = iota + 1
)

var languageNames = map[Language]string{
	LanguageCPP: "C++",
}

var languageAliases = map[string]Language{
	"c++": LanguageCPP,
	"cpp": LanguageCPP,
	"cxx": LanguageCPP,
}

var languageExtensions = map[Language][]string{
	LanguageCPP: {".cpp", ".cc", ".cxx", ".c++"},
}

// String returns the display name of the language.
func (l Language) String() string {
	if name, ok := languageNames[l]; ok {
		return name
	}
	return fmt.Sprintf("Language(%d)", int(l))
}

// Valid reports whether l is a member of the supported set.
func (l Language) Valid() bool {
	_, ok := languageNames[l]
	return ok
}

// ParseLanguage resolves a language tag such as "C++" or "cpp".
func ParseLanguage(name string) (Language, error) {
	if lang, ok := languageAliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return lang, nil
	}
	return 0, &ConfigurationError{Key: "language", Message: fmt.Sprintf("unsupported language %q", name)}
}

// LanguageForPath infers the language from the file extension of path.
func LanguageForPath(path string) (Language, error) {
	for lang, exts := range languageExtensions {
		if MatchesExtension(path, exts...) {
			return lang, nil
		}
	}
	return 0, &ConfigurationError{Key: "language", Message: fmt.Sprintf("cannot infer language of %s", path)}
}

// SourceUnit is one input file of a build.
type SourceUnit struct {
	Path     string
	Language Language
}

// ModuleName is the module identifier derived from the source file name.
func (s SourceUnit) ModuleName() string {
	base := filepath.Base(s.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// HeaderText is the declaration-only view of a source file.
type HeaderText string

// Lines splits the header into lines without their terminators.
func (h HeaderText) Lines() []string {
	return splitLines(string(h))
}

// DescriptorMode selects how the orchestrator builds the interface descriptor.
type DescriptorMode int

const (
	// DescriptorIncludeHeader writes the header to disk and references it from
	// the descriptor with a single include.
	DescriptorIncludeHeader DescriptorMode = iota

	// DescriptorInlineDeclarations embeds the header's include directives and
	// declarations directly in the descriptor.
	DescriptorInlineDeclarations
)

// BuildConfig contains configuration for the build process.
//
// Tool selection:
//   - Generator: SWIG executable (default "swig", or $SWIGEXT_SWIG)
//   - GeneratorArgs: extra generator flags placed before the descriptor path
//   - Compiler: compiler override; empty selects by Platform
//   - Platform: host platform identifier; empty uses runtime.GOOS
//
// Descriptor options:
//   - Descriptor: DescriptorIncludeHeader or DescriptorInlineDeclarations
//   - StrictByteChar: emit the SWIG_PYTHON_STRICT_BYTE_CHAR block. Some
//     embedded targets (Fedora 25 on ARMv7) produce a broken module with it.
//
// Build behavior:
//   - Env: environment variables for every tool invocation
//   - Verbose: record the command lines in BuildResult.Output
//   - Parallel: concurrent builds in BuildAll (0 = one per source)
//   - StopOnFailure: BuildAll stops scheduling after the first failure
//   - RemoveTempDirOnFailure: delete a library-allocated output directory when
//     the build fails
type BuildConfig struct {
	// Tools
	Generator     string
	GeneratorArgs []string
	Compiler      string
	Platform      string

	// Descriptor
	Descriptor     DescriptorMode
	StrictByteChar bool

	// Build options
	Env      map[string]string
	Verbose  bool
	Parallel int

	// Failure handling
	StopOnFailure          bool
	RemoveTempDirOnFailure bool

	// Logger receives structured build logs; nil uses slog.Default().
	Logger *slog.Logger

	// Runner starts external tools; nil uses an ExecRunner.
	Runner ToolRunner
}

// DefaultBuildConfig returns the standard configuration: C++ binding mode,
// header-include descriptor, strict byte char enabled.
func DefaultBuildConfig() *BuildConfig {
	return &BuildConfig{
		Generator:      generatorExecutable(),
		GeneratorArgs:  []string{"-c++"},
		Descriptor:     DescriptorIncludeHeader,
		StrictByteChar: true,
		Verbose:        mg.Verbose(),
		StopOnFailure:  true,
	}
}

func (c *BuildConfig) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

func (c *BuildConfig) runner() ToolRunner {
	if c.Runner != nil {
		return c.Runner
	}
	return NewExecRunner()
}

// BuildResult contains the output and status of a build.
type BuildResult struct {
	Success bool
	Source  SourceUnit

	// Loader is the path of the Python module that imports the shared library.
	Loader    string
	Artifacts BuildArtifactPaths
	OutputDir *OutputDirectory

	// Header is the derived header text.
	Header HeaderText

	// Invocations holds every external tool result in execution order.
	Invocations []*ToolInvocationResult

	// Output lines gathered from the tools (and command lines when verbose).
	Output []string

	Error error
}
