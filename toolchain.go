package swigext

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
)

// Platform is a normalized host operating system identifier.
type Platform string

// Platform constants
const (
	PlatformLinux  Platform = "linux"
	PlatformDarwin Platform = "darwin"
)

// compilerTable maps every supported platform to its C++ compiler. A
// platform missing here is unsupported.
var compilerTable = map[Platform]string{
	PlatformLinux:  "g++",
	PlatformDarwin: "clang++",
}

var platformAliases = map[string]Platform{
	"linux":  PlatformLinux,
	"darwin": PlatformDarwin,
	"macos":  PlatformDarwin,
	"osx":    PlatformDarwin,
}

// fixedCompilerFlags precede the host flags on every compile and link.
var fixedCompilerFlags = []string{"-O3", "-fPIC", "-fopenmp"}

const (
	objectSuffix        = ".o"
	sharedLibraryPrefix = "_"
	sharedLibrarySuffix = ".so"
)

// NormalizePlatform maps identifiers such as "Linux", "Darwin" or
// runtime.GOOS values to a Platform. Unknown identifiers are lowercased and
// returned as is; CompilerFor rejects them.
func NormalizePlatform(id string) Platform {
	id = strings.ToLower(strings.TrimSpace(id))
	if platform, ok := platformAliases[id]; ok {
		return platform
	}
	return Platform(id)
}

// HostPlatform returns the normalized platform of the running process.
func HostPlatform() Platform {
	return NormalizePlatform(runtime.GOOS)
}

// SupportedPlatforms lists the platforms with a known compiler, sorted.
func SupportedPlatforms() []Platform {
	platforms := make([]Platform, 0, len(compilerTable))
	for platform := range compilerTable {
		platforms = append(platforms, platform)
	}
	sort.Slice(platforms, func(i, j int) bool { return platforms[i] < platforms[j] })
	return platforms
}

// CompilerFor returns the C++ compiler for platform.
func CompilerFor(platform Platform) (string, error) {
	compiler, ok := compilerTable[platform]
	if !ok {
		return "", &ConfigurationError{
			Key:     "platform",
			Message: fmt.Sprintf("no C++ compiler known for platform %q (supported: %v)", platform, SupportedPlatforms()),
		}
	}
	return compiler, nil
}

// ObjectName is the object file the compiler writes for sourcePath.
func ObjectName(sourcePath string) string {
	base := filepath.Base(sourcePath)
	return strings.TrimSuffix(base, filepath.Ext(base)) + objectSuffix
}

// SharedLibraryName is the file name the interpreter imports for module.
func SharedLibraryName(module string) string {
	return sharedLibraryPrefix + module + sharedLibrarySuffix
}

// Toolchain drives the native compiler and linker.
//
// The compiler also acts as the linker:
//
//	g++ -O3 -fPIC -fopenmp <host flags> -c example.cpp example_wrap.cxx
//	g++ -O3 -fPIC -fopenmp <host flags> -shared example.o example_wrap.o -o _example.so
type Toolchain struct {
	Compiler string
	Platform Platform
	Host     *HostConfig
	Runner   ToolRunner
	Logger   *slog.Logger
	Env      map[string]string
}

// NewToolchain selects the compiler for platform (empty means the host
// platform). compiler, or $SWIGEXT_CXX, overrides the executable but the
// platform must still be supported.
func NewToolchain(platform, compiler string, host *HostConfig, runner ToolRunner, logger *slog.Logger) (*Toolchain, error) {
	if host == nil {
		return nil, &ConfigurationError{Key: "host", Message: "host build configuration is required"}
	}

	p := HostPlatform()
	if platform != "" {
		p = NormalizePlatform(platform)
	}

	selected, err := CompilerFor(p)
	if err != nil {
		return nil, err
	}
	if env := os.Getenv("SWIGEXT_CXX"); env != "" {
		selected = env
	}
	if compiler != "" {
		selected = compiler
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Toolchain{
		Compiler: selected,
		Platform: p,
		Host:     host,
		Runner:   runner,
		Logger:   logger,
	}, nil
}

// CompileArgs returns the compiler arguments for Compile.
func (t *Toolchain) CompileArgs(sourcePath, wrapperPath string) []string {
	args := append([]string{}, fixedCompilerFlags...)
	args = append(args, t.Host.CompileFlags()...)
	return append(args, "-c", sourcePath, wrapperPath)
}

// LinkArgs returns the linker arguments for Link with objects in dir.
func (t *Toolchain) LinkArgs(sourcePath, wrapperPath, dir string) []string {
	args := append([]string{}, fixedCompilerFlags...)
	args = append(args, t.Host.LinkFlags()...)
	return append(args,
		"-shared",
		filepath.Join(dir, ObjectName(sourcePath)),
		filepath.Join(dir, ObjectName(wrapperPath)),
		"-o", filepath.Join(dir, SharedLibraryName(moduleName(sourcePath))))
}

// Compile builds one object file per input in dir.
func (t *Toolchain) Compile(ctx context.Context, sourcePath, wrapperPath, dir string) (*ToolInvocationResult, error) {
	return t.run(ctx, "compile", t.CompileArgs(sourcePath, wrapperPath), dir)
}

// Link combines the source and glue objects in dir into _<module>.so.
func (t *Toolchain) Link(ctx context.Context, sourcePath, wrapperPath, dir string) (*ToolInvocationResult, error) {
	return t.run(ctx, "link", t.LinkArgs(sourcePath, wrapperPath, dir), dir)
}

func (t *Toolchain) run(ctx context.Context, stage string, args []string, dir string) (*ToolInvocationResult, error) {
	inv := ToolInvocation{Name: t.Compiler, Args: args, Dir: dir, Env: t.Env}
	t.Logger.Warn("running C++ compiler", "stage", stage, "command", inv.Argv(), "dir", dir)
	return t.Runner.Run(ctx, inv)
}

// RequiredTools returns the compiler requirement.
func (t *Toolchain) RequiredTools() []ToolRequirement {
	return []ToolRequirement{
		{Name: t.Compiler, Purpose: "C++ compiler and linker"},
	}
}

func moduleName(path string) string {
	return SourceUnit{Path: path}.ModuleName()
}
