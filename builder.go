package swigext

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/magefile/mage/sh"
)

// Builder turns C++ source files into Python extension modules.
//
// # Build Lifecycle
//
//  1. NewBuilder validates the front ends, platform and host configuration
//  2. CheckTools optionally verifies that SWIG and the compiler are in PATH
//  3. Compile runs the pipeline for one source; BuildAll for several
//
// # Thread Safety
//
// A Builder is safe for concurrent use. Tools run with an explicit working
// directory, so concurrent builds only need distinct output directories.
type Builder struct {
	config    *BuildConfig
	headers   map[Language]*HeaderGenerator
	generator *InterfaceGenerator
	toolchain *Toolchain
}

// NewBuilder creates a builder. Front ends are resolved once per language
// here, and an unsupported platform fails before any tool is started.
func NewBuilder(frontEnds *FrontEndRegistry, host *HostConfig, config *BuildConfig) (*Builder, error) {
	if config == nil {
		config = DefaultBuildConfig()
	}
	if frontEnds == nil {
		return nil, &ConfigurationError{Key: "frontend", Message: "front end registry is required"}
	}

	if len(frontEnds.Languages()) == 0 {
		return nil, &ConfigurationError{Key: "frontend", Message: "no front ends registered"}
	}

	headers := map[Language]*HeaderGenerator{}
	for _, lang := range frontEnds.Languages() {
		generator, err := frontEnds.HeaderGeneratorFor(lang)
		if err != nil {
			return nil, err
		}
		headers[lang] = generator
	}

	runner := config.runner()
	logger := config.logger()

	toolchain, err := NewToolchain(config.Platform, config.Compiler, host, runner, logger)
	if err != nil {
		return nil, err
	}
	toolchain.Env = config.Env

	generator := NewInterfaceGenerator(config.Generator, runner, logger)
	generator.Env = config.Env

	return &Builder{
		config:    config,
		headers:   headers,
		generator: generator,
		toolchain: toolchain,
	}, nil
}

// Toolchain returns the compiler driver used by the builder.
func (b *Builder) Toolchain() *Toolchain {
	return b.toolchain
}

// RequiredTools returns the generator and compiler requirements.
func (b *Builder) RequiredTools() []ToolRequirement {
	return append(b.generator.RequiredTools(), b.toolchain.RequiredTools()...)
}

// CheckTools verifies that SWIG and the compiler are available.
func (b *Builder) CheckTools() error {
	return CheckRequiredTools(b.RequiredTools())
}

// Compile builds source into outputDir, or into a new temporary directory
// when outputDir is empty.
//
// The returned result is never nil. On success result.Loader is the path of
// <module>.py, which imports _<module>.so from the same directory. On
// failure the error is one of FrontendError, GenerationError,
// ToolchainError or ConfigurationError (possibly wrapped), and the output
// directory is left in place for inspection unless
// BuildConfig.RemoveTempDirOnFailure is set.
func (b *Builder) Compile(ctx context.Context, source SourceUnit, outputDir string) (*BuildResult, error) {
	state := &buildState{
		source:    source,
		requested: outputDir,
		result:    &BuildResult{Source: source, Output: []string{}},
		logger: b.config.logger().With(
			"build_id", uuid.NewString(),
			"source", source.Path),
		verbose: b.config.Verbose,
	}

	stage, err := runStages(ctx, state, b.steps())
	if err != nil {
		state.logger.Error("build failed", "stage", stage, "error", err)
		if state.dir != nil && state.dir.Temporary && b.config.RemoveTempDirOnFailure {
			if releaseErr := state.dir.Release(); releaseErr != nil {
				err = multierror.Append(err, releaseErr)
			}
		}
		state.result.Error = err
		return state.result, err
	}

	state.result.Success = true
	state.result.Loader = state.paths.Loader
	state.logger.Info("build finished", "loader", state.paths.Loader, "library", state.paths.SharedLibrary)
	return state.result, nil
}

func (b *Builder) steps() []buildStep {
	return []buildStep{
		{StageResolveOutputDir, b.resolveOutputDir},
		{StageGenerateHeader, b.generateHeader},
		{StageWriteHeader, b.writeHeader},
		{StageSynthesizeDescriptor, b.synthesizeDescriptor},
		{StageCopySource, b.copySource},
		{StageWriteDescriptor, b.writeDescriptor},
		{StageInvokeGenerator, b.invokeGenerator},
		{StageCompile, b.compile},
		{StageLink, b.link},
	}
}

func (b *Builder) resolveOutputDir(_ context.Context, s *buildState) error {
	if s.source.Language == 0 {
		lang, err := LanguageForPath(s.source.Path)
		if err != nil {
			return err
		}
		s.source.Language = lang
		s.result.Source = s.source
	}

	dir, err := ResolveOutputDirectory(s.requested)
	if err != nil {
		return err
	}

	s.dir = dir
	s.paths = ArtifactPathsFor(s.source, dir.Path)
	s.result.OutputDir = dir
	s.result.Artifacts = s.paths
	s.logger = s.logger.With("output_dir", dir.Path)
	return nil
}

func (b *Builder) generateHeader(ctx context.Context, s *buildState) error {
	generator, ok := b.headers[s.source.Language]
	if !ok {
		return &ConfigurationError{Key: "frontend", Message: fmt.Sprintf("no front end registered for %s", s.source.Language)}
	}

	header, err := generator.Generate(ctx, s.source)
	if err != nil {
		return err
	}

	s.header = header
	s.result.Header = header
	s.logger.Debug("unparsed raw header file", "header", string(header))
	return nil
}

func (b *Builder) writeHeader(_ context.Context, s *buildState) error {
	if err := os.WriteFile(s.paths.Header, []byte(s.header), 0o644); err != nil {
		return fmt.Errorf("write header %s: %w", s.paths.Header, err)
	}
	return nil
}

func (b *Builder) synthesizeDescriptor(_ context.Context, s *buildState) error {
	switch b.config.Descriptor {
	case DescriptorIncludeHeader:
		s.descriptor = FromExistingHeader(s.paths.rel(s.paths.Header), s.paths.Module, b.config.StrictByteChar)
	case DescriptorInlineDeclarations:
		s.descriptor = FromHeader(s.header, s.paths.Module)
	default:
		return &ConfigurationError{Key: "descriptor", Message: fmt.Sprintf("unknown descriptor mode %d", b.config.Descriptor)}
	}
	return nil
}

func (b *Builder) copySource(_ context.Context, s *buildState) error {
	if sameFile(s.source.Path, s.paths.Source) {
		return nil
	}
	if err := sh.Copy(s.paths.Source, s.source.Path); err != nil {
		return fmt.Errorf("copy source into %s: %w", s.paths.Dir, err)
	}
	return nil
}

func (b *Builder) writeDescriptor(_ context.Context, s *buildState) error {
	text := s.descriptor.Render()
	s.logger.Debug("SWIG interface", "descriptor", text)

	if previous, err := os.ReadFile(s.paths.Descriptor); err == nil {
		if diff := DescriptorDiff(s.descriptor.FileName(), string(previous), text); diff != "" {
			s.logger.Debug("replacing stale SWIG interface", "diff", diff)
		}
	}

	if err := os.WriteFile(s.paths.Descriptor, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write descriptor %s: %w", s.paths.Descriptor, err)
	}
	return nil
}

func (b *Builder) invokeGenerator(ctx context.Context, s *buildState) error {
	result, err := b.generator.Invoke(ctx, s.paths.rel(s.paths.Descriptor), s.paths.Dir, b.config.GeneratorArgs...)
	if err != nil {
		return err
	}
	s.record(result)

	if !result.Success() {
		return &GenerationError{
			Command:    result.Args,
			SourcePath: s.source.Path,
			HeaderPath: s.paths.Header,
			Header:     s.header,
			Stdout:     result.Stdout,
			Stderr:     result.Stderr,
			ExitCode:   result.ExitCode,
			OutputDir:  s.paths.Dir,
		}
	}

	return requireFiles("SWIG", s.result.Output, s.paths.Wrapper, s.paths.Loader)
}

func (b *Builder) compile(ctx context.Context, s *buildState) error {
	result, err := b.toolchain.Compile(ctx, s.paths.rel(s.paths.Source), s.paths.rel(s.paths.Wrapper), s.paths.Dir)
	if err != nil {
		return err
	}
	if err := b.checkToolchain(s, StageCompile, result); err != nil {
		return err
	}
	return requireFiles("Compile", s.result.Output, s.paths.SourceObject, s.paths.WrapperObject)
}

func (b *Builder) link(ctx context.Context, s *buildState) error {
	result, err := b.toolchain.Link(ctx, s.paths.rel(s.paths.Source), s.paths.rel(s.paths.Wrapper), s.paths.Dir)
	if err != nil {
		return err
	}
	if err := b.checkToolchain(s, StageLink, result); err != nil {
		return err
	}
	return requireFiles("Link", s.result.Output, s.paths.SharedLibrary)
}

func (b *Builder) checkToolchain(s *buildState, stage Stage, result *ToolInvocationResult) error {
	s.record(result)
	if result.Success() {
		return nil
	}
	return &ToolchainError{
		Stage:      string(stage),
		Command:    result.Args,
		SourcePath: s.source.Path,
		Stdout:     result.Stdout,
		Stderr:     result.Stderr,
		ExitCode:   result.ExitCode,
		OutputDir:  s.paths.Dir,
	}
}

// requireFiles checks that a tool that reported success left its outputs.
func requireFiles(stage string, output []string, paths ...string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			return BuildError(stage, output, fmt.Errorf("%s not generated", filepath.Base(path)))
		}
	}
	return nil
}

func sameFile(a, b string) bool {
	infoA, err := os.Stat(a)
	if err != nil {
		return false
	}
	infoB, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(infoA, infoB)
}
