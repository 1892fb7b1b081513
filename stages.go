package swigext

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Stage names a step of the build pipeline.
type Stage string

// Pipeline stages in execution order.
const (
	StageResolveOutputDir     Stage = "resolve_output_dir"
	StageGenerateHeader       Stage = "generate_header"
	StageWriteHeader          Stage = "write_header"
	StageSynthesizeDescriptor Stage = "synthesize_descriptor"
	StageCopySource           Stage = "copy_source"
	StageWriteDescriptor      Stage = "write_descriptor"
	StageInvokeGenerator      Stage = "invoke_generator"
	StageCompile              Stage = "compile"
	StageLink                 Stage = "link"
)

// buildState is threaded through the stages of one build. Each stage reads
// what its predecessors produced and fills in its own part.
type buildState struct {
	source     SourceUnit
	requested  string
	dir        *OutputDirectory
	paths      BuildArtifactPaths
	header     HeaderText
	descriptor *InterfaceDescriptor
	result     *BuildResult
	logger     *slog.Logger
	verbose    bool
}

// buildStep is one named step of the pipeline.
type buildStep struct {
	Stage Stage
	Run   func(ctx context.Context, state *buildState) error
}

// runStages executes steps in order.
//
// # Process Flow
//
//  1. Check the context before each step
//  2. Run the step
//  3. Stop at the first error and return it
//
// No step starts before its predecessor returned, so every file a step
// reads is already on disk. The stage of the failing step is returned with
// the error.
func runStages(ctx context.Context, state *buildState, steps []buildStep) (Stage, error) {
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return step.Stage, err
		}

		state.logger.Debug("build stage", "stage", step.Stage)
		if err := step.Run(ctx, state); err != nil {
			return step.Stage, err
		}
	}
	return "", nil
}

// record appends a tool result to the build result, with the command line
// first when verbose.
func (s *buildState) record(r *ToolInvocationResult) {
	s.result.Invocations = append(s.result.Invocations, r)

	if s.verbose {
		s.result.Output = append(s.result.Output,
			fmt.Sprintf("Running: %s", r.CommandLine()),
			fmt.Sprintf("Working directory: %s", r.Dir))
	}
	for _, text := range []string{r.Stdout, r.Stderr} {
		if strings.TrimSpace(text) != "" {
			s.result.Output = append(s.result.Output, splitLines(text)...)
		}
	}
}
