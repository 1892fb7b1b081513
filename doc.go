// Package swigext builds loadable Python extension modules from C++ source files.
//
// A build derives a declaration-only header from the source, writes a SWIG
// interface descriptor for it, runs SWIG to produce the glue source, and then
// drives the native compiler and linker to produce the shared library.
//
// # Basic Usage
//
// Provide a front end for C++ (reader, parser, generalizer, header unparser)
// and the host build configuration of the embedding interpreter:
//
//	host, err := swigext.ProbeHostConfig(ctx, swigext.NewExecRunner(), "python3")
//	if err != nil {
//	    return err
//	}
//
//	builder, err := swigext.NewBuilder(frontEnds, host, swigext.DefaultBuildConfig())
//	if err != nil {
//	    return err
//	}
//
//	source := swigext.SourceUnit{Path: "src/add.cpp", Language: swigext.LanguageCPP}
//	result, err := builder.Compile(ctx, source, "build/add")
//	// result.Loader is build/add/add.py
//
// # Pipeline
//
// Each build runs these stages in strict order:
//
//	resolve output dir
//	├── generate header    (FrontEnd)
//	├── write header       (<module>.hpp)
//	├── synthesize descriptor
//	├── copy source
//	├── write descriptor   (<module>.i)
//	├── invoke generator   (swig -python -c++ <module>.i)
//	├── compile            (g++ / clang++ -c)
//	└── link               (-shared -o _<module>.so)
//
// A failing stage aborts the build with a typed error: FrontendError,
// GenerationError, ToolchainError or ConfigurationError. Tool errors carry the
// command line, captured output and output directory so the failure can be
// reproduced by hand.
//
// # Working Directory
//
// External tools are started with an explicit working directory. The process
// working directory is never changed, so builds in distinct output directories
// can run concurrently (see Builder.BuildAll).
//
// # Platform Support
//
// Linux (g++) and macOS (clang++). Other platforms fail with a
// ConfigurationError before any tool is started.
package swigext
