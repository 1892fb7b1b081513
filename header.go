package swigext

import (
	"context"
	"fmt"
	"os"
)

// CodeReader loads the raw text of a source file.
type CodeReader interface {
	ReadFile(path string) (string, error)
}

// Parser turns source text into a tool-specific syntax tree.
type Parser interface {
	Parse(ctx context.Context, code, path string) (any, error)
}

// Generalizer converts a tool-specific syntax tree into the generalized,
// language-neutral AST.
type Generalizer interface {
	Generalize(ctx context.Context, tree any, path string) (any, error)
}

// Unparser renders a generalized AST as header-only code: includes and
// forward declarations, no bodies.
type Unparser interface {
	UnparseHeader(ctx context.Context, tree any) (string, error)
}

// FrontEnd is the set of collaborators that derive a header for one language.
// Reader may be nil, in which case FileReader is used.
type FrontEnd struct {
	Reader      CodeReader
	Parser      Parser
	Generalizer Generalizer
	Unparser    Unparser
}

// FileReader reads source files from disk.
type FileReader struct{}

// ReadFile returns the contents of path.
func (FileReader) ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// HeaderGenerator derives HeaderText from a source file through
// read -> parse -> generalize -> unparse.
type HeaderGenerator struct {
	language Language
	frontEnd FrontEnd
}

// NewHeaderGenerator validates the language and front end once; Generate
// does no further dispatch.
func NewHeaderGenerator(lang Language, frontEnd FrontEnd) (*HeaderGenerator, error) {
	if !lang.Valid() {
		return nil, &ConfigurationError{Key: "language", Message: fmt.Sprintf("unsupported language %s", lang)}
	}
	if frontEnd.Parser == nil || frontEnd.Generalizer == nil || frontEnd.Unparser == nil {
		return nil, &ConfigurationError{Key: "frontend", Message: fmt.Sprintf("incomplete front end for %s", lang)}
	}
	if frontEnd.Reader == nil {
		frontEnd.Reader = FileReader{}
	}
	return &HeaderGenerator{language: lang, frontEnd: frontEnd}, nil
}

// Language returns the language this generator handles.
func (g *HeaderGenerator) Language() Language {
	return g.language
}

// Generate creates the header for source. It only reads the input file.
func (g *HeaderGenerator) Generate(ctx context.Context, source SourceUnit) (HeaderText, error) {
	if source.Language != g.language {
		return "", &ConfigurationError{
			Key:     "language",
			Message: fmt.Sprintf("%s is %s, generator handles %s", source.Path, source.Language, g.language),
		}
	}

	code, err := g.frontEnd.Reader.ReadFile(source.Path)
	if err != nil {
		return "", &FrontendError{Path: source.Path, Stage: "read", Err: err}
	}

	tree, err := g.frontEnd.Parser.Parse(ctx, code, source.Path)
	if err != nil {
		return "", &FrontendError{Path: source.Path, Stage: "parse", Err: err}
	}

	general, err := g.frontEnd.Generalizer.Generalize(ctx, tree, source.Path)
	if err != nil {
		return "", &FrontendError{Path: source.Path, Stage: "generalize", Err: err}
	}

	header, err := g.frontEnd.Unparser.UnparseHeader(ctx, general)
	if err != nil {
		return "", &FrontendError{Path: source.Path, Stage: "unparse", Err: err}
	}

	return HeaderText(header), nil
}
