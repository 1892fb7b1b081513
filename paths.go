package swigext

import (
	"path/filepath"
)

const (
	headerSuffix     = ".hpp"
	descriptorSuffix = ".i"
	wrapperSuffix    = "_wrap.cxx"
	loaderSuffix     = ".py"
)

// BuildArtifactPaths lists every file a build writes, all under Dir.
//
// For module "add" built from add.cpp:
//
//	add.hpp        header
//	add.i          descriptor
//	add.cpp        copied source
//	add_wrap.cxx   glue source (written by SWIG)
//	add.py         loader (written by SWIG)
//	add.o          source object
//	add_wrap.o     glue object
//	_add.so        shared library
type BuildArtifactPaths struct {
	Dir           string
	Module        string
	Header        string
	Descriptor    string
	Source        string
	Wrapper       string
	Loader        string
	SourceObject  string
	WrapperObject string
	SharedLibrary string
}

// ArtifactPathsFor derives the artifact paths of source built in dir.
func ArtifactPathsFor(source SourceUnit, dir string) BuildArtifactPaths {
	module := source.ModuleName()
	wrapper := filepath.Join(dir, module+wrapperSuffix)
	copied := filepath.Join(dir, filepath.Base(source.Path))

	return BuildArtifactPaths{
		Dir:           dir,
		Module:        module,
		Header:        filepath.Join(dir, module+headerSuffix),
		Descriptor:    filepath.Join(dir, module+descriptorSuffix),
		Source:        copied,
		Wrapper:       wrapper,
		Loader:        filepath.Join(dir, module+loaderSuffix),
		SourceObject:  filepath.Join(dir, ObjectName(copied)),
		WrapperObject: filepath.Join(dir, ObjectName(wrapper)),
		SharedLibrary: filepath.Join(dir, SharedLibraryName(module)),
	}
}

// All returns every artifact path in pipeline order.
func (p BuildArtifactPaths) All() []string {
	return []string{
		p.Header, p.Descriptor, p.Source, p.Wrapper, p.Loader,
		p.SourceObject, p.WrapperObject, p.SharedLibrary,
	}
}

// rel returns path relative to the artifact directory, for arguments of tools
// that run inside it.
func (p BuildArtifactPaths) rel(path string) string {
	if rel, err := filepath.Rel(p.Dir, path); err == nil {
		return rel
	}
	return path
}
