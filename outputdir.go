package swigext

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/sh"
)

const tempDirPattern = "swigext-*"

// OutputDirectory holds the artifacts of one build.
//
// A directory passed in by the caller is created when missing and never
// removed by this package. A directory allocated by ResolveOutputDirectory
// is Temporary: it survives the build so the artifacts stay usable, and the
// caller decides when to Release it.
type OutputDirectory struct {
	Path      string
	Temporary bool
}

// ResolveOutputDirectory returns dir as an absolute path, creating it if
// needed, or allocates a new temporary directory when dir is empty.
func ResolveOutputDirectory(dir string) (*OutputDirectory, error) {
	if dir == "" {
		path, err := os.MkdirTemp("", tempDirPattern)
		if err != nil {
			return nil, fmt.Errorf("create temporary output directory: %w", err)
		}
		return &OutputDirectory{Path: path, Temporary: true}, nil
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve output directory %s: %w", dir, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory %s: %w", abs, err)
	}
	return &OutputDirectory{Path: abs}, nil
}

// Release removes a temporary directory and everything in it. It is a no-op
// for caller supplied directories and safe to call more than once.
func (d *OutputDirectory) Release() error {
	if d == nil || !d.Temporary || d.Path == "" {
		return nil
	}
	if err := sh.Rm(d.Path); err != nil {
		return fmt.Errorf("remove output directory %s: %w", d.Path, err)
	}
	d.Temporary = false
	return nil
}

// Keep turns a temporary directory into a retained one; Release will no
// longer remove it.
func (d *OutputDirectory) Keep() {
	d.Temporary = false
}
