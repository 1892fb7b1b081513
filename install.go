package swigext

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/sh"
)

// Install copies the importable part of a successful build, the loader and
// the shared library, into dest and returns the installed paths. After
// installing, dest on the interpreter's module search path is enough to
// import the module; the rest of the output directory may be released.
func Install(result *BuildResult, dest string) ([]string, error) {
	if result == nil || !result.Success {
		return nil, fmt.Errorf("install: build did not succeed")
	}
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return nil, fmt.Errorf("install: create %s: %w", dest, err)
	}

	var installed []string
	for _, src := range []string{result.Artifacts.Loader, result.Artifacts.SharedLibrary} {
		target := filepath.Join(dest, filepath.Base(src))
		if sameFile(src, target) {
			installed = append(installed, target)
			continue
		}
		if err := sh.Copy(target, src); err != nil {
			return installed, fmt.Errorf("install %s: %w", filepath.Base(src), err)
		}
		installed = append(installed, target)
	}
	return installed, nil
}
