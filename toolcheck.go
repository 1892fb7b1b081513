package swigext

import (
	"fmt"
	"os/exec"
	"strings"
)

// ToolChecker is implemented by components that start external tools.
//
// Call CheckTools before a build to fail fast with a readable message
// instead of a ToolError from the middle of the pipeline:
//
//	if err := builder.CheckTools(); err != nil {
//	    return fmt.Errorf("build tools missing: %w", err)
//	}
type ToolChecker interface {
	// RequiredTools returns the tools this component runs.
	RequiredTools() []ToolRequirement

	// CheckTools returns nil when every required tool is in PATH.
	CheckTools() error
}

// ToolRequirement describes one external tool.
//
// Examples:
//
//	ToolRequirement{Name: "swig", Purpose: "SWIG interface generator"}
//	ToolRequirement{Name: "python3", Alternatives: []string{"python"}, Optional: true}
type ToolRequirement struct {
	// Name is the executable name or path.
	Name string

	// Alternatives satisfy the requirement when Name is missing.
	Alternatives []string

	// Optional tools never produce an error.
	Optional bool

	// Purpose is shown next to the tool name in errors.
	Purpose string
}

// CheckToolAvailable returns an error when tool is not found in PATH.
func CheckToolAvailable(tool string) error {
	if _, err := exec.LookPath(tool); err != nil {
		return fmt.Errorf("%s not found in PATH", tool)
	}
	return nil
}

// CheckRequiredTools checks each requirement and its alternatives.
//
// Error format, single missing tool:
//
//	swig not found in PATH (required for: SWIG interface generator)
//
// Multiple missing tools:
//
//	missing required tools: swig (SWIG interface generator), g++ (C++ compiler and linker)
func CheckRequiredTools(requirements []ToolRequirement) error {
	var missing []ToolRequirement

	for _, req := range requirements {
		if req.Optional || toolFound(req) {
			continue
		}
		missing = append(missing, req)
	}

	switch len(missing) {
	case 0:
		return nil
	case 1:
		if missing[0].Purpose == "" {
			return fmt.Errorf("%s not found in PATH", missing[0].Name)
		}
		return fmt.Errorf("%s not found in PATH (required for: %s)", missing[0].Name, missing[0].Purpose)
	}

	names := make([]string, len(missing))
	for i, req := range missing {
		names[i] = req.Name
		if req.Purpose != "" {
			names[i] = fmt.Sprintf("%s (%s)", req.Name, req.Purpose)
		}
	}
	return fmt.Errorf("missing required tools: %s", strings.Join(names, ", "))
}

func toolFound(req ToolRequirement) bool {
	if CheckToolAvailable(req.Name) == nil {
		return true
	}
	for _, alt := range req.Alternatives {
		if CheckToolAvailable(alt) == nil {
			return true
		}
	}
	return false
}
