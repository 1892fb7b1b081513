package swigext

import (
	"fmt"
	"strings"
)

// MatchesExtension checks if a filename has any of the given extensions.
//
// This is a case-insensitive check for file extensions. C++ sources come in
// several spellings (.cpp, .cc, .cxx, .c++), so callers pass all of them.
//
// # Example
//
//	if MatchesExtension("src/add.CPP", ".cpp", ".cc") {
//	    // C++ source
//	}
//
// # Thread Safety
//
// This function is thread-safe and can be called concurrently.
func MatchesExtension(filename string, extensions ...string) bool {
	for _, ext := range extensions {
		if strings.HasSuffix(strings.ToLower(filename), strings.ToLower(ext)) {
			return true
		}
	}
	return false
}

// splitLines splits text on newlines, dropping a single trailing terminator.
// "\r\n" endings are treated as "\n".
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}

// splitFlags splits space separated flag strings from the host configuration
// and drops empty entries.
func splitFlags(values ...string) []string {
	var flags []string
	for _, value := range values {
		flags = append(flags, strings.Fields(value)...)
	}
	return flags
}

// outputBlock formats captured tool output for an error message.
//
// # Format
//
// With output:
//
//	<prefix>
//
//	<label>:
//	line 1
//	line 2
//
// Without output only the prefix is returned.
func outputBlock(prefix, label, output string) string {
	output = strings.TrimRight(output, "\n")
	if output == "" {
		return prefix
	}
	return prefix + "\n\n" + label + ":\n" + output
}

// BuildError creates a standardized stage error with output context.
//
// # Format
//
// With output:
//
//	Link build failed: _add.so not generated
//
//	Build output:
//	ld: warning: ...
//
// Without output only the first line is returned.
func BuildError(stage string, output []string, err error) error {
	prefix := fmt.Sprintf("%s build failed", stage)
	if err != nil {
		prefix = fmt.Sprintf("%s: %v", prefix, err)
	}
	return fmt.Errorf("%s", outputBlock(prefix, "Build output", strings.Join(output, "\n")))
}
