package swigext

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// IncludePrefix marks a header line as an include directive.
const IncludePrefix = "#include"

// InterfaceDescriptor is a SWIG interface document.
//
// Two forms exist:
//   - inline: built by FromHeader, embeds include directives and declarations
//   - header reference: built by FromExistingHeader, includes a header file
//     and asks SWIG to bind all of it
type InterfaceDescriptor struct {
	Module string

	// Inline form.
	Includes     []string
	Declarations []string

	// Header reference form.
	HeaderPath     string
	StrictByteChar bool
}

// ClassifyLines partitions header lines into include directives and
// everything else. Both slices keep the original relative order; blank lines
// and comments stay with the declarations.
func ClassifyLines(header HeaderText) (includes, declarations []string) {
	for _, line := range header.Lines() {
		if strings.HasPrefix(line, IncludePrefix) {
			includes = append(includes, line)
		} else {
			declarations = append(declarations, line)
		}
	}
	return includes, declarations
}

// FromHeader builds an inline descriptor from header text.
func FromHeader(header HeaderText, module string) *InterfaceDescriptor {
	includes, declarations := ClassifyLines(header)
	return &InterfaceDescriptor{
		Module:       module,
		Includes:     includes,
		Declarations: declarations,
	}
}

// FromExistingHeader builds a descriptor that references a header already on
// disk. headerPath is written into the document as given, so pass it relative
// to the directory the generator runs in.
//
// strictByteChar adds the SWIG_PYTHON_STRICT_BYTE_CHAR block. Some embedded
// targets (Fedora 25 on ARMv7) end up with an unusable shared library when it
// is set.
func FromExistingHeader(headerPath, module string, strictByteChar bool) *InterfaceDescriptor {
	return &InterfaceDescriptor{
		Module:         module,
		HeaderPath:     headerPath,
		StrictByteChar: strictByteChar,
	}
}

// FileName is the conventional descriptor file name, <module>.i.
func (d *InterfaceDescriptor) FileName() string {
	return d.Module + ".i"
}

// Render returns the descriptor document. The output depends only on the
// descriptor fields.
func (d *InterfaceDescriptor) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "/* File: %s */\n", d.FileName())
	b.WriteString("/* Generated by swigext. */\n")
	fmt.Fprintf(&b, "%%module %s\n\n", d.Module)

	if d.HeaderPath == "" {
		b.WriteString("%{\n#define SWIG_FILE_WITH_INIT\n")
		b.WriteString(strings.Join(d.Includes, "\n"))
		b.WriteString("\n%}\n\n")
		b.WriteString(strings.Join(d.Declarations, "\n"))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString("%{\n#define SWIG_FILE_WITH_INIT\n")
	fmt.Fprintf(&b, "#include \"%s\"\n", d.HeaderPath)
	b.WriteString("%}\n\n")
	fmt.Fprintf(&b, "%%include \"%s\"\n", d.HeaderPath)

	if d.StrictByteChar {
		b.WriteString("\n// Python 3 byte/char handling. Disable via BuildConfig.StrictByteChar\n")
		b.WriteString("// for targets where the generated module fails to load (Fedora 25, ARMv7).\n")
		b.WriteString("%begin %{\n#define SWIG_PYTHON_STRICT_BYTE_CHAR\n%}\n")
	}
	return b.String()
}

// DescriptorDiff returns a unified diff between two descriptor documents, or
// "" when they are identical.
func DescriptorDiff(name, previous, current string) string {
	if previous == current {
		return ""
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(previous),
		B:        difflib.SplitLines(current),
		FromFile: "a/" + name,
		ToFile:   "b/" + name,
		Context:  3,
	})
	if err != nil {
		return fmt.Sprintf("--- a/%s\n+++ b/%s\n# diff unavailable: %v\n", name, name, err)
	}
	return diff
}
