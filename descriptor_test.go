package swigext

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyLinesPartitionsHeader(t *testing.T) {
	header := HeaderText("#include <cmath>\n// helpers\nint add(int a, int b);\n#include \"point.hpp\"\n\ndouble norm(Point p);\n")

	includes, declarations := ClassifyLines(header)

	assert.Equal(t, []string{"#include <cmath>", "#include \"point.hpp\""}, includes)
	assert.Equal(t, []string{"// helpers", "int add(int a, int b);", "", "double norm(Point p);"}, declarations)
	assert.Len(t, append(includes, declarations...), len(header.Lines()))

	for _, line := range declarations {
		assert.False(t, strings.HasPrefix(line, IncludePrefix), line)
	}
}

func TestClassifyLinesIndentedIncludeIsDeclaration(t *testing.T) {
	includes, declarations := ClassifyLines("  #include <vector>\n")
	assert.Empty(t, includes)
	assert.Equal(t, []string{"  #include <vector>"}, declarations)
}

func TestRenderInlineDescriptor(t *testing.T) {
	descriptor := FromHeader("#include <cmath>\n\nint add(int a, int b);\n", "m")

	want := "/* File: m.i */\n" +
		"/* Generated by swigext. */\n" +
		"%module m\n" +
		"\n" +
		"%{\n" +
		"#define SWIG_FILE_WITH_INIT\n" +
		"#include <cmath>\n" +
		"%}\n" +
		"\n" +
		"\n" +
		"int add(int a, int b);\n"

	assert.Equal(t, want, descriptor.Render())
	assert.Equal(t, descriptor.Render(), FromHeader("#include <cmath>\n\nint add(int a, int b);\n", "m").Render())
}

func TestRenderHeaderReference(t *testing.T) {
	testCases := []struct {
		name   string
		strict bool
		want   string
	}{
		{
			name:   "strict byte char",
			strict: true,
			want: "/* File: add.i */\n" +
				"/* Generated by swigext. */\n" +
				"%module add\n" +
				"\n" +
				"%{\n" +
				"#define SWIG_FILE_WITH_INIT\n" +
				"#include \"add.hpp\"\n" +
				"%}\n" +
				"\n" +
				"%include \"add.hpp\"\n" +
				"\n" +
				"// Python 3 byte/char handling. Disable via BuildConfig.StrictByteChar\n" +
				"// for targets where the generated module fails to load (Fedora 25, ARMv7).\n" +
				"%begin %{\n" +
				"#define SWIG_PYTHON_STRICT_BYTE_CHAR\n" +
				"%}\n",
		},
		{
			name:   "plain",
			strict: false,
			want: "/* File: add.i */\n" +
				"/* Generated by swigext. */\n" +
				"%module add\n" +
				"\n" +
				"%{\n" +
				"#define SWIG_FILE_WITH_INIT\n" +
				"#include \"add.hpp\"\n" +
				"%}\n" +
				"\n" +
				"%include \"add.hpp\"\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FromExistingHeader("add.hpp", "add", tc.strict).Render())
		})
	}
}

func TestDescriptorFileName(t *testing.T) {
	assert.Equal(t, "vector_ops.i", FromHeader("", "vector_ops").FileName())
}

func TestDescriptorDiff(t *testing.T) {
	previous := FromExistingHeader("add.hpp", "add", true).Render()
	current := FromExistingHeader("add.hpp", "add", false).Render()

	assert.Empty(t, DescriptorDiff("add.i", current, current))

	diff := DescriptorDiff("add.i", previous, current)
	require.NotEmpty(t, diff)
	assert.Contains(t, diff, "--- a/add.i")
	assert.Contains(t, diff, "+++ b/add.i")
	assert.Contains(t, diff, "-#define SWIG_PYTHON_STRICT_BYTE_CHAR")
}
