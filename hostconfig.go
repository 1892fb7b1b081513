package swigext

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Host build configuration keys, named after the interpreter's sysconfig
// variables.
const (
	KeyIncludeDir    = "INCLUDEPY"
	KeyBaseCFlags    = "BASECFLAGS"
	KeyBaseCPPFlags  = "BASECPPFLAGS"
	KeyLibDir        = "LIBDIR"
	KeyLDLibrary     = "LDLIBRARY"
	KeyLibs          = "LIBS"
	KeySysLibs       = "SYSLIBS"
	KeyLinkForShared = "LINKFORSHARED"
)

var requiredHostKeys = []string{KeyIncludeDir, KeyLibDir, KeyLDLibrary}

var hostKeys = []string{
	KeyIncludeDir, KeyBaseCFlags, KeyBaseCPPFlags, KeyLibDir,
	KeyLDLibrary, KeyLibs, KeySysLibs, KeyLinkForShared,
}

// HostConfig locates the embedding interpreter's headers and libraries.
// It is supplied by the environment, never computed by the toolchain.
type HostConfig struct {
	IncludeDir    string
	BaseCFlags    string
	BaseCPPFlags  string
	LibDir        string
	LDLibrary     string
	Libs          string
	SysLibs       string
	LinkForShared string
}

// HostConfigFromVars builds a HostConfig from sysconfig style variables.
// INCLUDEPY, LIBDIR and LDLIBRARY must be present and non-empty.
func HostConfigFromVars(vars map[string]string) (*HostConfig, error) {
	var missing []string
	for _, key := range requiredHostKeys {
		if strings.TrimSpace(vars[key]) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, &ConfigurationError{
			Key:     "host",
			Message: "missing host build configuration keys: " + strings.Join(missing, ", "),
		}
	}

	return &HostConfig{
		IncludeDir:    vars[KeyIncludeDir],
		BaseCFlags:    vars[KeyBaseCFlags],
		BaseCPPFlags:  vars[KeyBaseCPPFlags],
		LibDir:        vars[KeyLibDir],
		LDLibrary:     vars[KeyLDLibrary],
		Libs:          vars[KeyLibs],
		SysLibs:       vars[KeySysLibs],
		LinkForShared: vars[KeyLinkForShared],
	}, nil
}

// LoadHostConfig reads host build configuration from a YAML file whose
// top-level keys are the sysconfig variable names:
//
//	INCLUDEPY: /usr/include/python3.12
//	LIBDIR: /usr/lib/x86_64-linux-gnu
//	LDLIBRARY: libpython3.12.so
//	LIBS: -ldl
func LoadHostConfig(path string) (*HostConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read host config: %w", err)
	}

	vars := map[string]string{}
	if err := yaml.Unmarshal(data, &vars); err != nil {
		return nil, &ConfigurationError{Key: "host", Message: fmt.Sprintf("parse %s: %v", path, err)}
	}
	return HostConfigFromVars(vars)
}

// probeScript prints the sysconfig variables as one JSON object.
const probeScript = `import json, sysconfig
v = sysconfig.get_config_vars()
print(json.dumps({k: str(v.get(k) or "") for k in %s}))`

// ProbeHostConfig asks the interpreter at python for its build configuration.
func ProbeHostConfig(ctx context.Context, runner ToolRunner, python string) (*HostConfig, error) {
	if python == "" {
		python = "python3"
	}

	keys := make([]string, len(hostKeys))
	for i, key := range hostKeys {
		keys[i] = fmt.Sprintf("%q", key)
	}
	script := fmt.Sprintf(probeScript, "["+strings.Join(keys, ", ")+"]")

	result, err := runner.Run(ctx, ToolInvocation{Name: python, Args: []string{"-c", script}})
	if err != nil {
		return nil, err
	}
	if !result.Success() {
		return nil, &ConfigurationError{
			Key:     "host",
			Message: outputBlock(fmt.Sprintf("%s exited with status %d", python, result.ExitCode), "Stderr", result.Stderr),
		}
	}

	vars := map[string]string{}
	if err := json.Unmarshal([]byte(strings.TrimSpace(result.Stdout)), &vars); err != nil {
		return nil, &ConfigurationError{Key: "host", Message: fmt.Sprintf("decode %s output: %v", python, err)}
	}
	return HostConfigFromVars(vars)
}

// Vars returns the configuration as sysconfig variables.
func (c *HostConfig) Vars() map[string]string {
	return map[string]string{
		KeyIncludeDir:    c.IncludeDir,
		KeyBaseCFlags:    c.BaseCFlags,
		KeyBaseCPPFlags:  c.BaseCPPFlags,
		KeyLibDir:        c.LibDir,
		KeyLDLibrary:     c.LDLibrary,
		KeyLibs:          c.Libs,
		KeySysLibs:       c.SysLibs,
		KeyLinkForShared: c.LinkForShared,
	}
}

// MarshalYAML writes the configuration in the LoadHostConfig format, with
// empty values omitted.
func (c *HostConfig) MarshalYAML() (any, error) {
	vars := c.Vars()
	keys := make([]string, 0, len(vars))
	for key, value := range vars {
		if value != "" {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, key := range keys {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: vars[key]})
	}
	return node, nil
}

// LinkLibrary is the -l name of the interpreter library: LDLIBRARY without
// its "lib" prefix and file extension (libpython3.12.so -> python3.12).
func (c *HostConfig) LinkLibrary() string {
	name := strings.TrimPrefix(filepath.Base(c.LDLibrary), "lib")
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// CompileFlags returns the host flags for compiling against the interpreter.
func (c *HostConfig) CompileFlags() []string {
	return splitFlags("-I"+c.IncludeDir, c.BaseCFlags, c.BaseCPPFlags)
}

// LinkFlags returns the host flags for linking against the interpreter.
func (c *HostConfig) LinkFlags() []string {
	return splitFlags("-L"+c.LibDir, "-l"+c.LinkLibrary(), c.Libs, c.SysLibs, c.LinkForShared)
}

// WriteHostConfig saves the configuration so later builds can use
// LoadHostConfig instead of probing the interpreter again.
func WriteHostConfig(path string, c *HostConfig) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode host config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
