package runner

import (
	"os/exec"
	"path/filepath"
	"strings"
)

// Toolchain tells the runner how to build and start a submission with a
// given file extension. Commands may use the placeholders {src}, {bin} and
// {dir}; an empty Compile means the source is run directly.
type Toolchain struct {
	Ext     string `toml:"ext"`
	Compile string `toml:"compile,omitempty"`
	Exec    string `toml:"exec"`
}

func DefaultToolchains() []Toolchain {
	return []Toolchain{
		{Ext: ".c", Compile: "gcc -O2 -std=c11 -o {bin} {src} -lm", Exec: "{bin}"},
		{Ext: ".cpp", Compile: "g++ -O2 -std=c++17 -o {bin} {src}", Exec: "{bin}"},
		{Ext: ".py", Exec: "python3 {src}"},
		{Ext: ".sh", Exec: "sh {src}"},
	}
}

const binaryName = "main"

// argv expands the placeholders of a command line for a program living in dir.
func argv(cmdline, dir, srcName string) []string {
	r := strings.NewReplacer(
		"{src}", filepath.Join(dir, srcName),
		"{bin}", filepath.Join(dir, binaryName),
		"{dir}", dir,
	)
	return strings.Fields(r.Replace(cmdline))
}

// Tools lists the programs the toolchain starts, skipping the built binary.
func (tc Toolchain) Tools() []string {
	var tools []string
	for _, cmdline := range []string{tc.Compile, tc.Exec} {
		fields := strings.Fields(cmdline)
		if len(fields) == 0 || strings.Contains(fields[0], "{") {
			continue
		}
		tools = append(tools, fields[0])
	}
	return tools
}

// Missing returns the tools of tc that cannot be found in PATH.
func (tc Toolchain) Missing() []string {
	var missing []string
	for _, tool := range tc.Tools() {
		if _, err := exec.LookPath(tool); err != nil {
			missing = append(missing, tool)
		}
	}
	return missing
}
