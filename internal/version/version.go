package version

import (
	"strings"

	"github.com/fatih/color"
)

// Version information for the irpack CLI.
// These variables can be overridden at build time via -ldflags.

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)

	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// Info is the version report printed by `irpack version`.
type Info struct {
	Version       string `json:"version" yaml:"version"`
	FormatVersion uint32 `json:"format_version" yaml:"format_version"`
	GitCommit     string `json:"git_commit,omitempty" yaml:"git_commit,omitempty"`
	BuildDate     string `json:"build_date,omitempty" yaml:"build_date,omitempty"`
}

// Colored renders Version with major, minor and patch in distinct colors.
// Anything after the patch number is left plain.
func Colored() string {
	core, suffix := Version, ""
	if i := strings.IndexAny(core, "-+"); i >= 0 {
		core, suffix = core[:i], core[i:]
	}
	parts := strings.SplitN(core, ".", 3)
	if len(parts) != 3 {
		return Version
	}
	return majorColor.Sprint(parts[0]) + "." + minorColor.Sprint(parts[1]) + "." + patchColor.Sprint(parts[2]) + suffix
}
