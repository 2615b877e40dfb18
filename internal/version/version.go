package version

import (
	"strings"

	"github.com/fatih/color"
)

// Version information for the tally CLI.
// These variables can be overridden at build time via -ldflags.

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)

	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// Colored renders Version with major, minor and patch in separate colours.
// Anything that is not "X.Y.Z[-suffix]" is returned as is.
func Colored(enabled bool) string {
	v := strings.TrimSpace(Version)
	core, suffix, _ := strings.Cut(v, "-")
	parts := strings.Split(core, ".")
	if !enabled || len(parts) != 3 {
		return v
	}
	for _, c := range []*color.Color{versionMajorColor, versionMinorColor, versionPatchColor} {
		c.EnableColor()
	}
	out := versionMajorColor.Sprint(parts[0]) + "." + versionMinorColor.Sprint(parts[1]) + "." + versionPatchColor.Sprint(parts[2])
	if suffix != "" {
		out += "-" + suffix
	}
	return out
}
