package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/fatih/color"
)

// Version information for the arrowc CLI.
// These variables can be overridden at build time via -ldflags.
var (
	// Version is the semantic version of the compiler.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)
)

// Banner renders Version with coloured components. Unparsable versions are
// returned as is.
func Banner() string {
	v, err := semver.NewVersion(Version)
	if err != nil {
		return Version
	}
	s := majorColor.Sprint(v.Major()) + "." + minorColor.Sprint(v.Minor()) + "." + patchColor.Sprint(v.Patch())
	if pre := v.Prerelease(); pre != "" {
		s += "-" + pre
	}
	return s
}

// Info is the multi-line text printed by `arrowc version`.
func Info() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "arrowc %s\n", Banner())
	if GitCommit != "" {
		fmt.Fprintf(&sb, "commit: %s\n", GitCommit)
	}
	if BuildDate != "" {
		fmt.Fprintf(&sb, "built:  %s\n", BuildDate)
	}
	return sb.String()
}

// Compatible reports whether artifacts written by a compiler of version
// other can be read by this one: same major version, and same minor
// version while the major is 0. Prereleases of a compatible version count.
func Compatible(other string) bool {
	return CompatibleWith(Version, other)
}

// CompatibleWith is Compatible against an explicit current version.
func CompatibleWith(current, other string) bool {
	cur, err := semver.NewVersion(current)
	if err != nil {
		return false
	}
	v, err := semver.NewVersion(other)
	if err != nil {
		return false
	}
	lower := fmt.Sprintf("%d.0.0-0", cur.Major())
	upper := fmt.Sprintf("%d.0.0-0", cur.Major()+1)
	if cur.Major() == 0 {
		lower = fmt.Sprintf("0.%d.0-0", cur.Minor())
		upper = fmt.Sprintf("0.%d.0-0", cur.Minor()+1)
	}
	c, err := semver.NewConstraint(fmt.Sprintf(">= %s, < %s", lower, upper))
	if err != nil {
		return false
	}
	return c.Check(v)
}
