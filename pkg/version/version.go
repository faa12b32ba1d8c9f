// Package version holds build-time version info for rbwchain.
// Set via main using Set(), read from anywhere via the accessors.
package version

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// Build information, populated by Set() at startup.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

// Set stores build-time version info. Call once from main. Empty values keep
// the defaults.
func Set(v, c, d string) {
	if v != "" {
		version = v
	}
	if c != "" {
		commit = c
	}
	if d != "" {
		buildDate = d
	}
}

// Version returns the build version string as given at build time.
func Version() string { return version }

// Commit returns the build commit hash.
func Commit() string { return commit }

// BuildDate returns the build date string.
func BuildDate() string { return buildDate }

// Semver returns the version without a leading "v" when it is valid semantic
// versioning ("v1.2" becomes "1.2.0"). Anything else, such as "dev", is
// returned unchanged.
func Semver() string {
	return Normalize(version)
}

// Normalize canonicalizes v as semver and strips the "v" prefix. Build
// metadata is dropped, as semver.Canonical does.
func Normalize(v string) string {
	candidate := v
	if !strings.HasPrefix(candidate, "v") {
		candidate = "v" + candidate
	}
	if !semver.IsValid(candidate) {
		return v
	}
	return strings.TrimPrefix(semver.Canonical(candidate), "v")
}

// String renders the version line printed by --version.
func String(name string) string {
	s := fmt.Sprintf("%s %s", name, Semver())
	if commit != "unknown" {
		s += fmt.Sprintf(" (commit %s, built %s)", commit, buildDate)
	}
	return s
}
