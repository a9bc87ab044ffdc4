// Package buildinfo holds version metadata injected at build time via
// -ldflags.
package buildinfo

var (
	// Version is the release version.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "none"
	// Date is the build date.
	Date = "unknown"
)
