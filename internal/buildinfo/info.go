// Package buildinfo holds version information stamped in at link time.
package buildinfo

import "fmt"

// Set with -ldflags "-X github.com/gncx-dev/gncx/internal/buildinfo.Version=...".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String formats the build information for --version.
func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
}
