// Package version holds build metadata injected via ldflags.
package version

//nolint:revive // Overridden via ldflags at release time.
var (
	Version = "4.2.0"
	Commit  = "unknown"
	Date    = "unknown"
)
