// Package buildinfo holds the version identifiers stamped in at build
// time via -ldflags; the defaults mark a plain `go build`.
package buildinfo

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
