// Package version reports the build stamped into a binary
package version

import "runtime/debug"

// Set with -ldflags "-X steakfeed/internal/core/version.version=v1.2.3 -X ...commit=abcd -X ...date=2026-01-02"
var (
	version = "dev"
	commit  = ""
	date    = "unknown"
)

// BuildInfo describes one binary
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Info returns the build info of service. Without ldflags the VCS revision
// recorded by the Go toolchain fills the commit
func Info(service string) BuildInfo {
	c := commit
	if c == "" {
		c = vcsRevision()
	}
	return BuildInfo{Service: service, Version: version, Commit: c, Date: date}
}

// UserAgent renders service/version for outbound requests
func UserAgent(service string) string { return service + "/" + version }

func vcsRevision() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return "none"
	}
	for _, s := range bi.Settings {
		if s.Key == "vcs.revision" {
			return s.Value
		}
	}
	return "none"
}
