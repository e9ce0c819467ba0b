// Package strings holds the few string and slice helpers the router layers share
package strings

import (
	"path"
	std "strings"
)

// IfEmpty returns def when in has no elements
func IfEmpty[T any](in, def []T) []T {
	if len(in) > 0 {
		return in
	}
	return def
}

// MustPrefix cleans a mount prefix to "/a/b" form. It panics when nothing
// but the root is left
func MustPrefix(s string) string {
	p := path.Clean("/" + std.TrimSpace(s))
	if p == "/" {
		panic("strings: mount prefix must not be the root")
	}
	return p
}
