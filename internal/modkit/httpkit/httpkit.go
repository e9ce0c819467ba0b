// Package httpkit is the routing and handler surface modules build on.
// Modules import it instead of internal/platform/net/http
package httpkit

import (
	"net/http"
	"strings"

	phttp "steakfeed/internal/platform/net/http"
	pstrings "steakfeed/internal/platform/strings"
)

type (
	Envelope = phttp.Envelope
	Response = phttp.Response
	Router   = phttp.Router
)

// OK wraps data in a 200 envelope
func OK(data any) Response { return phttp.OK(data) }

// Error maps err to its status and envelope
func Error(err error) Response { return phttp.Error(err) }

// List wraps items in a 200 envelope with a page block
func List(items any, count, limit int, cursor string) Response {
	return phttp.List(items, count, limit, cursor)
}

// Param reads a path parameter
func Param(r *http.Request, name string) string { return phttp.Param(r, name) }

// Get registers a GET handler whose result or error is enveloped
func Get(r Router, path string, h func(*http.Request) (any, error)) { phttp.GetJSON(r, path, h) }

// GetQuery is Get with a bound and validated query struct
func GetQuery[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	phttp.GetQuery(r, path, h)
}

// Handle adapts a function that builds its own Response
func Handle(fn func(*http.Request) Response) phttp.Handler { return phttp.Handle(fn) }

// MountUnder routes prefix to a subrouter carrying mw. The prefix is
// normalized to one leading slash; a blank prefix panics
func MountUnder(r Router, prefix string, mw []func(http.Handler) http.Handler, mount func(Router)) {
	r.Route(pstrings.MustPrefix(prefix), func(sub Router) {
		sub.Use(mw...)
		mount(sub)
	})
}

// MountAPI mounts a versioned scope at /api/{version}
func MountAPI(r Router, version string, mw []func(http.Handler) http.Handler, mount func(Router)) {
	MountUnder(r, "/api/"+strings.Trim(version, "/ "), mw, mount)
}

// MountAPIV1 mounts /api/v1
func MountAPIV1(r Router, mw []func(http.Handler) http.Handler, mount func(Router)) {
	MountAPI(r, "v1", mw, mount)
}
