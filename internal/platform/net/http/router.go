package http

import (
	"net/http"

	pstrings "steakfeed/internal/platform/strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Handler is the handler shape routes register
type Handler = func(http.ResponseWriter, *http.Request)

// Router is what modules mount against. The API is read-only, so only
// GET and HEAD are exposed as verbs
type Router interface {
	Get(path string, h Handler)
	Head(path string, h Handler)

	Handle(path string, h http.Handler)
	Mount(pattern string, h http.Handler)
	Use(mw ...func(http.Handler) http.Handler)
	Group(fn func(Router))
	Route(pattern string, fn func(Router))

	// envelope fallbacks instead of chi's plain text
	NotFound(h Handler)
	MethodNotAllowed(h Handler)

	Mux() http.Handler
}

// AdaptChi wraps a chi mux as a Router
func AdaptChi(m *chi.Mux) Router { return chiRouter{m} }

type chiRouter struct{ chi.Router }

func (c chiRouter) Get(p string, h Handler)  { c.Router.Get(p, h) }
func (c chiRouter) Head(p string, h Handler) { c.Router.Head(p, h) }

func (c chiRouter) Group(fn func(Router)) {
	c.Router.Group(func(sub chi.Router) { fn(chiRouter{sub}) })
}

func (c chiRouter) Route(pattern string, fn func(Router)) {
	c.Router.Route(pattern, func(sub chi.Router) { fn(chiRouter{sub}) })
}

func (c chiRouter) NotFound(h Handler)         { c.Router.NotFound(h) }
func (c chiRouter) MethodNotAllowed(h Handler) { c.Router.MethodNotAllowed(h) }
func (c chiRouter) Mux() http.Handler          { return c.Router }

// Param reads a chi path parameter
func Param(r *http.Request, name string) string { return chi.URLParam(r, name) }

// MountProfiler serves pprof under prefix when enabled
func MountProfiler(r Router, prefix string, enabled bool) {
	if enabled {
		r.Mount(pstrings.MustPrefix(prefix), chimw.Profiler())
	}
}
