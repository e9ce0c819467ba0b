package modkit

import (
	"net/http"

	phttp "steakfeed/internal/platform/net/http"
	pstrings "steakfeed/internal/platform/strings"
)

// Built is the resolved option set a module keeps after construction
type Built struct {
	Name   string
	Prefix string
	Mw     []func(http.Handler) http.Handler
	Ports  any
}

// Router is the platform router seam modules mount on
type Router = phttp.Router

// Build applies opts in order
func Build(opts ...Option) Built {
	var c buildCfg
	for _, o := range opts {
		o(&c)
	}
	return Built{
		Name:   c.name,
		Prefix: c.prefix,
		Mw:     append([]func(http.Handler) http.Handler(nil), c.mw...),
		Ports:  c.ports,
	}
}

// BuildNamed is Build with a default name and prefix the caller may override
func BuildNamed(name, prefix string, opts ...Option) Built {
	return Build(append([]Option{WithName(name), WithPrefix(prefix)}, opts...)...)
}

// Mount opens the module prefix on r, applies its middleware and registers routes
func (b Built) Mount(r Router, routes func(Router)) {
	r.Route(pstrings.MustPrefix(b.Prefix), func(rr Router) {
		for _, mw := range b.Mw {
			rr.Use(mw)
		}
		if routes != nil {
			routes(rr)
		}
	})
}
