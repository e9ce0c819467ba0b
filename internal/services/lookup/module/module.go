// Package module wires lookups into the API using modkit
package module

import (
	"steakfeed/internal/modkit"
	"steakfeed/internal/modkit/httpkit"
	modports "steakfeed/internal/modkit/module"
	"steakfeed/internal/services/lookup/domain"
	lookuphttp "steakfeed/internal/services/lookup/http"
	"steakfeed/internal/services/lookup/service"
)

// Ports defines the lookup module ports
type Ports struct {
	Lookup domain.ServicePort
}

// Module implements the lookup module
type Module struct {
	deps  modkit.Deps
	built modkit.Built
	svc   *service.Svc
	ports Ports
}

// New constructs the lookup module. The store reader must be injected with
// modkit.WithPorts, either as a domain.Reader or a port set holding one
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.BuildNamed("lookup", "/updates", opts...)

	r, ok := modports.From[domain.Reader](b.Ports)
	if !ok {
		panic("lookup module requires a Reader port")
	}
	svc := service.New(r)
	return &Module{deps: deps, built: b, svc: svc, ports: Ports{Lookup: svc}}
}

// MountRoutes mounts the lookup routes under the module prefix
func (m *Module) MountRoutes(r httpkit.Router) {
	m.built.Mount(r, func(rr httpkit.Router) {
		lookuphttp.Register(rr, m.svc)
	})
}

// Name returns the module name
func (m *Module) Name() string { return m.built.Name }

// Prefix returns the route prefix
func (m *Module) Prefix() string { return m.built.Prefix }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

var _ modkit.Module = (*Module)(nil)
