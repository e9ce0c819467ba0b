// Package module holds the module contract and the port registry used during bootstrap
package module

import (
	"reflect"
	"slices"
	"sync"

	phttp "steakfeed/internal/platform/net/http"
)

// Module is the surface a feature module exposes to the process root
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}

// Registry maps module names to the port sets they export
type Registry struct {
	mu    sync.RWMutex
	ports map[string]any
}

// NewRegistry returns an empty registry
func NewRegistry() *Registry {
	return &Registry{ports: map[string]any{}}
}

// Put stores the port set for name, replacing any earlier one
func (r *Registry) Put(name string, ports any) {
	r.mu.Lock()
	r.ports[name] = ports
	r.mu.Unlock()
}

// Add records the ports of every module under its name
func (r *Registry) Add(mods ...Module) {
	for _, m := range mods {
		r.Put(m.Name(), m.Ports())
	}
}

// Names lists registered module names in order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.ports))
	for k := range r.ports {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

func (r *Registry) get(name string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.ports[name]
	return v, ok
}

// Lookup returns the port of type T exported by module name.
// The port set may be T itself or a struct whose exported field holds a T
func Lookup[T any](r *Registry, name string) (T, bool) {
	v, ok := r.get(name)
	if !ok {
		var zero T
		return zero, false
	}
	return extract[T](v)
}

var std = NewRegistry()

// Register stores a port set in the process registry
func Register(name string, ports any) { std.Put(name, ports) }

// PortsAs fetches a port from the process registry
func PortsAs[T any](name string) (T, bool) { return Lookup[T](std, name) }

// Reset clears the process registry; tests call it in cleanup
func Reset() {
	std.mu.Lock()
	std.ports = map[string]any{}
	std.mu.Unlock()
}

// PortsOf pulls a T out of a module's port set without touching a registry
func PortsOf[T any](m Module) (T, bool) { return extract[T](m.Ports()) }

// From pulls a T out of a raw port set, such as one injected with modkit.WithPorts
func From[T any](ports any) (T, bool) { return extract[T](ports) }

// MustPortsOf is PortsOf that panics when the module has no T
func MustPortsOf[T any](m Module) T {
	if v, ok := PortsOf[T](m); ok {
		return v
	}
	panic("module: requested port not found on module " + m.Name())
}

func extract[T any](p any) (T, bool) {
	var zero T
	if p == nil {
		return zero, false
	}
	if v, ok := p.(T); ok {
		return v, true
	}
	rv := reflect.ValueOf(p)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return zero, false
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return zero, false
	}
	for i := range rv.NumField() {
		f := rv.Field(i)
		if !f.CanInterface() {
			continue
		}
		if v, ok := f.Interface().(T); ok && !(f.Kind() == reflect.Interface && f.IsNil()) {
			return v, true
		}
	}
	return zero, false
}
