// Package modkit assembles feature modules from shared deps and options
package modkit

import (
	"steakfeed/internal/modkit/module"
	phttp "steakfeed/internal/platform/net/http"
)

// Module is the surface the process root mounts and registers
type Module = module.Module

// MountAll records every module's ports in reg and mounts its routes on r
func MountAll(r phttp.Router, reg *module.Registry, mods ...Module) {
	for _, m := range mods {
		if reg != nil {
			reg.Put(m.Name(), m.Ports())
		}
		m.MountRoutes(r)
	}
}
