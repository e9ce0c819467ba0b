// Package module wires the ingest pipeline from config and store seams
package module

import (
	"context"

	"steakfeed/internal/adapters/chronicler"
	"steakfeed/internal/modkit"
	"steakfeed/internal/platform/logger"
	phttp "steakfeed/internal/platform/net/http"
	"steakfeed/internal/services/ingest/domain"
	"steakfeed/internal/services/ingest/service"
)

// Ports defines the ingest module ports
type Ports struct {
	Runner domain.RunnerPort
	Reader domain.ItemReader
}

// Module implements the ingest module
type Module struct {
	deps  modkit.Deps
	opts  Options
	repo  domain.ItemRepo
	ports Ports
}

// New constructs the ingest module from STEAK_* config and the store seams in deps.
// It does not mount any routes
func New(deps modkit.Deps, opts ...modkit.Option) (*Module, error) {
	o := FromConfig(deps.Cfg)
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return NewWithOptions(deps, o, opts...)
}

// NewWithOptions constructs the module from explicit options.
// A domain.Upstream passed via modkit.WithPorts replaces the Chronicler client
func NewWithOptions(deps modkit.Deps, o Options, opts ...modkit.Option) (*Module, error) {
	built := modkit.Build(opts...)

	r, err := OpenRepo(deps, o)
	if err != nil {
		return nil, err
	}

	up, ok := built.Ports.(domain.Upstream)
	if !ok {
		up = chronicler.NewClient(chronicler.Options{
			BaseURL:   o.UpstreamURL,
			UserAgent: o.UserAgent,
			Timeout:   o.Timeout,
		})
	}

	svc := service.New(up, r, service.Config{
		Team:          o.Team,
		Season:        o.Season,
		MaxAttempts:   o.MaxAttempts,
		RetryInterval: o.RetryInterval,
		BatchSize:     o.BatchSize,
		BackoffUnit:   o.BackoffUnit,
	})

	m := &Module{deps: deps, opts: o, repo: r}
	m.ports = Ports{Runner: svc, Reader: r}
	return m, nil
}

// Ensure prepares the backend table
func (m *Module) Ensure(ctx context.Context) error {
	if err := m.repo.Ensure(ctx); err != nil {
		return err
	}
	logger.C(ctx).Info().Str("backend", m.repo.Name()).Str("table", m.opts.Table).Msg("store ready")
	return nil
}

// Name returns the module name
func (m *Module) Name() string { return "ingest" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Backend names the selected store backend
func (m *Module) Backend() string { return m.repo.Name() }

// MountRoutes is a no-op as ingest has no routes
func (m *Module) MountRoutes(_ phttp.Router) {}
