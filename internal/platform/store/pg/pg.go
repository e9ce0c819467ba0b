// Package pg builds the pgx pool behind the store's postgres seam
package pg

import (
	"context"
	"errors"
	"fmt"
	"time"

	"steakfeed/internal/platform/store/trace"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config holds the pool settings; zero fields keep pgxpool defaults
type Config struct {
	URL         string
	MaxConns    int32
	AppName     string
	HealthCheck time.Duration

	// Tracer and SlowMs are handed to the sql adapter, not to pgx
	Tracer trace.QueryTracer
	SlowMs int
}

// PG owns the pool and the trace settings the adapter emits with
type PG struct {
	Pool   *pgxpool.Pool
	Tracer trace.QueryTracer
	SlowMs int
}

// ErrClosed is returned by Ping on a PG without a pool
var ErrClosed = errors.New("pg: pool not open")

var newPool = pgxpool.NewWithConfig

// PoolConfig parses cfg.URL and applies the overrides
func PoolConfig(cfg Config) (*pgxpool.Config, error) {
	pc, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("pg: parse url: %w", err)
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	if cfg.HealthCheck > 0 {
		pc.HealthCheckPeriod = cfg.HealthCheck
	}
	if cfg.AppName != "" {
		pc.ConnConfig.RuntimeParams["application_name"] = cfg.AppName
	}
	return pc, nil
}

// Open builds the pool. pgxpool connects lazily, so callers Ping before use
func Open(ctx context.Context, cfg Config) (*PG, error) {
	pc, err := PoolConfig(cfg)
	if err != nil {
		return nil, err
	}
	pool, err := newPool(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("pg: new pool: %w", err)
	}
	return &PG{Pool: pool, Tracer: cfg.Tracer, SlowMs: cfg.SlowMs}, nil
}

// Ping checks one pooled connection
func (p *PG) Ping(ctx context.Context) error {
	if p == nil || p.Pool == nil {
		return ErrClosed
	}
	return p.Pool.Ping(ctx)
}

// Close is safe on nil and repeated calls
func (p *PG) Close() {
	if p != nil && p.Pool != nil {
		p.Pool.Close()
	}
}
