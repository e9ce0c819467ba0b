// Package store provides a unified interface to optional storage backends
package store

import (
	"context"
	"errors"
	"fmt"

	"steakfeed/internal/platform/logger"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/redis/go-redis/v9"
)

// Store is the facade for optional backends
// zero value is safe but does nothing
type Store struct {
	// Log is the logger used by subclients
	// zero means a no op zerolog logger
	Log logger.Logger

	// PG is the postgres sql seam, nil when disabled
	PG TxRunner

	// Lite is the embedded sqlite seam, nil when disabled
	Lite TxRunner

	// CH is the clickhouse seam, nil when disabled
	CH Clickhouse

	// RDB is the redis client, nil when disabled
	RDB Redis

	// DDB is the dynamodb client, nil when disabled
	DDB Dynamo
}

// Row exposes the minimal scan contract a single row needs
type Row interface {
	Scan(dest ...any) error
}

// Rows exposes the minimal iteration and scan for a result set
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
	Columns() []string
}

// CommandTag is a tiny interface to inspect command results
type CommandTag interface {
	String() string
	RowsAffected() int64
}

// RowQuerier is the read and write surface repos use for sql
type RowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// TxRunner wraps transaction execution around a function
type TxRunner interface {
	RowQuerier
	Tx(ctx context.Context, fn func(q RowQuerier) error) error
}

// Clickhouse is a tiny seam for columnar writes and queries
type Clickhouse interface {
	Exec(ctx context.Context, sql string, args ...any) error
	Insert(ctx context.Context, table string, rows [][]any) error
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	Close() error
}

// Redis is the go-redis surface repos use
type Redis = redis.UniversalClient

// Dynamo is the subset of the DynamoDB API repos use
type Dynamo interface {
	BatchWriteItem(ctx context.Context, in *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	DescribeTable(ctx context.Context, in *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
	CreateTable(ctx context.Context, in *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
}

// Pinger is any seam that can report readiness
type Pinger interface{ Ping(context.Context) error }

// Open fills the enabled backends of cfg, in order pg, sqlite, clickhouse,
// redis, dynamodb. A seam already set by an Option is kept. On failure the
// backends opened so far are closed
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{}
	for _, o := range opts {
		if err := o(s); err != nil {
			return nil, err
		}
	}
	// a zero zerolog.Logger writes nowhere; With gives subclients a usable copy
	s.Log = s.Log.With().Logger()

	steps := []struct {
		name string
		want bool
		open func() error
	}{
		{"pg", cfg.PG.Enabled && s.PG == nil, func() (err error) { s.PG, err = openPG(ctx, cfg, s); return }},
		{"sqlite", cfg.Lite.Enabled && s.Lite == nil, func() (err error) { s.Lite, err = openLite(ctx, cfg, s); return }},
		{"ch", cfg.CH.Enabled && s.CH == nil, func() (err error) { s.CH, err = openCH(ctx, cfg, s); return }},
		{"redis", cfg.RDS.Enabled && s.RDB == nil, func() (err error) { s.RDB, err = openRedis(ctx, cfg, s); return }},
		{"dynamo", cfg.DDB.Enabled && s.DDB == nil, func() (err error) { s.DDB, err = openDynamo(ctx, cfg, s); return }},
	}
	for _, st := range steps {
		if !st.want {
			continue
		}
		if err := st.open(); err != nil {
			return nil, errors.Join(err, s.Close(ctx))
		}
		s.Log.Debug().Str("backend", st.name).Msg("store backend open")
	}
	return s, nil
}

// seam pairs a backend name with its client
type seam struct {
	name string
	v    any
}

// seams lists the configured backends in close order
func (s *Store) seams() []seam {
	all := []seam{{"ch", s.CH}, {"redis", s.RDB}, {"dynamo", s.DDB}, {"sqlite", s.Lite}, {"pg", s.PG}}
	out := all[:0]
	for _, sm := range all {
		if sm.v != nil {
			out = append(out, sm)
		}
	}
	return out
}

// Guard pings every configured backend that can be pinged and joins the failures.
// DynamoDB has no table independent ping and is checked by its repo
func (s *Store) Guard(ctx context.Context) error {
	if s == nil {
		return errors.New("store: nil store")
	}
	var errs []error
	for _, sm := range s.seams() {
		var err error
		switch c := sm.v.(type) {
		case Redis:
			err = c.Ping(ctx).Err()
		case Pinger:
			err = c.Ping(ctx)
		default:
			continue
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", sm.name, err))
		}
	}
	return errors.Join(errs...)
}

// Close releases every backend that has a Close. A nil Store is a no-op
func (s *Store) Close(_ context.Context) error {
	if s == nil {
		return nil
	}
	var errs []error
	for _, sm := range s.seams() {
		if c, ok := sm.v.(interface{ Close() error }); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", sm.name, err))
			}
		}
	}
	return errors.Join(errs...)
}
