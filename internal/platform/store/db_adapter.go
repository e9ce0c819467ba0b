package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"steakfeed/internal/platform/store/trace"
)

// database/sql satisfies this both on the handle and inside a tx
type sqlQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// dbQuerier adapts database/sql to RowQuerier with the same tracing as pg
type dbQuerier struct {
	q sqlQuerier
	emitter
}

func (a dbQuerier) Exec(ctx context.Context, query string, args ...any) (CommandTag, error) {
	start := time.Now()
	res, err := a.q.ExecContext(ctx, query, args...)
	a.emit(ctx, query, args, start, err)
	if err != nil {
		return nil, err
	}
	n, _ := res.RowsAffected()
	return dbTag{n: n}, nil
}

func (a dbQuerier) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	start := time.Now()
	rs, err := a.q.QueryContext(ctx, query, args...)
	a.emit(ctx, query, args, start, err)
	if err != nil {
		return nil, err
	}
	return dbRows{r: rs}, nil
}

func (a dbQuerier) QueryRow(ctx context.Context, query string, args ...any) Row {
	start := time.Now()
	r := a.q.QueryRowContext(ctx, query, args...)
	return afterRow{r: r, after: func(scanErr error) { a.emit(ctx, query, args, start, scanErr) }}
}

// dbAdapter wraps a *sql.DB and implements TxRunner
type dbAdapter struct {
	dbQuerier
	db *sql.DB
}

func newDBAdapter(db *sql.DB, tracer trace.QueryTracer, slowMs int) *dbAdapter {
	return &dbAdapter{
		dbQuerier: dbQuerier{q: db, emitter: emitter{tracer: tracer, slowMs: slowMs}},
		db:        db,
	}
}

// NewSQL exposes a database/sql handle through the store seams
func NewSQL(db *sql.DB, tracer trace.QueryTracer, slowMs int) TxRunner {
	return newDBAdapter(db, tracer, slowMs)
}

func (a *dbAdapter) Ping(ctx context.Context) error {
	if a == nil || a.db == nil {
		return errors.New("sql: nil adapter")
	}
	return a.db.PingContext(ctx)
}

func (a *dbAdapter) Close() error { return a.db.Close() }

func (a *dbAdapter) Tx(ctx context.Context, fn func(q RowQuerier) error) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(dbQuerier{q: tx, emitter: a.emitter}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

type dbRows struct{ r *sql.Rows }

func (x dbRows) Next() bool            { return x.r.Next() }
func (x dbRows) Scan(dst ...any) error { return x.r.Scan(dst...) }
func (x dbRows) Err() error            { return x.r.Err() }
func (x dbRows) Close()                { _ = x.r.Close() }
func (x dbRows) Columns() []string {
	cols, _ := x.r.Columns()
	return cols
}

type dbTag struct{ n int64 }

func (t dbTag) String() string      { return fmt.Sprintf("OK %d", t.n) }
func (t dbTag) RowsAffected() int64 { return t.n }
