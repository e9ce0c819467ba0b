package repo

import (
	"context"
	"fmt"
	"time"

	"steakfeed/internal/core/record"
	"steakfeed/internal/modkit/repokit"
	perr "steakfeed/internal/platform/errors"
	"steakfeed/internal/platform/store"
	"steakfeed/internal/platform/store/lite"
)

// Dialect captures what differs between the SQL backends
type Dialect struct {
	Name string
	// Body is the column type of the encoded item
	Body string
	// Placeholder renders the n-th (1-based) bind parameter
	Placeholder func(n int) string
	// Classify maps a driver error to a coded error the writer can act on
	Classify func(err error, msg string) error
	// Hooks run at the start of every write transaction
	Hooks []repokit.BeginHook
}

// Postgres is the pgx dialect
var Postgres = Dialect{
	Name:        "postgres",
	Body:        "jsonb",
	Placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
	Classify:    perr.FromPostgres,
	Hooks:       []repokit.BeginHook{repokit.StatementTimeout(30 * time.Second)},
}

// SQLite is the modernc dialect
var SQLite = Dialect{
	Name:        "sqlite",
	Body:        "text",
	Placeholder: func(int) string { return "?" },
	Classify: func(err error, msg string) error {
		if lite.IsBusy(err) {
			return perr.Wrap(err, perr.ErrorCodeUnavailable, msg)
		}
		return perr.Wrap(err, perr.ErrorCodeDB, msg)
	},
}

// SQL stores items in a relational table through the store seam.
// A batch is one transaction, so it lands whole or not at all
type SQL struct {
	db      repokit.TxRunner
	binder  repokit.Binder[*sqlItems]
	dialect Dialect
	table   string
}

// NewSQL builds a SQL repo over db
func NewSQL(db repokit.TxRunner, d Dialect, table string) (*SQL, error) {
	if db == nil {
		return nil, perr.Newf(perr.ErrorCodeInvalidArgument, "repo: %s backend is not enabled", d.Name)
	}
	t, err := checkTable(table)
	if err != nil {
		return nil, err
	}
	return &SQL{
		db:      repokit.WithBeginHooks(db, d.Hooks...),
		dialect: d,
		table:   t,
		binder: repokit.BindFunc[*sqlItems](func(q repokit.Queryer) *sqlItems {
			return &sqlItems{q: q, d: d, table: t}
		}),
	}, nil
}

// Name implements domain.ItemRepo
func (s *SQL) Name() string { return s.dialect.Name }

// Ensure creates the table and its game index when missing
func (s *SQL) Ensure(ctx context.Context) error {
	return s.db.Tx(ctx, func(q repokit.Queryer) error {
		return repokit.MustBind(s.binder, q).ensure(ctx)
	})
}

// BatchWrite implements domain.ItemWriter. A retryable driver error is
// returned coded so the writer resubmits the whole batch
func (s *SQL) BatchWrite(ctx context.Context, items []record.Item) ([]record.Item, error) {
	if len(items) == 0 {
		return nil, nil
	}
	err := s.db.Tx(ctx, func(q repokit.Queryer) error {
		return repokit.MustBind(s.binder, q).upsert(ctx, items)
	})
	if err != nil {
		if perr.IsCanceled(err) {
			return nil, err
		}
		if _, coded := perr.As(err); coded {
			return nil, err
		}
		return nil, s.dialect.Classify(err, "batch write")
	}
	return nil, nil
}

// Get implements domain.ItemReader
func (s *SQL) Get(ctx context.Context, hash string) (record.Item, error) {
	return s.binder.Bind(s.db).get(ctx, hash)
}

// sqlItems is the table bound to one Queryer
type sqlItems struct {
	q     repokit.Queryer
	d     Dialect
	table string
}

func (r *sqlItems) ensure(ctx context.Context) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		hash text PRIMARY KEY,
		game_id text NOT NULL,
		next_id text NOT NULL,
		ts text NOT NULL,
		item %s NOT NULL
	)`, r.table, r.d.Body)
	if _, err := r.q.Exec(ctx, ddl); err != nil {
		return r.d.Classify(err, "create table")
	}
	idx := fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_game_idx ON %s (game_id, ts)`, r.table, r.table)
	if _, err := r.q.Exec(ctx, idx); err != nil {
		return r.d.Classify(err, "create index")
	}
	return nil
}

func (r *sqlItems) upsert(ctx context.Context, items []record.Item) error {
	p := r.d.Placeholder
	stmt := fmt.Sprintf(`INSERT INTO %s (hash, game_id, next_id, ts, item) VALUES (%s, %s, %s, %s, %s)
		ON CONFLICT (hash) DO UPDATE SET
			game_id = excluded.game_id,
			next_id = excluded.next_id,
			ts = excluded.ts,
			item = excluded.item`,
		r.table, p(1), p(2), p(3), p(4), p(5))

	for _, it := range items {
		hash, game, next, ts, body, err := columns(it)
		if err != nil {
			return err
		}
		if _, err := r.q.Exec(ctx, stmt, hash, game, next, ts, string(body)); err != nil {
			return r.d.Classify(err, "upsert item")
		}
	}
	return nil
}

func (r *sqlItems) get(ctx context.Context, hash string) (record.Item, error) {
	q := fmt.Sprintf(`SELECT item FROM %s WHERE hash = %s`, r.table, r.d.Placeholder(1))
	it, err := store.One(ctx, r.q, func(row store.Row) (record.Item, error) {
		var body string
		if err := row.Scan(&body); err != nil {
			return nil, err
		}
		return record.DecodeItem([]byte(body))
	}, q, hash)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return nil, notFound(hash)
		}
		return nil, r.d.Classify(err, "get item")
	}
	return it, nil
}
