package repo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"
	"time"

	"steakfeed/internal/core/record"
	perr "steakfeed/internal/platform/errors"
	"steakfeed/internal/platform/store"
)

// ClickHouse keeps items in a ReplacingMergeTree ordered by hash, so a
// later write for the same hash wins once parts merge; reads use FINAL
type ClickHouse struct {
	ch    store.Clickhouse
	table string
	now   func() time.Time
}

// NewClickHouse builds the ClickHouse repo
func NewClickHouse(ch store.Clickhouse, table string) (*ClickHouse, error) {
	if ch == nil {
		return nil, perr.Newf(perr.ErrorCodeInvalidArgument, "repo: clickhouse backend is not enabled")
	}
	t, err := checkTable(table)
	if err != nil {
		return nil, err
	}
	return &ClickHouse{ch: ch, table: t, now: time.Now}, nil
}

// Name implements domain.ItemRepo
func (c *ClickHouse) Name() string { return "clickhouse" }

// Ensure creates the table when missing
func (c *ClickHouse) Ensure(ctx context.Context) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		hash String,
		game_id String,
		next_id String,
		ts String,
		item String,
		version UInt64
	) ENGINE = ReplacingMergeTree(version)
	ORDER BY hash`, c.table)
	if err := c.ch.Exec(ctx, ddl); err != nil {
		return chErr(err, "create table")
	}
	return nil
}

// BatchWrite implements domain.ItemWriter as one native batch insert
func (c *ClickHouse) BatchWrite(ctx context.Context, items []record.Item) ([]record.Item, error) {
	if len(items) == 0 {
		return nil, nil
	}
	version := uint64(c.now().UnixNano())
	rows := make([][]any, 0, len(items))
	for _, it := range items {
		hash, game, next, ts, body, err := columns(it)
		if err != nil {
			return nil, err
		}
		rows = append(rows, []any{hash, game, next, ts, string(body), version})
	}
	if err := c.ch.Insert(ctx, c.table, rows); err != nil {
		if perr.IsCanceled(err) {
			return nil, err
		}
		return nil, chErr(err, "batch insert")
	}
	return nil, nil
}

// Get implements domain.ItemReader
func (c *ClickHouse) Get(ctx context.Context, hash string) (record.Item, error) {
	rows, err := c.ch.Query(ctx, fmt.Sprintf(`SELECT item FROM %s FINAL WHERE hash = ? LIMIT 1`, c.table), hash)
	if err != nil {
		return nil, chErr(err, "get item")
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, chErr(err, "get item")
		}
		return nil, notFound(hash)
	}
	var body string
	if err := rows.Scan(&body); err != nil {
		return nil, chErr(err, "scan item")
	}
	it, err := record.DecodeItem([]byte(body))
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeJSON, "decode item")
	}
	return it, nil
}

// chErr treats a dropped or refused connection as transient
func chErr(err error, msg string) error {
	var ne net.Error
	if errors.As(err, &ne) || errors.Is(err, io.EOF) || errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNREFUSED) {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, msg)
	}
	return perr.Wrap(err, perr.ErrorCodeDB, msg)
}
