package store

import (
	"context"
	"errors"

	perr "steakfeed/internal/platform/errors"
)

// ErrTooManyRows is returned by One when a keyed lookup matched twice
var ErrTooManyRows = errors.New("store: more than one row")

// One scans exactly one row. Zero rows is perr.ErrNotFound
func One[T any](ctx context.Context, q RowQuerier, scan func(Row) (T, error), sql string, args ...any) (out T, err error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return out, err
	}
	defer rows.Close()

	n := 0
	for rows.Next() {
		if n++; n > 1 {
			var zero T
			return zero, ErrTooManyRows
		}
		if out, err = scan(rows); err != nil {
			return out, err
		}
	}
	if err := rows.Err(); err != nil {
		var zero T
		return zero, err
	}
	if n == 0 {
		return out, perr.ErrNotFound
	}
	return out, nil
}
