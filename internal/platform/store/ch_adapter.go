package store

import (
	"context"

	"steakfeed/internal/platform/store/ch"
)

// chSeam exposes *ch.CH as Clickhouse. Only Query changes shape
type chSeam struct{ *ch.CH }

var _ Clickhouse = chSeam{}

func (c chSeam) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	r, err := c.CH.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return chRows{r}, nil
}

// chRows drops the error of Close to fit Rows
type chRows struct{ ch.Rows }

func (r chRows) Close() { _ = r.Rows.Close() }
