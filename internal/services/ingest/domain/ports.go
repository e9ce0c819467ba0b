package domain

import (
	"context"

	"steakfeed/internal/core/record"
)

// RunnerPort is the public port exposed by the module
type RunnerPort interface {
	Run(ctx context.Context) (Summary, error)
}

// Upstream is the paginated source of games and updates
type Upstream interface {
	Games(ctx context.Context, team string, season int) (GamesPage, error)
	Updates(ctx context.Context, gameID, page string) (UpdatesPage, error)
}

// ItemWriter is the batch write primitive of the destination store.
// It returns the items the store did not accept; the caller resubmits them.
// A non-nil error means none of the items are known to be stored
type ItemWriter interface {
	BatchWrite(ctx context.Context, items []record.Item) (unprocessed []record.Item, err error)
}

// ItemReader looks items up by hash. A missing hash is a perr NotFound error
type ItemReader interface {
	Get(ctx context.Context, hash string) (record.Item, error)
}

// ItemRepo is a complete backend for the updates table
type ItemRepo interface {
	ItemWriter
	ItemReader
	// Ensure prepares the table; it is safe to call on every start
	Ensure(ctx context.Context) error
	// Name identifies the backend in logs
	Name() string
}
