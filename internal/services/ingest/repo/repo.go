// Package repo provides the item store backends of the ingest pipeline.
// Every backend keys items by hash; a write for an existing hash replaces it
package repo

import (
	"fmt"
	"regexp"

	"steakfeed/internal/core/record"
	perr "steakfeed/internal/platform/errors"
	"steakfeed/internal/services/ingest/domain"
)

// DefaultTable is the table, key prefix or collection items land in
const DefaultTable = "steak_updates"

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)

// checkTable rejects names that cannot be spliced into SQL safely
func checkTable(name string) (string, error) {
	if name == "" {
		return DefaultTable, nil
	}
	if !tableName.MatchString(name) {
		return "", perr.Newf(perr.ErrorCodeInvalidArgument, "repo: invalid table name %q", name)
	}
	return name, nil
}

func notFound(hash string) error {
	return perr.Wrap(perr.ErrNotFound, perr.ErrorCodeNotFound, fmt.Sprintf("item %q not found", hash))
}

var (
	_ domain.ItemRepo = (*Memory)(nil)
	_ domain.ItemRepo = (*SQL)(nil)
	_ domain.ItemRepo = (*Dynamo)(nil)
	_ domain.ItemRepo = (*Redis)(nil)
	_ domain.ItemRepo = (*ClickHouse)(nil)
)

// columns extracts the indexed columns SQL backends store next to the item
func columns(it record.Item) (hash, gameID, nextID, ts string, body []byte, err error) {
	body, err = record.EncodeItem(it)
	if err != nil {
		return "", "", "", "", nil, perr.Wrap(err, perr.ErrorCodeJSON, "encode item")
	}
	return it.Key(), it.GameID(), it.NextID(), it.Timestamp(), body, nil
}
