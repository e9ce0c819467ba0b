package module

import (
	"steakfeed/internal/modkit"
	perr "steakfeed/internal/platform/errors"
	"steakfeed/internal/services/ingest/domain"
	"steakfeed/internal/services/ingest/repo"
)

// OpenRepo builds the item repo the options select over the seams in deps.
// A selected backend whose seam is missing is an InvalidArgument error
func OpenRepo(deps modkit.Deps, o Options) (domain.ItemRepo, error) {
	switch o.Backend {
	case BackendDynamo:
		return repo.NewDynamo(deps.DDB, o.Table, o.DynamoCreate)
	case BackendRedis:
		prefix := o.Table
		if o.RedisPrefix != "" {
			prefix = o.RedisPrefix + ":" + o.Table
		}
		return repo.NewRedis(deps.RDB, prefix)
	case BackendPostgres:
		return repo.NewSQL(deps.PG, repo.Postgres, o.Table)
	case BackendClickHouse:
		return repo.NewClickHouse(deps.CH, o.Table)
	case BackendSQLite:
		return repo.NewSQL(deps.Lite, repo.SQLite, o.Table)
	case BackendMemory:
		return repo.NewMemory(), nil
	default:
		return nil, perr.Newf(perr.ErrorCodeInvalidArgument, "ingest: unknown store backend %q", o.Backend)
	}
}
