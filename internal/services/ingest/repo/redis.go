package repo

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/redis/go-redis/v9"

	"steakfeed/internal/core/record"
	perr "steakfeed/internal/platform/errors"
	"steakfeed/internal/platform/store"
)

// Redis stores each item as DynamoDB JSON under "<prefix>:<hash>"
type Redis struct {
	rdb    store.Redis
	prefix string
}

// NewRedis builds the Redis repo; an empty prefix means DefaultTable
func NewRedis(rdb store.Redis, prefix string) (*Redis, error) {
	if rdb == nil {
		return nil, perr.Newf(perr.ErrorCodeInvalidArgument, "repo: redis backend is not enabled")
	}
	if prefix == "" {
		prefix = DefaultTable
	}
	return &Redis{rdb: rdb, prefix: prefix}, nil
}

func (r *Redis) key(hash string) string { return r.prefix + ":" + hash }

// Name implements domain.ItemRepo
func (r *Redis) Name() string { return "redis" }

// Ensure checks the server answers
func (r *Redis) Ensure(ctx context.Context) error {
	if err := r.rdb.Ping(ctx).Err(); err != nil {
		return redisErr(err, "ping")
	}
	return nil
}

// BatchWrite implements domain.ItemWriter with one pipelined SET per item.
// Items whose command failed come back unprocessed
func (r *Redis) BatchWrite(ctx context.Context, items []record.Item) ([]record.Item, error) {
	if len(items) == 0 {
		return nil, nil
	}
	pipe := r.rdb.Pipeline()
	cmds := make([]*redis.StatusCmd, len(items))
	for i, it := range items {
		body, err := record.EncodeItem(it)
		if err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeJSON, "encode item")
		}
		cmds[i] = pipe.Set(ctx, r.key(it.Key()), body, 0)
	}
	_, execErr := pipe.Exec(ctx)
	if execErr != nil && perr.IsCanceled(execErr) {
		return nil, execErr
	}

	var unprocessed []record.Item
	for i, c := range cmds {
		if c.Err() != nil {
			unprocessed = append(unprocessed, items[i])
		}
	}
	if len(unprocessed) == len(items) && execErr != nil {
		return nil, redisErr(execErr, "pipeline set")
	}
	return unprocessed, nil
}

// Get implements domain.ItemReader
func (r *Redis) Get(ctx context.Context, hash string) (record.Item, error) {
	b, err := r.rdb.Get(ctx, r.key(hash)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, notFound(hash)
	}
	if err != nil {
		return nil, redisErr(err, "get item")
	}
	it, err := record.DecodeItem(b)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeJSON, "decode item")
	}
	return it, nil
}

// redisErr treats network trouble and a loading or busy server as transient
func redisErr(err error, msg string) error {
	var ne net.Error
	if errors.As(err, &ne) || errors.Is(err, redis.ErrClosed) {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, msg)
	}
	var re redis.Error
	if errors.As(err, &re) {
		kind, _, _ := strings.Cut(re.Error(), " ")
		switch kind {
		case "LOADING", "BUSY", "TRYAGAIN", "CLUSTERDOWN", "MASTERDOWN":
			return perr.Wrap(err, perr.ErrorCodeUnavailable, msg)
		}
	}
	return perr.Wrap(err, perr.ErrorCodeDB, msg)
}
