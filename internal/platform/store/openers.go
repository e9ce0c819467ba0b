package store

import (
	"context"
	"fmt"
	"time"

	"steakfeed/internal/platform/retry"
	chx "steakfeed/internal/platform/store/ch"
	"steakfeed/internal/platform/store/lite"
	"steakfeed/internal/platform/store/pg"
	"steakfeed/internal/platform/store/trace"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/redis/go-redis/v9"
)

const (
	pgConnectRetries = 20
	pgPingTimeout    = 3 * time.Second
	pgBackoffStart   = 150 * time.Millisecond
	pgBackoffCeiling = 2 * time.Second
)

// pgBackoff doubles from pgBackoffStart up to pgBackoffCeiling
func pgBackoff(attempt int) time.Duration {
	d := pgBackoffStart
	for i := 1; i < attempt && d < pgBackoffCeiling; i++ {
		d *= 2
	}
	return min(d, pgBackoffCeiling)
}

// openPG opens pg and wraps it with our sql adapter once the pool answers a ping
func openPG(ctx context.Context, cfg Config, s *Store) (TxRunner, error) {
	var tracer trace.QueryTracer
	if cfg.PG.LogSQL {
		tracer = trace.Tracer(s.Log, "pg")
	}

	p, err := pg.Open(ctx, pg.Config{
		URL:      cfg.PG.URL,
		MaxConns: cfg.PG.MaxConns,
		AppName:  cfg.AppName,
		Tracer:   tracer,
		SlowMs:   cfg.PG.SlowQueryMs,
	})
	if err != nil {
		return nil, err
	}

	attempts := cfg.PG.ConnectRetries
	if attempts <= 0 {
		attempts = pgConnectRetries
	}
	pingTimeout := cfg.PG.PingTimeout
	if pingTimeout <= 0 {
		pingTimeout = pgPingTimeout
	}

	// ping the pool directly so boot probes stay out of the SQL trace
	err = retry.Policy{
		MaxAttempts: attempts,
		Delay:       pgBackoff,
		OnRetry: func(attempt int, wait time.Duration, err error) {
			s.Log.Warn().Err(err).Int("attempt", attempt).Dur("retry_in", wait).Msg("postgres not ready")
		},
	}.Do(ctx, func(ctx context.Context) error {
		toCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		return p.Ping(toCtx)
	})
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}
	return newPGAdapter(p), nil
}

func openLite(ctx context.Context, cfg Config, s *Store) (TxRunner, error) {
	db, err := lite.Open(ctx, lite.Config{Path: cfg.Lite.Path, BusyTimeoutMs: cfg.Lite.BusyTimeoutMs})
	if err != nil {
		return nil, err
	}
	var tracer trace.QueryTracer
	if cfg.Lite.LogSQL {
		tracer = trace.Tracer(s.Log, "sqlite")
	}
	return newDBAdapter(db, tracer, cfg.Lite.SlowQueryMs), nil
}

func openCH(ctx context.Context, cfg Config, _ *Store) (Clickhouse, error) {
	c, err := chx.Open(ctx, chx.Config{
		URL:        cfg.CH.URL,
		ClientName: cfg.CH.ClientName,
		ClientTag:  cfg.CH.ClientTag,
	})
	if err != nil {
		return nil, err
	}
	return chSeam{c}, nil
}

func openRedis(ctx context.Context, cfg Config, _ *Store) (Redis, error) {
	opts, err := redis.ParseURL(cfg.RDS.URL)
	if err != nil {
		return nil, fmt.Errorf("redis: parse url: %w", err)
	}
	if cfg.AppName != "" {
		opts.ClientName = cfg.AppName
	}
	c := redis.NewClient(opts)
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return c, nil
}

func openDynamo(ctx context.Context, cfg Config, _ *Store) (Dynamo, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.DDB.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.DDB.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("dynamodb: load aws config: %w", err)
	}
	return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.DDB.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.DDB.Endpoint)
		}
	}), nil
}
