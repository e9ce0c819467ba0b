package module

import (
	"time"

	"steakfeed/internal/core/version"
	"steakfeed/internal/platform/config"
	"steakfeed/internal/platform/store"
	"steakfeed/internal/platform/validate"
	"steakfeed/internal/services/ingest/repo"
)

// Store backends selectable with STEAK_STORE_BACKEND
const (
	BackendDynamo     = "dynamodb"
	BackendRedis      = "redis"
	BackendPostgres   = "postgres"
	BackendClickHouse = "clickhouse"
	BackendSQLite     = "sqlite"
	BackendMemory     = "memory"
)

// Default team and season of an unconfigured run
const (
	DefaultTeam   = "b024e975-1c4a-4575-8936-a3754a08806a"
	DefaultSeason = 10
)

// Options holds configuration for the ingest module
type Options struct {
	UpstreamURL string        `env:"STEAK_UPSTREAM_BASE_URL" validate:"required,url"`
	UserAgent   string        `env:"STEAK_UPSTREAM_USER_AGENT"`
	Timeout     time.Duration `env:"STEAK_UPSTREAM_TIMEOUT" validate:"min=0"`

	Team          string        `env:"STEAK_INGEST_TEAM" validate:"required"`
	Season        int           `env:"STEAK_INGEST_SEASON" validate:"min=0"`
	MaxAttempts   int           `env:"STEAK_INGEST_MAX_ATTEMPTS" validate:"min=1"`
	RetryInterval time.Duration `env:"STEAK_INGEST_RETRY_INTERVAL" validate:"min=0"`
	BatchSize     int           `env:"STEAK_INGEST_BATCH_SIZE" validate:"min=1,max=25"`
	BackoffUnit   time.Duration `env:"STEAK_INGEST_BACKOFF_UNIT" validate:"min=0"`
	Table         string        `env:"STEAK_INGEST_TABLE" validate:"required"`

	Backend      string `env:"STEAK_STORE_BACKEND" validate:"oneof=dynamodb redis postgres clickhouse sqlite memory"`
	DynamoCreate bool   `env:"STEAK_DYNAMO_ENSURE_TABLE"`
	RedisPrefix  string `env:"STEAK_REDIS_PREFIX"`
}

// FromConfig reads the ingest options with the STEAK_ prefix
func FromConfig(cfg config.Conf) Options {
	steak := cfg.Prefix("STEAK_")
	up := steak.Prefix("UPSTREAM_")
	in := steak.Prefix("INGEST_")
	return Options{
		UpstreamURL: up.MayURL("BASE_URL", "https://api.sibr.dev/chronicler/v1"),
		UserAgent:   up.MayString("USER_AGENT", version.UserAgent("steakfeed-ingest")),
		Timeout:     up.MayDuration("TIMEOUT", 15*time.Second),

		Team:          in.MayString("TEAM", DefaultTeam),
		Season:        in.MayInt("SEASON", DefaultSeason),
		MaxAttempts:   in.MayInt("MAX_ATTEMPTS", 10),
		RetryInterval: in.MayDuration("RETRY_INTERVAL", time.Second),
		BatchSize:     in.MayInt("BATCH_SIZE", 25),
		BackoffUnit:   in.MayDuration("BACKOFF_UNIT", time.Second),
		Table:         in.MayString("TABLE", repo.DefaultTable),

		Backend: steak.MayEnum("STORE_BACKEND", BackendDynamo,
			BackendDynamo, BackendRedis, BackendPostgres, BackendClickHouse, BackendSQLite, BackendMemory),
		DynamoCreate: steak.MayBool("DYNAMO_ENSURE_TABLE", false),
		RedisPrefix:  steak.MayString("REDIS_PREFIX", "steak"),
	}
}

// Validate reports the first invalid option as a perr Validation error
func (o Options) Validate() error { return validate.Struct(o) }

// StoreConfig enables only the store backend the options select.
// Connection settings of the selected backend are required
func StoreConfig(cfg config.Conf, o Options, appName string) store.Config {
	steak := cfg.Prefix("STEAK_")
	sc := store.Config{AppName: appName}
	switch o.Backend {
	case BackendDynamo:
		ddb := steak.Prefix("DYNAMO_")
		sc.DDB = store.DynamoConfig{
			Enabled:  true,
			Region:   ddb.MayString("REGION", "us-east-1"),
			Endpoint: ddb.MayString("ENDPOINT", ""),
		}
	case BackendRedis:
		sc.RDS = store.RedisConfig{
			Enabled: true,
			URL:     steak.Prefix("REDIS_").MayString("URL", "redis://localhost:6379/0"),
		}
	case BackendPostgres:
		pg := steak.Prefix("PGSQL_")
		sc.PG = store.PGConfig{
			Enabled:     true,
			URL:         pg.MustString("DBURL"),
			MaxConns:    int32(pg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pg.MayInt("SLOW_MS", 500),
			LogSQL:      pg.MayBool("LOG_SQL", false),
		}
	case BackendClickHouse:
		sc.CH = store.CHConfig{
			Enabled:    true,
			URL:        steak.Prefix("CLICKHOUSE_").MustString("DBURL"),
			ClientName: "steakfeed",
			ClientTag:  appName,
		}
	case BackendSQLite:
		lt := steak.Prefix("SQLITE_")
		sc.Lite = store.SQLiteConfig{
			Enabled:       true,
			Path:          lt.MayString("PATH", "steakfeed.db"),
			BusyTimeoutMs: lt.MayInt("BUSY_MS", 5000),
			LogSQL:        lt.MayBool("LOG_SQL", false),
			SlowQueryMs:   lt.MayInt("SLOW_MS", 200),
		}
	}
	return sc
}
