package store

import "time"

// Config selects and configures backends. A backend is opened only when its
// Enabled is set; AppName labels connections that support it
type Config struct {
	AppName string

	PG   PGConfig
	Lite SQLiteConfig
	CH   CHConfig
	RDS  RedisConfig
	DDB  DynamoConfig
}

// PGConfig is a pgx pool. LogSQL traces statements, slower than SlowQueryMs at warn.
// ConnectRetries and PingTimeout bound the boot loop; zero means the defaults
type PGConfig struct {
	Enabled        bool
	URL            string
	MaxConns       int32
	LogSQL         bool
	SlowQueryMs    int
	ConnectRetries int
	PingTimeout    time.Duration
}

// SQLiteConfig is an embedded database file, or ":memory:"
type SQLiteConfig struct {
	Enabled       bool
	Path          string
	BusyTimeoutMs int
	LogSQL        bool
	SlowQueryMs   int
}

// CHConfig is a native ClickHouse connection. ClientName and ClientTag go
// into the client info the server logs
type CHConfig struct {
	Enabled    bool
	URL        string
	ClientName string
	ClientTag  string
}

// RedisConfig is a single node addressed by a redis:// URL
type RedisConfig struct {
	Enabled bool
	URL     string
}

// DynamoConfig resolves credentials the AWS way; Endpoint points at DynamoDB Local
type DynamoConfig struct {
	Enabled  bool
	Region   string
	Endpoint string
}
