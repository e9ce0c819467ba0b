package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"steakfeed/internal/core/version"
	"steakfeed/internal/modkit"
	"steakfeed/internal/modkit/module"
	"steakfeed/internal/modkit/repokit"
	"steakfeed/internal/platform/config"
	"steakfeed/internal/platform/logger"
	"steakfeed/internal/platform/store"

	ingestmod "steakfeed/internal/services/ingest/module"
)

func mustSetEnv(key, val string) {
	if val != "" {
		_ = os.Setenv(key, val)
	}
}

func main() {
	var (
		fTeam    = flag.String("team", "", "team id to ingest (default STEAK_INGEST_TEAM or the built-in team)")
		fSeason  = flag.Int("season", 0, "season number (default STEAK_INGEST_SEASON or 10)")
		fBackend = flag.String("backend", "", "store backend: dynamodb | redis | postgres | clickhouse | sqlite | memory")
		fTable   = flag.String("table", "", "destination table name")
		fCreate  = flag.Bool("create-table", false, "let the DynamoDB backend create a missing table")
	)
	flag.Parse()

	// flags win over env; the module reads both through FromConfig
	mustSetEnv("STEAK_INGEST_TEAM", *fTeam)
	if *fSeason > 0 {
		mustSetEnv("STEAK_INGEST_SEASON", strconv.Itoa(*fSeason))
	}
	mustSetEnv("STEAK_STORE_BACKEND", *fBackend)
	mustSetEnv("STEAK_INGEST_TABLE", *fTable)
	if *fCreate {
		mustSetEnv("STEAK_DYNAMO_ENSURE_TABLE", "true")
	}

	root := config.New()
	l := logger.Named("ingest")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bi := version.Info("steakfeed-ingest")
	l.Info().Str("version", bi.Version).Str("commit", bi.Commit).Msg("starting")

	opts := ingestmod.FromConfig(root)
	if err := opts.Validate(); err != nil {
		l.Fatal().Err(err).Msg("invalid ingest options")
	}

	st, err := store.Open(ctx, ingestmod.StoreConfig(root, opts, "ingest"), store.WithLogger(*l))
	if err != nil {
		l.Fatal().Err(err).Str("backend", opts.Backend).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()
	if err := repokit.Ready(ctx, st, 10*time.Second); err != nil {
		l.Fatal().Err(err).Msg("store not ready")
	}

	mod, err := ingestmod.NewWithOptions(modkit.DepsFrom(root, *l, st), opts)
	if err != nil {
		l.Fatal().Err(err).Msg("ingest module")
	}
	module.Register(mod.Name(), mod.Ports())

	if err := mod.Ensure(ctx); err != nil {
		l.Fatal().Err(err).Msg("ensure table")
	}

	ports, ok := module.PortsAs[ingestmod.Ports](mod.Name())
	if !ok || ports.Runner == nil {
		l.Fatal().Msg("ingest runner not registered")
	}
	sum, err := ports.Runner.Run(ctx)
	if err != nil {
		l.Error().Err(err).Str("run_id", sum.RunID).Int("writes", sum.Writes).Msg("ingest failed")
		stop()
		_ = st.Close(context.Background())
		os.Exit(1)
	}
	fmt.Printf("total writes: %d\n", sum.Writes)
}
