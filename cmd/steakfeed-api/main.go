package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"steakfeed/internal/core/version"
	"steakfeed/internal/modkit/module"
	"steakfeed/internal/modkit/repokit"
	"steakfeed/internal/platform/config"
	"steakfeed/internal/platform/logger"
	phttp "steakfeed/internal/platform/net/http"
	"steakfeed/internal/platform/store"

	"steakfeed/internal/services/api"
	ingestmod "steakfeed/internal/services/ingest/module"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	l := logger.Named("api")
	bi := version.Info("steakfeed-api")
	l.Info().Str("version", bi.Version).Str("commit", bi.Commit).Msg("starting")

	if err := serve(ctx, config.New(), l); err != nil {
		l.Error().Err(err).Msg("api stopped")
		stop()
		os.Exit(1)
	}
}

// serve opens the backend the ingest job writes to and serves the API on it until ctx ends
func serve(ctx context.Context, root config.Conf, l *logger.Logger) error {
	st, err := store.Open(ctx, ingestmod.StoreConfig(root, ingestmod.FromConfig(root), "api"), store.WithLogger(*l))
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("close store")
		}
	}()
	if err := repokit.Ready(ctx, st, 10*time.Second); err != nil {
		return err
	}

	apiCfg := root.Prefix("STEAK_API_")
	srv := phttp.NewServer(root.Prefix("STEAK_"))
	if err := api.Mount(srv.Router(), api.Options{
		Config:         root,
		Store:          st,
		Logger:         l,
		Registry:       module.NewRegistry(),
		EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
		EnableProfiler: apiCfg.MayBool("PROFILER", false),
	}); err != nil {
		return fmt.Errorf("mount: %w", err)
	}
	return srv.Run(ctx)
}
