// Package api assembles the read-only lookup API
package api

import (
	"net/http"
	"time"

	"steakfeed/internal/core/version"
	"steakfeed/internal/modkit"
	"steakfeed/internal/modkit/httpkit"
	"steakfeed/internal/modkit/module"
	"steakfeed/internal/modkit/swaggerkit"
	"steakfeed/internal/platform/config"
	"steakfeed/internal/platform/logger"
	phttp "steakfeed/internal/platform/net/http"
	"steakfeed/internal/platform/net/middleware"
	"steakfeed/internal/platform/store"

	ingestdomain "steakfeed/internal/services/ingest/domain"
	ingestmod "steakfeed/internal/services/ingest/module"
	lookupdocs "steakfeed/internal/services/lookup/docs"
	lookupmod "steakfeed/internal/services/lookup/module"
)

// Options are the API options
type Options struct {
	// Config is the unprefixed root; STEAK_API_ keys tune the HTTP stack
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	Registry       *module.Registry
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount mounts the heartbeat, docs, profiler and the versioned lookup routes on r
func Mount(r phttp.Router, opt Options) error {
	log := opt.Logger
	if log == nil {
		log = logger.Named("api")
	}
	deps := modkit.DepsFrom(opt.Config, *log, opt.Store)

	// the ingest module owns the store backend selection; the API only reads through it
	ingest, err := ingestmod.New(deps)
	if err != nil {
		return err
	}
	apiCfg := opt.Config.Prefix("STEAK_API_")

	// ring walks read up to 500 items each, so concurrent lookups are capped
	inflight := apiCfg.MayInt("LOOKUP_INFLIGHT", 64)
	if inflight < 1 {
		inflight = 1
	}
	lookup := lookupmod.New(deps,
		modkit.WithPorts(module.MustPortsOf[ingestdomain.ItemReader](ingest)),
		modkit.WithMiddlewares(middleware.Throttle(inflight)),
	)
	r.NotFound(phttp.NotFound)
	r.MethodNotAllowed(phttp.MethodNotAllowed)
	r.Use(middleware.Heartbeat("/health"))

	swaggerkit.Mount(r, swaggerkit.Options{
		Enabled:     opt.EnableSwagger,
		Instance:    lookupdocs.InstanceName,
		TitleSuffix: apiCfg.MayString("DOCS_TITLE_SUFFIX", ""),
	})
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	stack := httpkit.CommonStack(httpkit.StackOptions{
		CORSOrigins: apiCfg.MayCSV("CORS_ORIGINS", []string{"*"}),
		Timeout:     apiCfg.MayDuration("TIMEOUT", 30*time.Second),
		Slow:        apiCfg.MayDuration("SLOW", 500*time.Millisecond),
	})
	httpkit.MountAPIV1(r, stack, func(api httpkit.Router) {
		httpkit.Get(api, "/version", func(*http.Request) (any, error) {
			return version.Info("steakfeed-api"), nil
		})
		modkit.MountAll(api, opt.Registry, ingest, lookup)
	})

	log.Info().
		Str("backend", ingest.Backend()).
		Bool("swagger", opt.EnableSwagger).
		Bool("profiler", opt.EnableProfiler).
		Msg("api mounted")
	return nil
}
