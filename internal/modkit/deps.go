// Package modkit wires modules to the process: deps in, routes and ports out
package modkit

import (
	"steakfeed/internal/modkit/repokit"
	"steakfeed/internal/platform/config"
	"steakfeed/internal/platform/logger"
	"steakfeed/internal/platform/store"
)

// Deps is what every module constructor receives.
// A backend seam is nil unless the process opened that backend
type Deps struct {
	Log logger.Logger
	Cfg config.Conf

	PG   repokit.TxRunner
	Lite repokit.TxRunner
	CH   store.Clickhouse
	RDB  store.Redis
	DDB  store.Dynamo
}

// DepsFrom pairs cfg and log with the backends st opened. st may be nil
func DepsFrom(cfg config.Conf, log logger.Logger, st *store.Store) Deps {
	if st == nil {
		return Deps{Log: log, Cfg: cfg}
	}
	return Deps{
		Log:  log,
		Cfg:  cfg,
		PG:   st.PG,
		Lite: st.Lite,
		CH:   st.CH,
		RDB:  st.RDB,
		DDB:  st.DDB,
	}
}
