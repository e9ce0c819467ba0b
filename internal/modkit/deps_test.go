package modkit

import (
	"testing"

	"steakfeed/internal/platform/config"
	"steakfeed/internal/platform/logger"
	"steakfeed/internal/platform/store"
)

func TestDepsFrom_NilStore(t *testing.T) {
	t.Parallel()

	d := DepsFrom(config.New(), *logger.Get(), nil)
	if d.PG != nil || d.Lite != nil || d.CH != nil || d.RDB != nil || d.DDB != nil {
		t.Fatalf("nil store must leave seams nil: %+v", d)
	}
	if d.Cfg.MayString("STEAK_DEPS_PROBE", "x") != "x" {
		t.Fatalf("config not carried")
	}
}

func TestDepsFrom_CopiesSeams(t *testing.T) {
	t.Parallel()

	st, err := store.Open(t.Context(), store.Config{
		Lite: store.SQLiteConfig{Enabled: true, Path: ":memory:"},
	})
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close(t.Context()) })

	d := DepsFrom(config.New(), *logger.Get(), st)
	if d.Lite == nil {
		t.Fatalf("Lite seam not copied")
	}
	if d.PG != nil || d.RDB != nil {
		t.Fatalf("disabled seams must stay nil")
	}
}
