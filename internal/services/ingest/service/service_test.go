package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"steakfeed/internal/core/record"
	kit "steakfeed/internal/platform/testkit"
	"steakfeed/internal/services/ingest/domain"
	"steakfeed/internal/services/ingest/repo"
)

func newTestService(up domain.Upstream, st domain.ItemWriter) *Service {
	s := New(up, st, Config{Team: "team", Season: 10, Sleep: (&kit.Sleeper{}).Sleep})
	s.newID = func() string { return "run-1" }
	return s
}

func mustGet(t *testing.T, m *repo.Memory, hash string) record.Item {
	t.Helper()
	it, err := m.Get(context.Background(), hash)
	if err != nil {
		t.Fatalf("Get %s: %v", hash, err)
	}
	return it
}

func TestRun_StitchesRingAndSentinel(t *testing.T) {
	t.Parallel()

	up := newFakeUpstream("g1")
	// newest first, as upstream delivers
	up.feed("g1", 2, upd("g1", "U1", "3"), upd("g1", "U2", "2"), upd("g1", "U3", "1"))
	mem := repo.NewMemory()

	sum, err := newTestService(up, mem).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.RunID != "run-1" || sum.Games != 1 || sum.Updates != 3 || sum.Writes != 4 || sum.Truncated != 0 {
		t.Fatalf("summary = %+v", sum)
	}

	links := map[string]string{"U3": "U2", "U2": "U1", "U1": "U3"}
	for h, next := range links {
		if got := mustGet(t, mem, h).NextID(); got != next {
			t.Fatalf("%s.next_id = %q want %q", h, got, next)
		}
	}
	cur := mustGet(t, mem, record.CurrentHash)
	u3 := mustGet(t, mem, "U3")
	if cur.NextID() != "U2" || cur.Timestamp() != u3.Timestamp() || cur["lastUpdate"].S != "update U3" {
		t.Fatalf("sentinel = %+v", cur)
	}
	if mem.Len() != 4 {
		t.Fatalf("stored = %d want 4", mem.Len())
	}
}

func TestRun_SentinelWrittenAfterRingFlush(t *testing.T) {
	t.Parallel()

	up := newFakeUpstream("g1")
	up.feed("g1", 5, upd("g1", "a", "2"), upd("g1", "b", "1"))
	st := &flakyStore{inner: repo.NewMemory()}

	if _, err := newTestService(up, st).Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(st.batches) != 2 {
		t.Fatalf("batches = %v", st.batches)
	}
	if b := st.batches[1]; len(b) != 1 || b[0] != record.CurrentHash {
		t.Fatalf("sentinel batch = %v", b)
	}
	for _, h := range st.batches[0] {
		if h == record.CurrentHash {
			t.Fatalf("sentinel shared a batch with its ring: %v", st.batches[0])
		}
	}
}

func TestRun_SingleUpdateSelfLinks(t *testing.T) {
	t.Parallel()

	up := newFakeUpstream("g1")
	up.feed("g1", 5, upd("g1", "solo", "1"))
	mem := repo.NewMemory()

	if _, err := newTestService(up, mem).Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if mustGet(t, mem, "solo").NextID() != "solo" || mustGet(t, mem, record.CurrentHash).NextID() != "solo" {
		t.Fatalf("single update must self-link")
	}
}

func TestRun_ZeroGames(t *testing.T) {
	t.Parallel()

	mem := repo.NewMemory()
	sum, err := newTestService(newFakeUpstream(), mem).Run(context.Background())
	if err != nil || sum.Writes != 0 || sum.Games != 0 || mem.Calls() != 0 {
		t.Fatalf("sum=%+v err=%v calls=%d", sum, err, mem.Calls())
	}
}

func TestRun_EmptyGameWritesNothing(t *testing.T) {
	t.Parallel()

	up := newFakeUpstream("g1", "g2")
	up.feed("g1", 5)
	up.feed("g2", 5, upd("g2", "x", "1"), upd("g2", "y", "0"))
	mem := repo.NewMemory()

	sum, err := newTestService(up, mem).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Games != 2 || sum.EmptyGames != 1 || sum.Writes != 3 {
		t.Fatalf("summary = %+v", sum)
	}
	if mustGet(t, mem, record.CurrentHash).GameID() != "g2" {
		t.Fatalf("sentinel from wrong game")
	}
}

func TestRun_Idempotent(t *testing.T) {
	t.Parallel()

	up := newFakeUpstream("g1")
	up.feed("g1", 2, upd("g1", "U1", "3"), upd("g1", "U2", "2"), upd("g1", "U3", "1"))
	mem := repo.NewMemory()

	for range 2 {
		if _, err := newTestService(up, mem).Run(context.Background()); err != nil {
			t.Fatalf("Run: %v", err)
		}
	}
	if mem.Len() != 4 || mem.Writes() != 8 {
		t.Fatalf("len=%d writes=%d", mem.Len(), mem.Writes())
	}
	if mustGet(t, mem, "U1").NextID() != "U3" {
		t.Fatalf("second run changed the ring")
	}
}

func TestRun_ManyGamesBatchBound(t *testing.T) {
	t.Parallel()

	up := newFakeUpstream("g1", "g2")
	var g1, g2 []record.Update
	for i := range 30 {
		g1 = append(g1, upd("g1", "a"+string(rune('A'+i)), "t"))
		g2 = append(g2, upd("g2", "b"+string(rune('A'+i)), "t"))
	}
	up.feed("g1", 7, g1...)
	up.feed("g2", 7, g2...)
	st := &flakyStore{inner: repo.NewMemory()}

	sum, err := newTestService(up, st).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, b := range st.batches {
		if len(b) > MaxBatch {
			t.Fatalf("batch of %d exceeds %d", len(b), MaxBatch)
		}
	}
	if sum.Writes != 62 {
		t.Fatalf("writes = %d want 62", sum.Writes)
	}
}

func TestRun_TruncationIsCountedNotFatal(t *testing.T) {
	t.Parallel()

	up := newFakeUpstream("g1", "g2")
	up.pages["g1|"] = domain.UpdatesPage{NextPage: "p1", Data: []record.Update{upd("g1", "a", "2"), upd("g1", "b", "1")}}
	errs := make([]error, 10)
	for i := range errs {
		errs[i] = errFlaky
	}
	up.pageErrs["g1|p1"] = errs
	up.feed("g2", 5, upd("g2", "c", "1"))
	mem := repo.NewMemory()

	sum, err := newTestService(up, mem).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Truncated != 1 || sum.Games != 2 {
		t.Fatalf("summary = %+v", sum)
	}
	// the truncated game still closes its ring over what arrived
	if mustGet(t, mem, "a").NextID() != "b" || mustGet(t, mem, "b").NextID() != "a" {
		t.Fatalf("truncated game ring not closed")
	}
}

func TestRun_SchemaErrorIsFatal(t *testing.T) {
	t.Parallel()

	bad := upd("g1", "b", "1")
	delete(bad.Data, "homeScore")
	up := newFakeUpstream("g1")
	up.feed("g1", 5, upd("g1", "a", "2"), bad)
	mem := repo.NewMemory()

	sum, err := newTestService(up, mem).Run(context.Background())
	var mf *record.MissingFieldError
	if !errors.As(err, &mf) || mf.Field != "homeScore" {
		t.Fatalf("want MissingFieldError, got %v", err)
	}
	if sum.Writes != 0 || mem.Len() != 0 {
		t.Fatalf("schema failure wrote %d items", mem.Len())
	}
}

func TestRun_CancellationAborts(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	up := newFakeUpstream("g1", "g2")
	up.pageErrs["g1|"] = []error{errFlaky}
	up.feed("g2", 5, upd("g2", "c", "1"))

	s := newTestService(up, repo.NewMemory())
	s.Cfg.Sleep = func(ctx context.Context, _ time.Duration) error {
		cancel()
		return ctx.Err()
	}
	sum, err := s.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("want canceled, got %v", err)
	}
	if sum.Truncated != 0 || up.callsFor("g2|") != 0 {
		t.Fatalf("cancellation absorbed: %+v", sum)
	}
}

func TestNew_PanicsOnNil(t *testing.T) {
	t.Parallel()

	kit.MustPanic(t, func() { New(nil, repo.NewMemory(), Config{}) })
	kit.MustPanic(t, func() { New(newFakeUpstream(), nil, Config{}) })
}
