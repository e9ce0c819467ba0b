package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"steakfeed/internal/adapters/chronicler"
	"steakfeed/internal/core/record"
	perr "steakfeed/internal/platform/errors"
	kit "steakfeed/internal/platform/testkit"
	"steakfeed/internal/services/ingest/domain"
)

func collect(seq func(func(record.Update, error) bool)) ([]string, error) {
	var hashes []string
	for u, err := range seq {
		if err != nil {
			return hashes, err
		}
		hashes = append(hashes, u.Hash)
	}
	return hashes, nil
}

func TestSource_PagesInOrder(t *testing.T) {
	t.Parallel()

	up := newFakeUpstream("g1")
	up.feed("g1", 2, upd("g1", "u5", "5"), upd("g1", "u4", "4"), upd("g1", "u3", "3"), upd("g1", "u2", "2"), upd("g1", "u1", "1"))
	src := NewSource(up, 0, 0, (&kit.Sleeper{}).Sleep)

	got, err := collect(src.Updates(context.Background(), "g1"))
	if err != nil {
		t.Fatalf("Updates: %v", err)
	}
	want := []string{"u5", "u4", "u3", "u2", "u1"}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
	if up.callsFor("g1|p3") != 1 {
		t.Fatalf("terminal page not requested")
	}
}

func TestSource_LastPageWithoutCursorIsNotYielded(t *testing.T) {
	t.Parallel()

	up := newFakeUpstream("g1")
	up.pages["g1|"] = domain.UpdatesPage{NextPage: "p1", Data: []record.Update{upd("g1", "a", "2")}}
	up.pages["g1|p1"] = domain.UpdatesPage{Data: []record.Update{upd("g1", "b", "1")}}
	src := NewSource(up, 0, 0, (&kit.Sleeper{}).Sleep)

	got, err := collect(src.Updates(context.Background(), "g1"))
	if err != nil || len(got) != 1 || got[0] != "a" {
		t.Fatalf("got %v, %v", got, err)
	}
}

func TestSource_RetriesTransientWithFixedInterval(t *testing.T) {
	t.Parallel()

	up := newFakeUpstream("g1")
	up.feed("g1", 10, upd("g1", "a", "1"))
	up.pageErrs["g1|"] = []error{errFlaky, errFlaky, &chronicler.StatusError{Status: 503, Path: "/games/updates"}}
	var sl kit.Sleeper
	src := NewSource(up, 10, time.Second, sl.Sleep)

	got, err := collect(src.Updates(context.Background(), "g1"))
	if err != nil || len(got) != 1 {
		t.Fatalf("got %v, %v", got, err)
	}
	if up.callsFor("g1|") != 4 {
		t.Fatalf("first page calls = %d want 4", up.callsFor("g1|"))
	}
	for _, w := range sl.Waits() {
		if w != time.Second {
			t.Fatalf("waits = %v", sl.Waits())
		}
	}
	if len(sl.Waits()) != 3 {
		t.Fatalf("waits = %v", sl.Waits())
	}
}

func TestSource_ExhaustionTruncates(t *testing.T) {
	t.Parallel()

	up := newFakeUpstream("g1")
	up.pages["g1|"] = domain.UpdatesPage{NextPage: "p1", Data: []record.Update{upd("g1", "a", "2")}}
	errs := make([]error, 10)
	for i := range errs {
		errs[i] = errFlaky
	}
	up.pageErrs["g1|p1"] = errs
	var sl kit.Sleeper
	src := NewSource(up, 10, time.Second, sl.Sleep)

	got, err := collect(src.Updates(context.Background(), "g1"))
	if len(got) != 1 || got[0] != "a" {
		t.Fatalf("records before truncation = %v", got)
	}
	var te *domain.TruncatedError
	if !errors.As(err, &te) || te.Scope != "updates" || te.ID != "g1" || !errors.Is(err, domain.ErrTruncated) {
		t.Fatalf("want TruncatedError, got %v", err)
	}
	if up.callsFor("g1|p1") != 10 || len(sl.Waits()) != 9 {
		t.Fatalf("calls=%d waits=%d", up.callsFor("g1|p1"), len(sl.Waits()))
	}
}

func TestSource_NonTransientTruncatesWithoutRetry(t *testing.T) {
	t.Parallel()

	up := newFakeUpstream("g1")
	up.pageErrs["g1|"] = []error{&chronicler.StatusError{Status: 404, Path: "/games/updates"}}
	src := NewSource(up, 10, time.Second, (&kit.Sleeper{}).Sleep)

	_, err := collect(src.Updates(context.Background(), "g1"))
	if !errors.Is(err, domain.ErrTruncated) || up.callsFor("g1|") != 1 {
		t.Fatalf("err=%v calls=%d", err, up.callsFor("g1|"))
	}
}

func TestSource_CancellationIsNotTruncation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	up := newFakeUpstream("g1")
	up.pageErrs["g1|"] = []error{errFlaky, errFlaky}
	sleep := func(ctx context.Context, _ time.Duration) error {
		cancel()
		return ctx.Err()
	}
	src := NewSource(up, 10, time.Second, sleep)

	_, err := collect(src.Updates(ctx, "g1"))
	if !perr.IsCanceled(err) || errors.Is(err, domain.ErrTruncated) {
		t.Fatalf("want plain cancellation, got %v", err)
	}
	if up.callsFor("g1|") != 1 {
		t.Fatalf("retried after cancel: %d", up.callsFor("g1|"))
	}
}

func TestSource_StalledCursorEnds(t *testing.T) {
	t.Parallel()

	up := newFakeUpstream("g1")
	up.pages["g1|"] = domain.UpdatesPage{NextPage: "p1", Data: []record.Update{upd("g1", "a", "1")}}
	up.pages["g1|p1"] = domain.UpdatesPage{NextPage: "p1"}
	src := NewSource(up, 0, 0, (&kit.Sleeper{}).Sleep)

	got, err := collect(src.Updates(context.Background(), "g1"))
	if err != nil || len(got) != 1 || up.callsFor("g1|p1") != 1 {
		t.Fatalf("got %v err %v calls %d", got, err, up.callsFor("g1|p1"))
	}
}

func TestSource_EarlyBreakStopsFetching(t *testing.T) {
	t.Parallel()

	up := newFakeUpstream("g1")
	up.feed("g1", 1, upd("g1", "a", "2"), upd("g1", "b", "1"))
	src := NewSource(up, 0, 0, (&kit.Sleeper{}).Sleep)

	for range src.Updates(context.Background(), "g1") {
		break
	}
	if up.callsFor("g1|p1") != 0 {
		t.Fatalf("fetched past a break")
	}
}

func TestSource_Games(t *testing.T) {
	t.Parallel()

	up := newFakeUpstream("g3", "", "g2", "g1")
	up.gamesErr = []error{errFlaky}
	var sl kit.Sleeper
	src := NewSource(up, 10, time.Second, sl.Sleep)

	var got []string
	for id, err := range src.Games(context.Background(), "team", 10) {
		if err != nil {
			t.Fatalf("Games: %v", err)
		}
		got = append(got, id)
	}
	if len(got) != 3 || got[0] != "g3" || got[2] != "g1" {
		t.Fatalf("games = %v", got)
	}
	if up.callsFor("games") != 2 || len(sl.Waits()) != 1 {
		t.Fatalf("calls=%d waits=%v", up.callsFor("games"), sl.Waits())
	}
}

func TestSource_GamesExhausted(t *testing.T) {
	t.Parallel()

	up := newFakeUpstream("g1")
	up.gamesErr = []error{errFlaky, errFlaky, errFlaky}
	src := NewSource(up, 3, time.Second, (&kit.Sleeper{}).Sleep)

	n := 0
	var last error
	for _, err := range src.Games(context.Background(), "team", 10) {
		n++
		last = err
	}
	if n != 1 || !errors.Is(last, domain.ErrTruncated) {
		t.Fatalf("n=%d err=%v", n, last)
	}
}
