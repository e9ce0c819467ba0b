package testkit

import (
	"context"
	"strings"
	"testing"
	"time"
)

var swapTarget = "orig"

func TestSwap_RestoresAfterSubtest(t *testing.T) {
	t.Run("inner", func(t *testing.T) {
		Serial(t)
		Swap(t, &swapTarget, "swapped")
		if swapTarget != "swapped" {
			t.Fatalf("got %q", swapTarget)
		}
	})
	if swapTarget != "orig" {
		t.Fatalf("not restored: %q", swapTarget)
	}
}

func TestAssertions(t *testing.T) {
	t.Parallel()

	MustPanic(t, func() { panic("boom") })
	MustContain(t, "total writes: 26", "writes")
	MustNotContain(t, "total writes: 26", "errors")
}

func TestExcerpt(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("a", 5000) + "tail"
	got := excerpt(long)
	if !strings.HasPrefix(got, "...") || !strings.HasSuffix(got, "tail") || len(got) != 2051 {
		t.Fatalf("excerpt len=%d", len(got))
	}
	if excerpt("short") != "short" {
		t.Fatalf("short strings pass through")
	}
}

func TestSleeper(t *testing.T) {
	t.Parallel()

	var s Sleeper
	if err := s.Sleep(context.Background(), time.Second); err != nil {
		t.Fatalf("Sleep: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Sleep(ctx, 2*time.Second); err == nil {
		t.Fatalf("canceled ctx should be reported")
	}
	if got := s.Waits(); len(got) != 2 || got[1] != 2*time.Second {
		t.Fatalf("Waits = %v", got)
	}
	if s.Total() != 3*time.Second {
		t.Fatalf("Total = %v", s.Total())
	}
}
