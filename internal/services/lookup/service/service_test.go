package service

import (
	"context"
	"errors"
	"testing"

	"steakfeed/internal/core/record"
	perr "steakfeed/internal/platform/errors"
	"steakfeed/internal/services/lookup/domain"
)

type mapReader struct {
	items map[string]record.Item
	fail  string
	calls int
}

func (m *mapReader) Get(_ context.Context, hash string) (record.Item, error) {
	m.calls++
	if hash == m.fail {
		return nil, perr.New(perr.ErrorCodeDB, "backend down")
	}
	it, ok := m.items[hash]
	if !ok {
		return nil, perr.Wrap(perr.ErrNotFound, perr.ErrorCodeNotFound, "item not found")
	}
	return it, nil
}

func item(hash, next string) record.Item {
	return record.Item{"hash": record.S(hash), "next_id": record.S(next), "gameId": record.S("g1")}
}

// ring of three plus a sentinel pointing into it
func fixture() *mapReader {
	return &mapReader{items: map[string]record.Item{
		"u3":      item("u3", "u2"),
		"u2":      item("u2", "u1"),
		"u1":      item("u1", "u3"),
		"current": item("current", "u2"),
		"broken":  item("broken", "gone"),
	}}
}

func keys(items []record.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Key()
	}
	return out
}

func eq(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNew_NilPanics(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	New(nil)
}

func TestGetAndCurrent(t *testing.T) {
	t.Parallel()

	s := New(fixture())
	it, err := s.Current(context.Background())
	if err != nil || it.Key() != "current" {
		t.Fatalf("Current = %v, %v", it, err)
	}
	if it, err = s.Get(context.Background(), " u1 "); err != nil || it.Key() != "u1" {
		t.Fatalf("Get trims: %v, %v", it, err)
	}
	if _, err = s.Get(context.Background(), "nope"); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("want not found, got %v", err)
	}
	_, err = s.Get(context.Background(), "  ")
	if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("want invalid argument, got %v", err)
	}
}

func TestRing_Stops(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		start string
		limit int
		keys  []string
		stop  domain.Stop
		next  string
	}{
		{"closed", "u3", 50, []string{"u3", "u2", "u1"}, domain.StopClosed, ""},
		{"limit", "u3", 2, []string{"u3", "u2"}, domain.StopLimit, "u1"},
		{"limit equals ring", "u3", 3, []string{"u3", "u2", "u1"}, domain.StopClosed, ""},
		{"sentinel revisits", "current", 50, []string{"current", "u2", "u1", "u3"}, domain.StopRevisit, "u2"},
		{"missing link", "broken", 50, []string{"broken"}, domain.StopMissing, "gone"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			ring, err := New(fixture()).Ring(context.Background(), c.start, c.limit)
			if err != nil {
				t.Fatalf("Ring: %v", err)
			}
			if got := keys(ring.Items); !eq(got, c.keys) {
				t.Fatalf("keys = %v want %v", got, c.keys)
			}
			if ring.Stop != c.stop || ring.Next != c.next || ring.Start != c.start {
				t.Fatalf("ring = start %q stop %q next %q", ring.Start, ring.Stop, ring.Next)
			}
		})
	}
}

func TestRing_SelfLoop(t *testing.T) {
	t.Parallel()

	r := &mapReader{items: map[string]record.Item{"solo": item("solo", "solo")}}
	ring, err := New(r).Ring(context.Background(), "solo", 10)
	if err != nil || ring.Stop != domain.StopClosed || len(ring.Items) != 1 {
		t.Fatalf("ring = %+v, %v", ring, err)
	}
}

func TestRing_Errors(t *testing.T) {
	t.Parallel()

	s := New(fixture())
	for _, limit := range []int{0, domain.MaxRingLimit + 1} {
		if _, err := s.Ring(context.Background(), "u1", limit); !perr.IsCode(err, perr.ErrorCodeValidation) {
			t.Fatalf("limit %d: want validation, got %v", limit, err)
		}
	}
	if _, err := s.Ring(context.Background(), "nope", 5); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("unknown start: got %v", err)
	}

	r := fixture()
	r.fail = "u1"
	_, err := New(r).Ring(context.Background(), "u3", 5)
	if err == nil || !perr.IsCode(err, perr.ErrorCodeDB) || errors.Is(err, perr.ErrNotFound) {
		t.Fatalf("backend failure should surface, got %v", err)
	}
}
