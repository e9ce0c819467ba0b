//go:build integration_pg
// +build integration_pg

package repo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"steakfeed/internal/core/record"
	perr "steakfeed/internal/platform/errors"
	"steakfeed/internal/platform/store"
)

// startPostgres launches a disposable Postgres and returns its DSN
func startPostgres(t *testing.T) string {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "postgres",
				"POSTGRES_DB":       "postgres",
			},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort("5432/tcp"),
				wait.ForLog("database system is ready to accept connections"),
			).WithDeadline(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get container host: %v", err)
	}
	mp, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("failed to get mapped port: %v", err)
	}
	return fmt.Sprintf("postgres://postgres:postgres@%s:%s/postgres?sslmode=disable", host, mp.Port())
}

func TestPostgres_Integration_UpsertAndGet(t *testing.T) {
	dsn := startPostgres(t)
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	st, err := store.Open(ctx, store.Config{
		AppName: "steakfeed-test",
		PG:      store.PGConfig{Enabled: true, URL: dsn, MaxConns: 2},
	}, store.WithLogger(zerolog.New(io.Discard)))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close(context.Background()) })

	r, err := NewSQL(st.PG, Postgres, "it_updates")
	if err != nil {
		t.Fatalf("NewSQL: %v", err)
	}
	if err := r.Ensure(ctx); err != nil {
		t.Fatalf("Ensure: %v", err)
	}

	if left, err := r.BatchWrite(ctx, []record.Item{item("a", "b"), item("b", "a")}); err != nil || len(left) != 0 {
		t.Fatalf("BatchWrite = %v, %v", left, err)
	}
	if _, err := r.BatchWrite(ctx, []record.Item{item("a", "z")}); err != nil {
		t.Fatalf("BatchWrite replace: %v", err)
	}

	got, err := r.Get(ctx, "a")
	if err != nil || got.NextID() != "z" || got["day"].N != "97" {
		t.Fatalf("Get = %+v, %v", got, err)
	}
	n, err := countRows(ctx, st.PG, "it_updates")
	if err != nil || n != 2 {
		t.Fatalf("count = %d, %v", n, err)
	}
	if _, err := r.Get(ctx, "missing"); !errors.Is(err, perr.ErrNotFound) {
		t.Fatalf("want not found, got %v", err)
	}
}
