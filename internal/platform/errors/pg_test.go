package errors

import (
	stderrs "errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func pgErr(code string) error { return &pgconn.PgError{Code: code, Message: "pg " + code} }

func TestFromPostgres(t *testing.T) {
	t.Parallel()

	if FromPostgres(nil, "x") != nil {
		t.Fatalf("nil should stay nil")
	}

	cases := map[string]ErrorCode{
		pgNotNullViolation:   ErrorCodeValidation,
		pgInvalidJSON:        ErrorCodeInvalidArgument,
		pgSerialization:      ErrorCodeTooManyRequests,
		pgDeadlock:           ErrorCodeTooManyRequests,
		pgCannotConnectNow:   ErrorCodeUnavailable,
		pgQueryCanceled:      ErrorCodeUnavailable,
		pgTooManyConnections: ErrorCodeUnavailable,
		"42P01":              ErrorCodeDB,
	}
	for state, want := range cases {
		err := FromPostgres(fmt.Errorf("exec: %w", pgErr(state)), "batch write")
		if got := CodeOf(err); got != want {
			t.Fatalf("%s -> %v, want %v", state, got, want)
		}
	}

	if got := CodeOf(FromPostgres(stderrs.New("conn reset"), "x")); got != ErrorCodeDB {
		t.Fatalf("non pg error -> %v", got)
	}
}

func TestPgRetryable(t *testing.T) {
	t.Parallel()

	if !Retryable(fmt.Errorf("tx: %w", pgErr(pgDeadlock))) {
		t.Fatalf("deadlock should retry")
	}
	if Retryable(pgErr("23505")) {
		t.Fatalf("unique violation should not retry")
	}
	if !Retryable(stderrs.New("ERROR: could not serialize access due to concurrent update")) {
		t.Fatalf("serialization text should retry")
	}
	// a coded wrapper decides before the pg rules
	if Retryable(Wrap(pgErr(pgDeadlock), ErrorCodeSchema, "x")) {
		t.Fatalf("schema code should win")
	}
}
