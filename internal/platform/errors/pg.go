package errors

import (
	stderrs "errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE classes the item table can raise
const (
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
	pgStringTruncation    = "22001"
	pgInvalidText         = "22P02"
	pgInvalidJSON         = "22032"
	pgSerialization       = "40001"
	pgDeadlock            = "40P01"
	pgLockNotAvailable    = "55P03"
	pgQueryCanceled       = "57014"
	pgTooManyConnections  = "53300"
	pgReadOnlyTransaction = "25006"
	pgCannotConnectNow    = "57P03"
)

func pgCode(err error) (ErrorCode, bool) {
	var pgErr *pgconn.PgError
	if !stderrs.As(err, &pgErr) {
		return ErrorCodeUnknown, false
	}
	switch pgErr.Code {
	case pgNotNullViolation, pgCheckViolation:
		return ErrorCodeValidation, true
	case pgStringTruncation, pgInvalidText, pgInvalidJSON:
		return ErrorCodeInvalidArgument, true
	case pgSerialization, pgDeadlock, pgLockNotAvailable:
		// contention; the batch writer resubmits
		return ErrorCodeTooManyRequests, true
	case pgReadOnlyTransaction, pgCannotConnectNow, pgTooManyConnections, pgQueryCanceled:
		return ErrorCodeUnavailable, true
	}
	return ErrorCodeDB, true
}

// FromPostgres wraps a driver error with the code its SQLSTATE maps to.
// Errors without a SQLSTATE become DB
func FromPostgres(err error, msg string) error {
	if err == nil {
		return nil
	}
	if code, ok := pgCode(err); ok {
		return Wrap(err, code, msg)
	}
	return Wrap(err, ErrorCodeDB, msg)
}

// pgRetryable covers uncoded driver errors, including the text pgx reports on commit
func pgRetryable(err error) bool {
	root := Root(err)
	if code, ok := pgCode(root); ok {
		return code == ErrorCodeTooManyRequests || code == ErrorCodeUnavailable
	}
	s := strings.ToLower(root.Error())
	for _, frag := range []string{
		"commit unexpectedly resulted in rollback",
		"deadlock detected",
		"could not serialize access",
		"canceling statement due to lock timeout",
		"terminating connection due to administrator command",
	} {
		if strings.Contains(s, frag) {
			return true
		}
	}
	return false
}
