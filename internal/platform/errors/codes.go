package errors

import "net/http"

// ErrorCode classifies an error for transport and retry decisions.
// Values go over the wire; append only
type ErrorCode uint16

const (
	ErrorCodeUnknown ErrorCode = iota
	// ErrorCodePanic marks a panic recovered by middleware
	ErrorCodePanic
	// ErrorCodeUnavailable is transient; a retry may succeed
	ErrorCodeUnavailable
	// ErrorCodeTooManyRequests is upstream rate limiting or store throttling
	ErrorCodeTooManyRequests
	ErrorCodeInvalidArgument
	// ErrorCodeValidation is a rejected option or query parameter
	ErrorCodeValidation
	// ErrorCodeJSON is a body that would not decode, upstream or inbound
	ErrorCodeJSON
	ErrorCodeNotFound
	ErrorCodeDB
	// ErrorCodeSchema is an update whose fields drifted from the stored layout
	ErrorCodeSchema
	// ErrorCodeCanceled is work abandoned because its context ended
	ErrorCodeCanceled
)

var codeNames = [...]string{
	ErrorCodeUnknown:         "unknown",
	ErrorCodePanic:           "panic",
	ErrorCodeUnavailable:     "unavailable",
	ErrorCodeTooManyRequests: "too_many_requests",
	ErrorCodeInvalidArgument: "invalid_argument",
	ErrorCodeValidation:      "validation",
	ErrorCodeJSON:            "json",
	ErrorCodeNotFound:        "not_found",
	ErrorCodeDB:              "db",
	ErrorCodeSchema:          "schema",
	ErrorCodeCanceled:        "canceled",
}

// String returns the snake case name used in logs
func (c ErrorCode) String() string {
	if int(c) < len(codeNames) {
		return codeNames[c]
	}
	return "unknown"
}

// HTTPStatusCode maps a code to the status the API answers with
func HTTPStatusCode(c ErrorCode) int {
	switch c {
	case ErrorCodeNotFound:
		return http.StatusNotFound
	case ErrorCodeInvalidArgument:
		return http.StatusUnprocessableEntity
	case ErrorCodeValidation, ErrorCodeJSON:
		return http.StatusBadRequest
	case ErrorCodeTooManyRequests:
		return http.StatusTooManyRequests
	case ErrorCodeUnavailable:
		return http.StatusServiceUnavailable
	case ErrorCodeCanceled:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// Retryable reports whether a store error is worth resubmitting.
// Cancellation never is. Coded errors decide by code; uncoded ones
// fall back to the Postgres rules in pg.go
func Retryable(err error) bool {
	if err == nil || IsCanceled(err) {
		return false
	}
	switch CodeOf(err) {
	case ErrorCodeUnavailable, ErrorCodeTooManyRequests:
		return true
	case ErrorCodeSchema, ErrorCodeValidation, ErrorCodeInvalidArgument, ErrorCodeNotFound, ErrorCodePanic:
		return false
	}
	return pgRetryable(err)
}
