package chronicler

import (
	"errors"
	"fmt"
	"net/http"

	perr "steakfeed/internal/platform/errors"
)

// StatusError wraps non-200 responses from Chronicler
type StatusError struct {
	Status int
	Path   string
	Body   string
}

// Error interface
func (e *StatusError) Error() string {
	return fmt.Sprintf("chronicler %s: status %d", e.Path, e.Status)
}

// HTTPStatus interface
func (e *StatusError) HTTPStatus() int { return e.Status }

// Code maps the status to an error code so perr.Retryable can classify it
func (e *StatusError) Code() perr.ErrorCode {
	switch {
	case e.Status == http.StatusTooManyRequests:
		return perr.ErrorCodeTooManyRequests
	case e.Status == http.StatusRequestTimeout, e.Status >= 500:
		return perr.ErrorCodeUnavailable
	case e.Status == http.StatusNotFound:
		return perr.ErrorCodeNotFound
	default:
		return perr.ErrorCodeInvalidArgument
	}
}

// IsTransient reports whether err is worth another attempt against Chronicler.
// Transport failures, throttling, 5xx and undecodable bodies qualify; cancellation never does
func IsTransient(err error) bool {
	if err == nil || perr.IsCanceled(err) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		c := se.Code()
		return c == perr.ErrorCodeTooManyRequests || c == perr.ErrorCodeUnavailable
	}
	switch perr.CodeOf(err) {
	case perr.ErrorCodeUnavailable, perr.ErrorCodeTooManyRequests, perr.ErrorCodeJSON:
		return true
	}
	return false
}
