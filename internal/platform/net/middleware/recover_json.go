package middleware

import (
	"fmt"
	stdhttp "net/http"

	"github.com/pkg/errors"

	perr "steakfeed/internal/platform/errors"
	"steakfeed/internal/platform/logger"
	phttp "steakfeed/internal/platform/net/http"
)

// RecoverJSON answers a panicking handler with a 500 envelope.
// The panic value is logged with its stack; http.ErrAbortHandler propagates
func RecoverJSON(next stdhttp.Handler) stdhttp.Handler {
	return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		defer func() {
			v := recover()
			switch v {
			case nil:
				return
			case stdhttp.ErrAbortHandler:
				panic(v)
			}

			cause, ok := v.(error)
			if !ok {
				cause = fmt.Errorf("%v", v)
			}
			logger.C(r.Context()).Error().
				Stack().
				Err(errors.WithStack(cause)).
				Str("route", r.Method+" "+r.URL.Path).
				Msg("handler panicked")
			phttp.RespondError(w, r, perr.New(perr.ErrorCodePanic, "panic recovered"))
		}()
		next.ServeHTTP(w, r)
	})
}
