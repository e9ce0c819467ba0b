package middleware

import (
	"net/http"
	"time"

	"steakfeed/internal/platform/logger"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// AccessLogOptions configures AccessLogZerolog
type AccessLogOptions struct {
	// Slow logs requests at or over this duration at warn; zero disables it
	Slow time.Duration
	// Skip lists exact paths that are never logged
	Skip []string
}

// AccessLogZerolog writes one "request done" line per request through the
// context logger, so request_id set upstream is included. 5xx is error level
func AccessLogZerolog(opt AccessLogOptions) func(http.Handler) http.Handler {
	skip := make(map[string]struct{}, len(opt.Skip))
	for _, p := range opt.Skip {
		skip[p] = struct{}{}
	}
	level := func(status int, took time.Duration) zerolog.Level {
		switch {
		case status >= http.StatusInternalServerError:
			return zerolog.ErrorLevel
		case opt.Slow > 0 && took >= opt.Slow:
			return zerolog.WarnLevel
		}
		return zerolog.InfoLevel
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := skip[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			took := time.Since(start)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			logger.C(r.Context()).WithLevel(level(status, took)).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", status).
				Int("bytes", ww.BytesWritten()).
				Dur("elapsed", took).
				Str("remote", r.RemoteAddr).
				Msg("request done")
		})
	}
}
