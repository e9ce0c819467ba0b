// Package middleware adapts chi and go-chi/cors middleware to plain net/http signatures
package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	chicors "github.com/go-chi/cors"

	pnet "steakfeed/internal/platform/net"
	pstrings "steakfeed/internal/platform/strings"
)

// Middleware is the shape every constructor here returns
type Middleware = func(http.Handler) http.Handler

// RequestID accepts an inbound X-Request-ID or mints one, echoes it back
// and puts it on the request logger
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		tag := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			id := chimw.GetReqID(ctx)
			if id != "" {
				w.Header().Set(chimw.RequestIDHeader, id)
			}
			next.ServeHTTP(w, r.WithContext(pnet.WithRequest(ctx, id)))
		})
		return chimw.RequestID(tag)
	}
}

// RealIP trusts X-Forwarded-For and X-Real-IP for RemoteAddr
func RealIP() Middleware { return chimw.RealIP }

// Timeout ends the request context after d and answers 504 if nothing was written
func Timeout(d time.Duration) Middleware { return chimw.Timeout(d) }

// NoCache marks every response uncacheable
func NoCache() Middleware { return chimw.NoCache }

// Compress negotiates gzip and deflate at level
func Compress(level int) Middleware { return chimw.NewCompressor(level).Handler }

// Throttle caps concurrent requests; the excess gets 429
func Throttle(limit int) Middleware { return chimw.Throttle(limit) }

// Heartbeat answers GET path with 200 before routing
func Heartbeat(path string) Middleware { return chimw.Heartbeat(path) }

// CORSOptions is the subset of go-chi/cors the API configures
type CORSOptions struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	ExposedHeaders []string
	MaxAge         int
}

// CORS allows read-only cross-origin access unless o widens it
func CORS(o CORSOptions) Middleware {
	reqID := chimw.RequestIDHeader
	return chicors.Handler(chicors.Options{
		AllowedOrigins: pstrings.IfEmpty(o.AllowedOrigins, []string{"*"}),
		AllowedMethods: pstrings.IfEmpty(o.AllowedMethods, []string{http.MethodGet, http.MethodHead, http.MethodOptions}),
		AllowedHeaders: pstrings.IfEmpty(o.AllowedHeaders, []string{"Accept", "Content-Type", reqID}),
		ExposedHeaders: pstrings.IfEmpty(o.ExposedHeaders, []string{reqID}),
		MaxAge:         o.MaxAge,
	})
}
