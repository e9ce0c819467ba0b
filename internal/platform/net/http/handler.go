package http

import (
	"net/http"

	"steakfeed/internal/platform/net/http/bind"
)

// JSONHandlerNoBody calls fn and wraps its result in the envelope
func JSONHandlerNoBody(fn func(*http.Request) (any, error)) Handler {
	return Handle(func(r *http.Request) Response {
		out, err := fn(r)
		if err != nil {
			return Error(err)
		}
		if resp, ok := out.(Response); ok {
			return resp
		}
		return OK(out)
	})
}

// QueryHandler binds and validates the URL query into T before calling fn
func QueryHandler[T any](fn func(*http.Request, T) (any, error)) Handler {
	return JSONHandlerNoBody(func(r *http.Request) (any, error) {
		in, err := bind.Query[T](r)
		if err != nil {
			return nil, err
		}
		return fn(r, in)
	})
}

// GetJSON registers fn for GET with the envelope adapter
func GetJSON(r Router, path string, fn func(*http.Request) (any, error)) {
	r.Get(path, JSONHandlerNoBody(fn))
}

// GetQuery registers fn for GET with the query bound into T
func GetQuery[T any](r Router, path string, fn func(*http.Request, T) (any, error)) {
	r.Get(path, QueryHandler(fn))
}
