// Package http provides the router seam, the server and the JSON envelope
package http

import (
	stdhttp "net/http"

	perr "steakfeed/internal/platform/errors"
	pnet "steakfeed/internal/platform/net"

	jsoniter "github.com/json-iterator/go"
)

// Envelope wraps every body the API writes, success or failure
type Envelope struct {
	StatusCode int            `json:"status_code"`
	Status     string         `json:"status"`
	Code       perr.ErrorCode `json:"code,omitempty"`
	Error      string         `json:"error,omitempty"`
	Field      string         `json:"field,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
	Data       any            `json:"data,omitempty"`
	Page       *Page          `json:"page,omitempty"`
}

// Page describes a bounded list; a non-empty Cursor resumes it
type Page struct {
	Count  int    `json:"count"`
	Limit  int    `json:"limit"`
	Cursor string `json:"cursor,omitempty"`
}

var codec = jsoniter.ConfigCompatibleWithStandardLibrary

func envelope(r *stdhttp.Request, status int) Envelope {
	return Envelope{
		StatusCode: status,
		Status:     stdhttp.StatusText(status),
		RequestID:  pnet.RequestID(r.Context()),
	}
}

func errorEnvelope(r *stdhttp.Request, err error) Envelope {
	env := envelope(r, perr.HTTPStatus(err))
	w := perr.WireFrom(err)
	env.Code, env.Error, env.Field = w.Code, w.Message, w.Field
	return env
}

// JSON writes v with status as application/json
func JSON(w stdhttp.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = codec.NewEncoder(w).Encode(v)
}

// RespondOK writes data in a 200 envelope
func RespondOK(w stdhttp.ResponseWriter, r *stdhttp.Request, data any) { OK(data).write(w, r) }

// RespondError writes err with the status its code maps to
func RespondError(w stdhttp.ResponseWriter, r *stdhttp.Request, err error) { Error(err).write(w, r) }

// NotFound is the envelope fallback for unmatched routes
func NotFound(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	RespondError(w, r, perr.Newf(perr.ErrorCodeNotFound, "no route for %s", r.URL.Path))
}

// MethodNotAllowed is the envelope fallback for a known path hit with another verb
func MethodNotAllowed(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	env := envelope(r, stdhttp.StatusMethodNotAllowed)
	env.Code = perr.ErrorCodeInvalidArgument
	env.Error = "method " + r.Method + " not allowed"
	JSON(w, env.StatusCode, env)
}

// Response is what return-style handlers produce. An error Body picks its
// own status; Status then is ignored
type Response struct {
	Status int
	Body   any
	Page   *Page
	Header stdhttp.Header
}

// Handle adapts a Response-returning function to net/http
func Handle(h func(*stdhttp.Request) Response) stdhttp.HandlerFunc {
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) { h(r).write(w, r) }
}

func (resp Response) write(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	for k, vs := range resp.Header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}

	if err, ok := resp.Body.(error); ok && err != nil {
		env := errorEnvelope(r, err)
		JSON(w, env.StatusCode, env)
		return
	}

	status := resp.Status
	if status == 0 {
		status = stdhttp.StatusOK
	}
	env := envelope(r, status)
	env.Data, env.Page = resp.Body, resp.Page
	JSON(w, status, env)
}

// OK is a 200 with data
func OK(data any) Response { return Response{Status: stdhttp.StatusOK, Body: data} }

// Error is a response whose status comes from err's code
func Error(err error) Response { return Response{Body: err} }

// List is a 200 with items and a page block
func List(items any, count, limit int, cursor string) Response {
	return Response{Status: stdhttp.StatusOK, Body: items, Page: &Page{Count: count, Limit: limit, Cursor: cursor}}
}
