package logger

import (
	"context"
)

type fieldsKey struct{}

// field is one string pair carried on a context; the slice is copied on append
type field struct{ key, val string }

// With tags ctx so C(ctx) logs key=val. Empty values leave ctx unchanged
// and a repeated key keeps the newest value
func With(ctx context.Context, key, val string) context.Context {
	if key == "" || val == "" {
		return ctx
	}
	prev, _ := ctx.Value(fieldsKey{}).([]field)
	next := make([]field, 0, len(prev)+1)
	for _, f := range prev {
		if f.key != key {
			next = append(next, f)
		}
	}
	next = append(next, field{key, val})
	return context.WithValue(ctx, fieldsKey{}, next)
}

// WithRequest tags ctx with the HTTP request id
func WithRequest(ctx context.Context, id string) context.Context { return With(ctx, "request_id", id) }

// WithRun tags ctx with the ingest run id
func WithRun(ctx context.Context, id string) context.Context { return With(ctx, "run_id", id) }

// WithGame tags ctx with the game being stitched
func WithGame(ctx context.Context, id string) context.Context { return With(ctx, "game_id", id) }

// C returns a child of the root carrying every field tagged on ctx
func C(ctx context.Context) *Logger {
	fs, _ := ctx.Value(fieldsKey{}).([]field)
	if len(fs) == 0 {
		return Get()
	}
	zc := Get().With()
	for _, f := range fs {
		zc = zc.Str(f.key, f.val)
	}
	l := zc.Logger()
	return &l
}
