// Package trace logs SQL statements issued through the store adapters
package trace

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"steakfeed/internal/platform/logger"
)

// QueryEvent is one statement round trip
type QueryEvent struct {
	SQL     string
	Args    any
	Elapsed time.Duration
	Err     error
	Slow    bool
}

// QueryTracer receives every statement an adapter runs
type QueryTracer interface {
	OnQuery(ctx context.Context, ev QueryEvent)
}

// Tracer logs each statement at info, slow ones at warn. It is forced to
// debug so the process level does not hide statements the operator asked for
func Tracer(root logger.Logger, component string) QueryTracer {
	return zlTracer{
		log: root.Level(zerolog.DebugLevel).With().Str("component", component).Logger(),
		msg: component + " query",
	}
}

type zlTracer struct {
	log logger.Logger
	msg string
}

func (z zlTracer) OnQuery(_ context.Context, ev QueryEvent) {
	lvl := zerolog.InfoLevel
	if ev.Slow {
		lvl = zerolog.WarnLevel
	}
	z.log.WithLevel(lvl).
		Dur("elapsed_ms", ev.Elapsed).
		Bool("slow", ev.Slow).
		Str("sql", Compact(ev.SQL)).
		Interface("args", ev.Args).
		Err(ev.Err).
		Msg(z.msg)
}

// Compact puts a statement on one line with single spaces
func Compact(sql string) string { return strings.Join(strings.Fields(sql), " ") }

// Slow reports whether elapsed reaches slowMs milliseconds. Negative disables
func Slow(elapsed time.Duration, slowMs int) bool {
	if slowMs < 0 {
		return false
	}
	return elapsed >= time.Duration(slowMs)*time.Millisecond
}
