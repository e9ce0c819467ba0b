// Package logger builds the process zerolog logger and derives
// per-run, per-game and per-request children from a context
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"steakfeed/internal/platform/config/raw"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Logger is the project-wide logging type
type Logger = zerolog.Logger

// Options configures the root logger
type Options struct {
	Level       string
	Format      string // console or json
	Service     string
	Writer      io.Writer
	Caller      bool
	SampleEvery int
	Fields      map[string]string
}

// FromEnv reads LOG_LEVEL, LOG_FORMAT, LOG_SERVICE, LOG_CALLER and LOG_SAMPLE_EVERY
func FromEnv() Options { return optionsFrom(raw.New().Prefix("LOG_")) }

func optionsFrom(e raw.Env) Options {
	return Options{
		Level:       e.String("LEVEL", "info"),
		Format:      strings.ToLower(e.String("FORMAT", "console")),
		Service:     e.String("SERVICE", ""),
		Caller:      e.Bool("CALLER", false),
		SampleEvery: e.Int("SAMPLE_EVERY", 0),
	}
}

// Build returns a logger for opt without touching the process root
func Build(opt Options) Logger {
	var w io.Writer = os.Stderr
	if opt.Writer != nil {
		w = opt.Writer
	}
	if opt.Format != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	zc := zerolog.New(w).Level(ParseLevel(opt.Level)).With().Timestamp()
	if opt.Service != "" {
		zc = zc.Str("service", opt.Service)
	}
	for k, v := range opt.Fields {
		zc = zc.Str(k, v)
	}
	if opt.Caller {
		zc = zc.Caller()
	}

	l := zc.Logger()
	if opt.SampleEvery > 1 {
		l = l.Sample(&zerolog.BasicSampler{N: uint32(opt.SampleEvery)})
	}
	return l
}

// ParseLevel maps a level name to zerolog; "warning" is accepted and
// anything unknown is info
func ParseLevel(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || s == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

var (
	mu   sync.RWMutex
	root *Logger
)

func init() {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339Nano
}

// Init replaces the process root logger
func Init(opt Options) {
	l := Build(opt)
	mu.Lock()
	root = &l
	mu.Unlock()
}

// Get returns the process root, built from the environment on first use
func Get() *Logger {
	mu.RLock()
	l := root
	mu.RUnlock()
	if l != nil {
		return l
	}

	mu.Lock()
	defer mu.Unlock()
	if root == nil {
		b := Build(FromEnv())
		root = &b
	}
	return root
}

// Named returns a child of the root tagged with component
func Named(component string) *Logger {
	if component == "" {
		return Get()
	}
	l := Get().With().Str("component", component).Logger()
	return &l
}
