// Package raw reads bootstrap settings from the environment before logging exists.
// It must not import the logger, which reads its own LOG_* keys through it
package raw

import (
	"os"
	"strconv"
	"strings"
)

// Source looks up one fully qualified key
type Source func(key string) (string, bool)

// Env is a prefixed view over a Source
type Env struct {
	src    Source
	prefix string
}

// New reads the process environment
func New() Env { return Env{src: os.LookupEnv} }

// FromMap reads a fixed map; tests use it instead of t.Setenv
func FromMap(m map[string]string) Env {
	return Env{src: func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}}
}

// Prefix narrows the view, e.g. Prefix("LOG_")
func (e Env) Prefix(p string) Env { return Env{src: e.src, prefix: e.prefix + p} }

// Key returns the fully qualified name of key
func (e Env) Key(key string) string { return e.prefix + key }

func (e Env) value(key string) string {
	if e.src == nil {
		return ""
	}
	v, _ := e.src(e.Key(key))
	return strings.TrimSpace(v)
}

// String returns the trimmed value or def when unset or blank
func (e Env) String(key, def string) string {
	if v := e.value(key); v != "" {
		return v
	}
	return def
}

// Bool accepts strconv forms plus yes/no and on/off; anything else is def
func (e Env) Bool(key string, def bool) bool {
	v := strings.ToLower(e.value(key))
	switch v {
	case "yes", "on":
		return true
	case "no", "off":
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// Int returns a non-negative integer or def
func (e Env) Int(key string, def int) int {
	n, err := strconv.Atoi(e.value(key))
	if err != nil || n < 0 {
		return def
	}
	return n
}
