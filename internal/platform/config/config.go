// Package config reads typed settings from STEAK_* environment variables.
// A malformed optional value logs a warning and falls back to its default;
// a malformed required value panics at startup
package config

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"steakfeed/internal/platform/config/raw"
	"steakfeed/internal/platform/logger"
)

// Conf is a prefixed view, e.g. New().Prefix("STEAK_INGEST_")
type Conf struct{ env raw.Env }

// New reads the process environment
func New() Conf { return Conf{env: raw.New()} }

// FromMap reads a fixed map instead of the environment
func FromMap(m map[string]string) Conf { return Conf{env: raw.FromMap(m)} }

// Prefix returns a narrower view
func (c Conf) Prefix(p string) Conf { return Conf{env: c.env.Prefix(p)} }

// Key returns the fully qualified variable name
func (c Conf) Key(k string) string { return c.env.Key(k) }

func (c Conf) get(k string) string { return c.env.String(k, "") }

// may parses key with parse; an unset key yields def, a bad one warns and yields def
func may[T any](c Conf, key string, def T, kind string, parse func(string) (T, error)) T {
	s := c.get(key)
	if s == "" {
		return def
	}
	v, err := parse(s)
	if err != nil {
		logger.Get().Warn().Str("key", c.Key(key)).Str("value", s).Interface("default", def).Msgf("invalid %s; using default", kind)
		return def
	}
	return v
}

func (c Conf) fail(key, value, msg string) {
	logger.Get().Error().Str("key", c.Key(key)).Str("value", value).Msg(msg)
	panic("config: " + c.Key(key) + ": " + msg)
}

// MustString panics when key is unset or blank
func (c Conf) MustString(key string) string {
	v := c.get(key)
	if v == "" {
		c.fail(key, "", "missing required env")
	}
	return v
}

// MayString returns the trimmed value or def
func (c Conf) MayString(key, def string) string {
	if v := c.get(key); v != "" {
		return v
	}
	return def
}

// MayInt parses a base 10 integer
func (c Conf) MayInt(key string, def int) int {
	return may(c, key, def, "int", strconv.Atoi)
}

// MayBool parses strconv bool forms
func (c Conf) MayBool(key string, def bool) bool {
	return may(c, key, def, "bool", strconv.ParseBool)
}

// MayDuration parses Go duration text such as "1s" or "250ms"
func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	return may(c, key, def, "duration", time.ParseDuration)
}

// MayURL accepts an absolute URL and strips trailing slashes
func (c Conf) MayURL(key, def string) string {
	return may(c, key, def, "absolute URL", func(s string) (string, error) {
		u, err := url.Parse(s)
		if err != nil {
			return "", err
		}
		if !u.IsAbs() {
			return "", strconv.ErrSyntax
		}
		return strings.TrimRight(s, "/"), nil
	})
}

// MayCSV splits a comma list, dropping blanks. An empty result is def
func (c Conf) MayCSV(key string, def []string) []string {
	var out []string
	for _, p := range strings.Split(c.get(key), ",") {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// MayEnum matches the value case-insensitively against allowed and returns
// the allowed spelling. Anything else panics
func (c Conf) MayEnum(key, def string, allowed ...string) string {
	v := c.MayString(key, def)
	if v == "" {
		return v
	}
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return a
		}
	}
	c.fail(key, v, "invalid enum value, allowed: "+strings.Join(allowed, "|"))
	return ""
}
