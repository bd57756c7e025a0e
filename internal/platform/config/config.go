// Package config handles application configuration via environment variables
package config

import (
	"strconv"
	"strings"
	"time"

	"lorebook/internal/platform/config/raw"
	"lorebook/internal/platform/logger"
)

// Conf is a namespaced view over environment variables
// New() reads globally; Prefix("CATALOG_") scopes a module
// Must* panics on a missing value; May* falls back to a default and warns on junk
type Conf struct{ env raw.Conf }

// New creates a root Conf
func New() Conf { return Conf{env: raw.New()} }

// Prefix creates a child Conf, e.g. cfg.Prefix("CORE_API_")
func (c Conf) Prefix(p string) Conf { return Conf{env: c.env.Prefix(p)} }

func (c Conf) key(k string) string { return c.env.Key(k) }

// MustString panics if the key is missing or blank
func (c Conf) MustString(key string) string {
	v, ok := c.env.Lookup(key)
	if !ok {
		logger.Get().Panic().Str("key", c.key(key)).Msg("missing required env")
	}
	return v
}

// MayString returns the value or def
func (c Conf) MayString(key, def string) string { return c.env.Get(key, def) }

// may parses the value with parse, warning and returning def when it does not parse
func may[T any](c Conf, key string, def T, parse func(string) (T, error), want string) T {
	s, ok := c.env.Lookup(key)
	if !ok {
		return def
	}
	v, err := parse(s)
	if err != nil {
		logger.Get().Warn().Str("key", c.key(key)).Str("value", s).Interface("default", def).
			Msgf("invalid %s; using default", want)
		return def
	}
	return v
}

// MayInt returns the int value or def
func (c Conf) MayInt(key string, def int) int {
	return may(c, key, def, strconv.Atoi, "int")
}

// MayPositiveInt is MayInt that also rejects zero and negatives
func (c Conf) MayPositiveInt(key string, def int) int {
	return may(c, key, def, func(s string) (int, error) {
		n, err := strconv.Atoi(s)
		if err == nil && n <= 0 {
			return 0, strconv.ErrRange
		}
		return n, err
	}, "positive int")
}

// MayBool returns the bool value or def
func (c Conf) MayBool(key string, def bool) bool {
	return may(c, key, def, strconv.ParseBool, "bool")
}

// MayDuration returns the duration (250ms, 2s, 1h) or def
func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	return may(c, key, def, time.ParseDuration, "duration")
}

// MayCSV splits a comma separated value, dropping blanks; def when nothing remains
func (c Conf) MayCSV(key string, def []string) []string {
	s, ok := c.env.Lookup(key)
	if !ok {
		return def
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// MayEnum returns the value, matched case insensitively against allowed and
// normalized to the allowed spelling; def when unset; panics on anything else
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
	logger.Get().Panic().Str("key", c.key(key)).Str("value", v).Strs("allowed", allowed).Msg("invalid enum value")
	return ""
}
