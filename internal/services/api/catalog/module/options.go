package module

import (
	"time"

	modkit "lorebook/internal/modkit"
	"lorebook/internal/platform/config"
)

// Store backends
const (
	StorePG     = "pg"
	StoreMemory = "memory"
)

// Options controls the catalog module
type Options struct {
	DefaultLanguage string
	PageSize        int
	MaxPageSize     int

	// Store is pg or memory
	Store string
	// SeedFile is loaded into the memory store at startup; empty loads the starter catalog
	SeedFile string

	BreakerFailures uint32
	BreakerTimeout  time.Duration
}

// FromConfig reads with CATALOG_ prefix
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("CATALOG_")
	return Options{
		DefaultLanguage: c.MayString("DEFAULT_LANGUAGE", "en-US"),
		PageSize:        c.MayPositiveInt("PAGE_SIZE", 20),
		MaxPageSize:     c.MayPositiveInt("MAX_PAGE_SIZE", 100),
		Store:           c.MayEnum("STORE", StorePG, StorePG, StoreMemory),
		SeedFile:        c.MayString("SEED_FILE", ""),
		BreakerFailures: uint32(c.MayPositiveInt("BREAKER_FAILURES", 5)),
		BreakerTimeout:  c.MayDuration("BREAKER_TIMEOUT", 30*time.Second),
	}
}

// Option is a configuration option for the catalog module
type Option = modkit.Option

// WithPrefix sets the route prefix for the module
func WithPrefix(prefix string) Option { return modkit.WithPrefix(prefix) }
