// Package module wires the catalog into the API using modkit
package module

import (
	"context"
	"strings"

	"lorebook/internal/core/locale"
	"lorebook/internal/core/paging"
	modkit "lorebook/internal/modkit"
	"lorebook/internal/modkit/httpkit"
	"lorebook/internal/platform/logger"
	"lorebook/internal/platform/net/middleware"
	str "lorebook/internal/platform/strings"

	"lorebook/internal/services/api/catalog/domain"
	cataloghttp "lorebook/internal/services/api/catalog/http"
	"lorebook/internal/services/api/catalog/repo"
	"lorebook/internal/services/api/catalog/seed"
	"lorebook/internal/services/api/catalog/service"
)

// Needs declares the ports injected into this module with modkit.WithPorts
type Needs struct {
	// Auth guards write routes; nil serves the catalog read only
	Auth middleware.AuthPort
}

// Ports exposes the catalog to other modules
type Ports struct {
	Service domain.ServicePort
	// Ready pings the store, for readiness probes
	Ready func(ctx context.Context) error
}

// Module implements the catalog API module
type Module struct {
	b     modkit.Built
	needs Needs
	ports Ports
	svc   *service.Svc
}

// New constructs the catalog module
// Kinds mount at the root of the API router unless a prefix is given
// A memory store is seeded at construction; a broken seed panics
func New(deps modkit.Deps, o Options, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("catalog")}, opts...)...)
	log := logger.Named("catalog")

	langs, err := locale.NewNegotiator(o.DefaultLanguage)
	if err != nil {
		log.Panic().Err(err).Msg("invalid CATALOG_DEFAULT_LANGUAGE")
	}

	store := newStore(deps, o)
	svc := service.New(store, service.Options{
		Kinds:     domain.DefaultRegistry(),
		Languages: langs,
		Pager:     paging.New(o.PageSize, o.MaxPageSize),
	})

	if strings.EqualFold(o.Store, StoreMemory) {
		f, err := seed.Open(o.SeedFile)
		if err == nil {
			_, err = seed.Apply(context.Background(), svc, f)
		}
		if err != nil {
			log.Panic().Err(err).Str("file", o.SeedFile).Msg("seed memory store")
		}
	}

	var needs Needs
	if n, ok := b.Ports.(Needs); ok {
		needs = n
	}
	if needs.Auth == nil {
		log.Warn().Msg("no auth port; catalog write routes are not mounted")
	}

	m := &Module{
		b:     b,
		needs: needs,
		svc:   svc,
		ports: Ports{Service: svc, Ready: svc.Ready},
	}
	return m
}

// newStore picks the backend and puts the breaker in front of it
func newStore(deps modkit.Deps, o Options) domain.Store {
	var next domain.Store
	if strings.EqualFold(o.Store, StoreMemory) {
		next = repo.NewMemory()
	} else {
		if deps.PG == nil {
			logger.Named("catalog").Panic().Msg("CATALOG_STORE=pg needs a database")
		}
		next = repo.NewPG(deps.PG)
	}
	return repo.NewBreaker(next, repo.BreakerConfig{
		Failures: o.BreakerFailures,
		Timeout:  o.BreakerTimeout,
	})
}

// MountRoutes mounts one route tree per kind
func (m *Module) MountRoutes(r httpkit.Router) { m.b.Mount(r, m.register) }

func (m *Module) register(r httpkit.Router) {
	cataloghttp.Register(r, cataloghttp.Deps{
		Svc:   m.svc,
		Kinds: m.svc.Kinds(),
		Auth:  m.needs.Auth,
	})
}

// Name is the module name
func (m *Module) Name() string { return str.MustString(m.b.Name, "module name") }

// Prefix is where the kinds are mounted, "/" for the API root
func (m *Module) Prefix() string { return m.b.MountPath() }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
