// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"time"

	"lorebook/internal/core/version"
	modkit "lorebook/internal/modkit"
	"lorebook/internal/modkit/httpkit"
	str "lorebook/internal/platform/strings"

	metahttp "lorebook/internal/services/api/meta/http"
)

// Ports are the readiness checks other modules contribute
type Ports struct {
	Checks []metahttp.Check
}

// Module serves health, readiness and version under /meta
type Module struct {
	b    modkit.Built
	deps metahttp.Deps
}

// New constructs a meta module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	var checks []metahttp.Check
	if p, ok := b.Ports.(Ports); ok {
		checks = p.Checks
	}
	return &Module{
		b: b,
		deps: metahttp.Deps{
			ServiceName:  version.Service,
			StartedAt:    time.Now(),
			Checks:       checks,
			ReadyTimeout: deps.Cfg.MayDuration("META_READY_TIMEOUT", 2*time.Second),
		},
	}
}

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) { metahttp.Register(rr, m.deps) })
}

// Name implements modkit.Module
func (m *Module) Name() string { return str.MustString(m.b.Name, "meta") }

// Ports implements modkit.Module; meta exposes nothing
func (m *Module) Ports() any { return nil }
