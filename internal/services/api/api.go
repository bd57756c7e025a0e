// Package api provides the HTTP API for the application
package api

import (
	"time"

	"lorebook/internal/platform/config"
	"lorebook/internal/platform/logger"
	"lorebook/internal/platform/metrics"
	phttp "lorebook/internal/platform/net/http"
	"lorebook/internal/platform/net/middleware"

	"lorebook/internal/modkit"
	"lorebook/internal/modkit/httpkit"
	"lorebook/internal/modkit/module"
	"lorebook/internal/modkit/repokit"
	"lorebook/internal/modkit/swaggerkit"

	catalogmod "lorebook/internal/services/api/catalog/module"
	metahttp "lorebook/internal/services/api/meta/http"
	metamod "lorebook/internal/services/api/meta/module"
)

// Options are the API options
type Options struct {
	// Config is the CORE_API_ view
	Config config.Conf
	// Catalog configures the catalog module
	Catalog catalogmod.Options
	// PG is nil when the catalog runs on the memory store
	PG             repokit.TxRunner
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
	EnableMetrics  bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	deps := modkit.Deps{
		Cfg: opt.Config,
		PG:  opt.PG,
	}

	catalog := catalogmod.New(deps, opt.Catalog,
		modkit.WithPorts(catalogmod.Needs{Auth: authPort(opt.Config, opt.Logger)}),
	)
	cat := module.MustPortsOf[catalogmod.Ports](catalog)

	mods := []module.Module{
		metamod.New(deps, modkit.WithPorts(metamod.Ports{
			Checks: []metahttp.Check{{Name: "catalog", Ping: cat.Ready}},
		})),
		catalog,
	}

	stack := httpkit.CommonStack(httpkit.StackOptions{
		CORSOrigins: opt.Config.MayCSV("CORS_ORIGINS", nil),
		RateLimit:   opt.Config.MayInt("RATE_LIMIT", 0),
		Timeout:     opt.Config.MayDuration("REQUEST_TIMEOUT", 30*time.Second),
	})

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, stack, func(api httpkit.Router) {
		// Swagger + profiler + metrics
		swaggerkit.Mount(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)
		if opt.EnableMetrics {
			r.Handle("/metrics", metrics.Handler())
		}

		log := logger.Named("api")
		for _, m := range mods {
			log.Debug().Str("module", m.Name()).Msg("mounting")
			m.MountRoutes(api)
		}
	})
}

// authPort verifies HS256 bearer tokens signed with CORE_API_JWT_SECRET
// Without a secret the catalog is served read only
func authPort(cfg config.Conf, log *logger.Logger) middleware.AuthPort {
	secret := cfg.MayString("JWT_SECRET", "")
	if secret == "" {
		if log != nil {
			log.Warn().Msg("CORE_API_JWT_SECRET not set; write routes disabled")
		}
		return nil
	}
	return httpkit.NewPortFunc(httpkit.HS256([]byte(secret)))
}
