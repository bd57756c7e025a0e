// @title         Lorebook API
// @version       0.1.0
// @description   Localized catalog of series resources: actors, episodes, seasons, games, locations, soundtracks
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"context"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"lorebook/internal/modkit/repokit"
	"lorebook/internal/platform/config"
	"lorebook/internal/platform/logger"
	phttp "lorebook/internal/platform/net/http"
	"lorebook/internal/platform/store"

	"lorebook/internal/services/api"
	catalogmod "lorebook/internal/services/api/catalog/module"
	catalogrepo "lorebook/internal/services/api/catalog/repo"

	"github.com/joho/godotenv"
)

func main() {
	// a local .env is optional; real environment wins
	_ = godotenv.Load()

	root := config.New()
	apiCfg := root.Prefix("CORE_API_")
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	catalogOpts := catalogmod.FromConfig(root)

	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var db repokit.TxRunner
	if !strings.EqualFold(catalogOpts.Store, catalogmod.StoreMemory) {
		st, err := store.Open(ctx,
			store.Config{
				AppName: "lorebook-api",
				PG: store.PGConfig{
					Enabled:     true,
					URL:         pgCfg.MustString("DBURL"),
					MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
					SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
					LogSQL:      pgCfg.MayBool("LOG_SQL", false),
				},
			},
			store.WithLogger(*l),
		)
		if err != nil {
			l.Panic().Err(err).Msg("store.Open failed")
		}
		defer func() {
			if err := st.Close(context.Background()); err != nil {
				l.Error().Err(err).Msg("failed to close store")
			}
		}()
		repokit.MustGuard(ctx, st)

		db = repokit.WithBeginHooks(st.PG, catalogrepo.StatementTimeout(pgCfg.MayDuration("STATEMENT_TIMEOUT", 5*time.Second)))
		if root.MayBool("CATALOG_MIGRATE", true) {
			if err := catalogrepo.Migrate(ctx, db); err != nil {
				l.Panic().Err(err).Msg("catalog migrate failed")
			}
		}
	}

	// http server (reads CORE_API_PORT)
	srv := phttp.NewServer(apiCfg, phttp.WithJSONFallbacks)

	api.Mount(
		srv.Router(),
		api.Options{
			Config:         apiCfg,
			Catalog:        catalogOpts,
			PG:             db,
			Logger:         l,
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", false),
			EnableMetrics:  apiCfg.MayBool("METRICS", true),
		},
	)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			l.Error().Err(err).Msg("http shutdown")
		}
	}()

	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
	l.Info().Msg("bye")
}
