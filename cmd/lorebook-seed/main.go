package main

import (
	"context"
	"flag"
	"time"

	"lorebook/internal/core/locale"
	"lorebook/internal/core/paging"
	"lorebook/internal/modkit/repokit"
	"lorebook/internal/platform/config"
	"lorebook/internal/platform/logger"
	"lorebook/internal/platform/store"

	"lorebook/internal/services/api/catalog/domain"
	catalogmod "lorebook/internal/services/api/catalog/module"
	"lorebook/internal/services/api/catalog/repo"
	"lorebook/internal/services/api/catalog/seed"
	"lorebook/internal/services/api/catalog/service"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	var (
		fFile    = flag.String("file", "", "fixture file (YAML); empty loads the starter catalog")
		fMigrate = flag.Bool("migrate", true, "apply the catalog schema first")
		fTimeout = flag.Duration("timeout", 2*time.Minute, "overall deadline")
	)
	flag.Parse()

	root := config.New()
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	opts := catalogmod.FromConfig(root)
	l := logger.Named("lorebook-seed")

	ctx, cancel := context.WithTimeout(context.Background(), *fTimeout)
	defer cancel()

	st, err := store.Open(ctx, store.Config{
		AppName: "lorebook-seed",
		PG: store.PGConfig{
			Enabled:     true,
			URL:         pgCfg.MustString("DBURL"),
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", false),
		},
	}, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()
	repokit.MustGuard(ctx, st)

	if *fMigrate {
		if err := repo.Migrate(ctx, st.PG); err != nil {
			l.Panic().Err(err).Msg("catalog migrate failed")
		}
	}

	langs, err := locale.NewNegotiator(opts.DefaultLanguage)
	if err != nil {
		l.Panic().Err(err).Msg("invalid CATALOG_DEFAULT_LANGUAGE")
	}
	svc := service.New(repo.NewPG(st.PG), service.Options{
		Kinds:     domain.DefaultRegistry(),
		Languages: langs,
		Pager:     paging.New(opts.PageSize, opts.MaxPageSize),
	})

	f, err := seed.Open(*fFile)
	if err != nil {
		l.Panic().Err(err).Msg("read fixtures")
	}
	counts, err := seed.Apply(ctx, svc, f)
	if err != nil {
		l.Panic().Err(err).Interface("written", counts).Msg("seed failed")
	}
	l.Info().Interface("written", counts).Msg("seed complete")
}
