package repo

import (
	"context"
	_ "embed"
	"strings"

	"lorebook/internal/modkit/repokit"
	perr "lorebook/internal/platform/errors"
)

//go:embed schema.sql
var schemaSQL string

// Migrate applies the catalog schema; it is idempotent
func Migrate(ctx context.Context, db repokit.TxRunner) error {
	return repokit.WithTx(ctx, db, func(q repokit.Queryer) error {
		for _, stmt := range strings.Split(schemaSQL, ";") {
			if strings.TrimSpace(stmt) == "" {
				continue
			}
			if _, err := q.Exec(ctx, stmt); err != nil {
				return perr.FromPostgres(err, "catalog: migrate")
			}
		}
		return nil
	})
}
