package repo

import (
	"context"
	"strconv"
	"time"

	"lorebook/internal/modkit/repokit"
	perr "lorebook/internal/platform/errors"
)

// StatementTimeout bounds every statement of a catalog transaction
// A timed out statement surfaces as Unavailable
func StatementTimeout(d time.Duration) repokit.BeginHook {
	ms := strconv.FormatInt(d.Milliseconds(), 10)
	return func(ctx context.Context, q repokit.Queryer) error {
		if d <= 0 {
			return nil
		}
		if _, err := q.Exec(ctx, `select set_config('statement_timeout', $1, true)`, ms); err != nil {
			return perr.FromPostgres(err, "catalog: statement timeout")
		}
		return nil
	}
}
