package modkit

import (
	"lorebook/internal/modkit/repokit"
	"lorebook/internal/platform/config"
)

// Deps holds the shared dependencies handed to every module
type Deps struct {
	// Cfg is the service scoped view, CORE_API_ for the API
	Cfg config.Conf
	// PG is nil when the catalog runs on the in memory store
	PG repokit.TxRunner
}
