// Package module defines the contract api.Mount composes modules by
package module

import (
	phttp "lorebook/internal/platform/net/http"
)

// Module mounts its routes and exposes ports for other modules
// it lives apart from modkit so a module can import its own ports type without a cycle
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}
