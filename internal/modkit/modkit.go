// Package modkit provides module wiring and core deps
package modkit

import "lorebook/internal/modkit/module"

// Module is the surface api.Mount composes; see module.Module
type Module = module.Module
