package httpkit

import (
	"lorebook/internal/platform/net/middleware"
)

// Protected groups routes under bearer auth, gated to roles when any are given
func Protected(r Router, p middleware.AuthPort, roles []string, fn func(Router)) {
	r.Group(func(gr Router) {
		gr.Use(Auth(p))
		if len(roles) > 0 {
			gr.Use(RequireRole(roles...))
		}
		fn(gr)
	})
}
