package modkit

import (
	"net/http"

	"lorebook/internal/modkit/httpkit"
	str "lorebook/internal/platform/strings"
)

// Built is the resolved option set a module keeps
type Built struct {
	Name   string
	Prefix string
	Mw     []func(http.Handler) http.Handler
	// Ports is whatever WithPorts received; the module type asserts it
	Ports any

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)
}

// Build applies opts in order, so later options win
func Build(opts ...Option) Built {
	var c buildCfg
	for _, o := range opts {
		o(&c)
	}
	return Built{
		Name:      c.name,
		Prefix:    c.prefix,
		Mw:        append([]func(http.Handler) http.Handler(nil), c.mw...),
		Ports:     c.ports,
		subrouter: c.subrouter,
		register:  c.register,
	}
}

// Mount attaches own under Prefix, wrapped in the module middlewares and subrouter,
// followed by any WithRegister routes
// an empty Prefix mounts in a Group at the root of r
func (b Built) Mount(r httpkit.Router, own func(httpkit.Router)) {
	mount := func(rr httpkit.Router) {
		for _, mw := range b.Mw {
			rr.Use(mw)
		}
		if b.subrouter != nil {
			rr = b.subrouter(rr)
		}
		if own != nil {
			own(rr)
		}
		if b.register != nil {
			b.register(rr)
		}
	}
	if b.Prefix == "" {
		r.Group(mount)
		return
	}
	r.Route(str.MustPrefix(b.Prefix), mount)
}

// MountPath is where Mount puts the module, "/" for the root
func (b Built) MountPath() string {
	if b.Prefix == "" {
		return "/"
	}
	return str.MustPrefix(b.Prefix)
}
