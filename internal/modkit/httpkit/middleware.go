package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	phttp "lorebook/internal/platform/net/http"
	"lorebook/internal/platform/net/middleware"
)

// StackOptions tunes CommonStack
type StackOptions struct {
	// CORSOrigins allowed to call the API; empty allows any origin
	CORSOrigins []string
	// RateLimit is requests per minute per client IP, 0 disables
	RateLimit int
	// Timeout cancels the request context, default 30s
	Timeout time.Duration
}

// CommonStack returns a baseline per module middleware slice
// compose with auth and role middleware per route group
func CommonStack(o StackOptions) []func(http.Handler) http.Handler {
	timeout := o.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	origins := o.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return []func(http.Handler) http.Handler{
		// tracing / correlation
		middleware.RequestID(),
		middleware.RealIP(),

		// safety
		middleware.RecoverJSON,
		middleware.RateLimit(o.RateLimit, time.Minute, phttp.JSON),

		// cache / freshness
		middleware.NoCache(),

		// observability
		middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: 500 * time.Millisecond}),
		middleware.Metrics(),

		// cross-origin, pagination lives in headers so browsers must be allowed to read them
		middleware.CORS(middleware.CORSOptions{
			AllowedOrigins: origins,
			ExposedHeaders: append([]string{"Content-Language", "X-Request-ID"}, phttp.PaginationHeaders...),
		}),
		middleware.Compress(flate.BestSpeed),
		middleware.Heartbeat("/health"),
		middleware.RedirectSlashes(),
		middleware.StripSlashes(),
		middleware.Timeout(timeout),
	}
}

// Auth wires the auth middleware to the platform JSON writer
func Auth(p middleware.AuthPort) func(http.Handler) http.Handler {
	// middleware expects write func(w http.ResponseWriter, status int, body any)
	// use phttp.JSON which matches that signature
	return middleware.Auth(p, phttp.JSON)
}

// RequireRole gates a route group to principals holding one of roles
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return middleware.RequireRole(phttp.JSON, roles...)
}
