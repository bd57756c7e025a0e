package middleware

import (
	"net/http"
	"slices"

	perr "lorebook/internal/platform/errors"
	"lorebook/internal/platform/logger"
	pnet "lorebook/internal/platform/net"
)

// AuthPort is the seam the token parser implements
type AuthPort interface {
	// Parse returns the subject and role carried by the request or an error
	Parse(r *http.Request) (subject string, role string, err error)
}

// Auth authenticates the request through the port and stores the principal on context
// a nil port passes every request through unauthenticated
func Auth(p AuthPort, write func(w http.ResponseWriter, status int, body any)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p == nil {
				next.ServeHTTP(w, r)
				return
			}
			sub, role, err := p.Parse(r)
			if err != nil {
				status, body := pnet.Error(err, pnet.RequestID(r.Context()))
				write(w, status, body)
				return
			}
			ctx := pnet.WithPrincipal(r.Context(), sub, role)
			ctx = logger.WithRequest(ctx, pnet.RequestID(ctx), sub)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects requests whose principal role is not one of roles
// no principal at all is 401, a principal with the wrong role is 403
func RequireRole(write func(w http.ResponseWriter, status int, body any), roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			role := pnet.Role(ctx)
			var err error
			switch {
			case pnet.Subject(ctx) == "" && role == "":
				err = perr.Unauthorizedf("missing bearer token")
			case !slices.Contains(roles, role):
				err = perr.Forbiddenf("role %q may not perform this action", role)
			}
			if err != nil {
				status, body := pnet.Error(err, pnet.RequestID(ctx))
				write(w, status, body)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
