package httpkit

import (
	"net/http"

	perrs "lorebook/internal/platform/errors"
	pnet "lorebook/internal/platform/net"
)

// Subject returns the authenticated subject from the request context
func Subject(r *http.Request) (string, error) {
	sub := pnet.Subject(r.Context())
	if sub == "" {
		return "", perrs.Unauthorizedf("missing bearer token")
	}
	return sub, nil
}
