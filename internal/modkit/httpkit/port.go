// Package httpkit provides tiny HTTP helpers and adapters
package httpkit

import (
	"net/http"
	"strings"

	perrs "lorebook/internal/platform/errors"
)

// TokenFunc verifies a raw bearer token and returns who holds it
type TokenFunc func(token string) (subject string, role string, err error)

// Port is a middleware.AuthPort reading "Authorization: Bearer <token>"
type Port struct {
	verify TokenFunc
}

// NewPortFunc wraps fn as an AuthPort
func NewPortFunc(fn TokenFunc) *Port { return &Port{verify: fn} }

// Parse returns the subject and role of the request's bearer token.
// Every failure is Unauthorized; the verifier's reason is not leaked
func (p *Port) Parse(r *http.Request) (string, string, error) {
	tok, ok := bearer(r.Header.Get("Authorization"))
	if !ok {
		return "", "", perrs.Unauthorizedf("missing bearer token")
	}
	if p.verify == nil {
		return "", "", perrs.Unauthorizedf("invalid bearer token")
	}
	sub, role, err := p.verify(tok)
	if err != nil {
		return "", "", perrs.Unauthorizedf("invalid bearer token")
	}
	return sub, role, nil
}

// bearer cuts the token out of an Authorization header, scheme case-insensitive
func bearer(h string) (string, bool) {
	h = strings.TrimSpace(h)
	const scheme = "bearer"
	if len(h) < len(scheme) || !strings.EqualFold(h[:len(scheme)], scheme) {
		return "", false
	}
	tok := strings.TrimSpace(h[len(scheme):])
	return tok, tok != ""
}
