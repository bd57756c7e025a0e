package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	perr "lorebook/internal/platform/errors"
	pnet "lorebook/internal/platform/net"
)

// RateLimit limits each client IP to requests per window
// requests <= 0 disables limiting; rejected requests get the JSON error envelope
func RateLimit(requests int, window time.Duration, write func(w http.ResponseWriter, status int, body any)) func(http.Handler) http.Handler {
	if requests <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(
		requests,
		window,
		httprate.WithKeyFuncs(httprate.KeyByRealIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			status, body := pnet.Error(perr.Newf(perr.ErrorCodeTooManyRequests, "rate limit exceeded"), pnet.RequestID(r.Context()))
			write(w, status, body)
		}),
	)
}
