package http

import (
	"context"
	"errors"
	stdhttp "net/http"
	"time"

	"lorebook/internal/platform/config"
	perr "lorebook/internal/platform/errors"
	"lorebook/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

// Server owns the chi mux and the http.Server listening on CORE_API_PORT
type Server struct {
	addr string
	mux  *chi.Mux
	srv  *stdhttp.Server
}

// NewServer listens on PORT, default :4000
// opts run against the mux before anything is mounted
func NewServer(cfg config.Conf, opts ...func(*chi.Mux)) *Server {
	addr := cfg.MayString("PORT", ":4000")
	m := chi.NewRouter()
	for _, o := range opts {
		o(m)
	}
	return &Server{
		addr: addr,
		mux:  m,
		srv: &stdhttp.Server{
			Addr:              addr,
			Handler:           m,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Router returns a Router facade over the internal chi mux
func (s *Server) Router() Router {
	return AdaptChi(s.mux)
}

// Run blocks serving until Shutdown; a clean shutdown returns nil
func (s *Server) Run(ctx context.Context) error {
	logger.C(ctx).Info().Str("component", "http").Str("addr", s.addr).Msg("http listening")
	if err := s.srv.ListenAndServe(); !errors.Is(err, stdhttp.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// WithJSONFallbacks answers unmatched routes and methods with the error envelope
// pass it to NewServer so sub routers mounted later inherit it
func WithJSONFallbacks(m *chi.Mux) {
	m.NotFound(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		RespondError(w, r, perr.NotFoundf("no route for %s", r.URL.Path))
	})
	m.MethodNotAllowed(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		RespondError(w, r, perr.MethodNotAllowedf("method %s not allowed on %s", r.Method, r.URL.Path))
	})
}
