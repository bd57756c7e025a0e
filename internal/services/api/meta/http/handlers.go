// Package http serves the meta endpoints: liveness, readiness, build and uptime
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"lorebook/internal/core/version"
	"lorebook/internal/modkit/httpkit"
	ptime "lorebook/internal/platform/time"
)

// Check is one named readiness probe; a nil Ping reports skipped
type Check struct {
	Name string
	Ping func(context.Context) error
}

// Deps are the handler dependencies
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	Checks      []Check
	// ReadyTimeout bounds all checks together, default 2s
	ReadyTimeout time.Duration
}

// Register mounts /health, /ready, /version and /service on r
func Register(r httpkit.Router, d Deps) {
	if d.ReadyTimeout <= 0 {
		d.ReadyTimeout = 2 * time.Second
	}
	h := handlers(d)
	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/service", h.service)
}

type handlers Deps

// HealthResponse is the liveness payload
type HealthResponse struct {
	OK      bool   `json:"ok"      example:"true"`
	Service string `json:"service" example:"lorebook-api"`
	Started string `json:"started" example:"2025-09-03T13:00:00Z"`
	Now     string `json:"now"     example:"2025-09-03T13:05:00Z"`
}

// ReadyCheck is the outcome of one Check: ok, fail or skipped
type ReadyCheck struct {
	Name   string `json:"name"   example:"catalog"`
	Status string `json:"status" example:"ok"`
	Error  string `json:"error,omitempty" example:"catalog store unavailable"`
}

// ReadyResponse is ok only when no check failed
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"`
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"    example:"2025-09-03T13:05:00Z"`
}

// ServiceResponse reports uptime in whole seconds
type ServiceResponse struct {
	Name    string `json:"name"    example:"lorebook-api"`
	Started string `json:"started" example:"2025-09-03T13:00:00Z"`
	Uptime  int64  `json:"uptime"  example:"300"`
}

// @Summary Liveness
// @Tags Meta
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /meta/health [get]
func (h handlers) health(*http.Request) (any, error) {
	return HealthResponse{
		OK:      true,
		Service: h.ServiceName,
		Started: ptime.Stamp(h.StartedAt),
		Now:     ptime.Stamp(time.Now()),
	}, nil
}

// @Summary Readiness, running every dependency check concurrently
// @Tags Meta
// @Produce json
// @Success 200 {object} ReadyResponse
// @Failure 503 {object} ReadyResponse
// @Router /meta/ready [get]
func (h handlers) ready(r *http.Request) (any, error) {
	ctx, cancel := context.WithTimeout(r.Context(), h.ReadyTimeout)
	defer cancel()

	checks := make([]ReadyCheck, len(h.Checks))
	var wg sync.WaitGroup
	for i, c := range h.Checks {
		checks[i] = ReadyCheck{Name: c.Name, Status: "skipped"}
		if c.Ping == nil {
			continue
		}
		wg.Go(func() {
			if err := c.Ping(ctx); err != nil {
				checks[i].Status, checks[i].Error = "fail", err.Error()
				return
			}
			checks[i].Status = "ok"
		})
	}
	wg.Wait()

	body := ReadyResponse{Status: "ok", Checks: checks, Now: ptime.Stamp(time.Now())}
	for _, c := range checks {
		if c.Status == "fail" {
			body.Status = "fail"
			return httpkit.Response{Status: http.StatusServiceUnavailable, Body: body}, nil
		}
	}
	return body, nil
}

// @Summary Build and version info
// @Tags Meta
// @Produce json
// @Success 200 {object} version.BuildInfo
// @Router /meta/version [get]
func (h handlers) version(*http.Request) (any, error) {
	return version.Info(), nil
}

// @Summary Service name and uptime
// @Tags Meta
// @Produce json
// @Success 200 {object} ServiceResponse
// @Router /meta/service [get]
func (h handlers) service(*http.Request) (any, error) {
	return ServiceResponse{
		Name:    h.ServiceName,
		Started: ptime.Stamp(h.StartedAt),
		Uptime:  int64(time.Since(h.StartedAt) / time.Second),
	}, nil
}
