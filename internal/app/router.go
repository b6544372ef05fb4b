// Package app wires the HTTP router from configuration and handlers.
package app

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fairyhunter13/resume-field-extractor/internal/adapter/httpserver"
	"github.com/fairyhunter13/resume-field-extractor/internal/config"
	"github.com/fairyhunter13/resume-field-extractor/internal/observability"
)

// ParseOrigins splits a comma-separated origin list into trimmed entries.
func ParseOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		out = []string{"*"}
	}
	return out
}

// NewRouter assembles middleware and routes for the API server.
func NewRouter(cfg config.Config, srv *httpserver.Server) http.Handler {
	r := chi.NewRouter()

	r.Use(httpserver.Recoverer())
	r.Use(httpserver.RequestID())
	r.Use(httpserver.SecurityHeaders)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   ParseOrigins(cfg.CORSAllowOrigins),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "If-None-Match", "Idempotency-Key", "X-Request-Id"},
		ExposedHeaders:   []string{"ETag", "X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(httpserver.AccessLog())
	r.Use(observability.HTTPMetricsMiddleware)
	r.Use(httpserver.TimeoutMiddleware(cfg.HTTPWriteTimeout))

	r.Get("/healthz", srv.Healthz)
	r.Get("/readyz", srv.Readyz)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			// Rate-limit mutating endpoints per client IP.
			r.Use(httprate.LimitByIP(cfg.RateLimitPerMin, time.Minute))
			r.Post("/resumes", srv.UploadResume)
		})
		r.Get("/resumes/{id}", srv.GetResume)
		r.Get("/resumes/{id}/profile", srv.GetResumeProfile)
		r.Get("/jobs/{id}", srv.GetJob)
	})

	return r
}
