// Persona Engine - Privacy-Preserving Persona Intelligence & Targeting
// Copyright 2026 Vitrine Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vitrine-labs/persona-engine

// Package api wires the HTTP surface: routing, middleware, and the handlers
// that connect persona processing, matching, and storage.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vitrine-labs/persona-engine/internal/cache"
	"github.com/vitrine-labs/persona-engine/internal/catalog"
	"github.com/vitrine-labs/persona-engine/internal/config"
	"github.com/vitrine-labs/persona-engine/internal/metrics"
	"github.com/vitrine-labs/persona-engine/internal/persona"
	"github.com/vitrine-labs/persona-engine/internal/ratelimit"
	"github.com/vitrine-labs/persona-engine/internal/reference"
)

// ObjectStore is the gateway capability the handlers depend on.
type ObjectStore interface {
	Upload(ctx context.Context, data []byte, filename, contentType string) (string, error)
	Download(ctx context.Context, fid string) ([]byte, error)
	Healthy(ctx context.Context) bool
}

// Server holds the handler dependencies.
type Server struct {
	cfg       *config.Config
	cache     *cache.Cache
	limiter   *ratelimit.Limiter
	store     ObjectStore
	refs      *reference.Store
	catalog   *catalog.Store
	processor persona.Strategy
}

// NewServer assembles the API server from its collaborators.
func NewServer(
	cfg *config.Config,
	c *cache.Cache,
	limiter *ratelimit.Limiter,
	store ObjectStore,
	refs *reference.Store,
	cat *catalog.Store,
	processor persona.Strategy,
) *Server {
	return &Server{
		cfg:       cfg,
		cache:     c,
		limiter:   limiter,
		store:     store,
		refs:      refs,
		catalog:   cat,
		processor: processor,
	}
}

// Router builds the chi router with the full middleware stack and routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(securityHeaders)
	r.Use(requestLogger)
	r.Use(corsMiddleware(&s.cfg.Security))
	r.Use(ipRateLimit(&s.cfg.Security))

	r.Get("/", s.handleRoot)
	r.Get("/health", instrument("/health", s.handleHealth))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/persona/create", instrument("/api/persona/create", s.handlePersonaCreate))
		r.Get("/persona/{hash}", instrument("/api/persona/{hash}", s.handlePersonaGet))
		r.Get("/metadata/{fid}", instrument("/api/metadata/{fid}", s.handleMetadataGet))
		r.Post("/upload", instrument("/api/upload", s.handleUpload))

		r.Get("/marketplace/recommendations/{address}",
			instrument("/api/marketplace/recommendations/{address}", s.handleRecommendations))
		r.Get("/campaigns/available/{address}",
			instrument("/api/campaigns/available/{address}", s.handleAvailableCampaigns))

		r.Post("/admin/campaigns", instrument("/api/admin/campaigns", s.handleCreateCampaign))
		r.Post("/admin/products", instrument("/api/admin/products", s.handleCreateProduct))

		r.Get("/cache/stats", instrument("/api/cache/stats", s.handleCacheStats))
		r.Post("/cache/invalidate/{fid}", instrument("/api/cache/invalidate/{fid}", s.handleCacheInvalidate))
	})

	return r
}

// instrument records request count and latency metrics per route pattern.
func instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next(ww, r)

		metrics.APIRequests.WithLabelValues(route, metrics.StatusClass(ww.Status())).Inc()
		metrics.APIRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

// handleRoot describes the service.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"service":    "persona-engine",
		"processing": s.processor.Name(),
		"storage":    "decentralized_object_gateway",
		"gateway":    s.cfg.Gateway.URL,
		"endpoints": map[string]string{
			"personas":    "/api/persona/create",
			"marketplace": "/api/marketplace/recommendations/{address}",
			"campaigns":   "/api/campaigns/available/{address}",
			"upload":      "/api/upload",
			"metadata":    "/api/metadata/{fid}",
			"health":      "/health",
		},
	}, false)
}
