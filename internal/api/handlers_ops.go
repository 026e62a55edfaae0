// Persona Engine - Privacy-Preserving Persona Intelligence & Targeting
// Copyright 2026 Vitrine Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vitrine-labs/persona-engine

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vitrine-labs/persona-engine/internal/models"
)

// handleHealth reports service and dependency health. The gateway probe has
// its own short timeout so a dead gateway degrades the report instead of
// hanging it.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	gatewayStatus := "healthy"
	overall := "healthy"
	if !s.store.Healthy(r.Context()) {
		gatewayStatus = "unreachable"
		overall = "degraded"
	}

	refStatus := "healthy"
	if err := s.refs.Ping(); err != nil {
		refStatus = "unavailable"
		overall = "degraded"
	}

	status := models.HealthStatus{
		Status:    overall,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services: map[string]string{
			"gateway":    gatewayStatus,
			"references": refStatus,
			"processing": s.processor.Name(),
		},
		Cache: models.CacheHealth{
			Entries:        s.cache.Len(),
			PersonaEntries: s.cache.CountPrefix(personaNamespace),
		},
	}

	code := http.StatusOK
	if overall != "healthy" {
		code = http.StatusServiceUnavailable
	}
	respondSuccess(w, code, status, false)
}

// handleCacheStats exposes cache introspection data.
func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, models.CacheStats{
		TotalEntries:   s.cache.Len(),
		PersonaEntries: s.cache.CountPrefix(personaNamespace),
		TTLHours:       s.cache.TTL().Hours(),
		Gateway:        s.cfg.Gateway.URL,
		Territory:      s.cfg.Gateway.Territory,
	}, false)
}

// handleCacheInvalidate drops the cached entries for a fid. Idempotent:
// invalidating an absent fid succeeds and reports invalidated=false.
func (s *Server) handleCacheInvalidate(w http.ResponseWriter, r *http.Request) {
	fid := chi.URLParam(r, "fid")

	personaHit := s.cache.Invalidate(personaNamespace + fid)
	metadataHit := s.cache.Invalidate(metadataNamespace + fid)

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"fid":         fid,
		"invalidated": personaHit || metadataHit,
	}, false)
}
