// Persona Engine - Privacy-Preserving Persona Intelligence & Targeting
// Copyright 2026 Vitrine Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vitrine-labs/persona-engine

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/vitrine-labs/persona-engine/internal/logging"
	"github.com/vitrine-labs/persona-engine/internal/models"
	"github.com/vitrine-labs/persona-engine/internal/persona"
	"github.com/vitrine-labs/persona-engine/internal/reference"
	"github.com/vitrine-labs/persona-engine/internal/storage"
	"github.com/vitrine-labs/persona-engine/internal/validation"
)

// Cache key namespaces.
const (
	personaNamespace  = "persona:"
	metadataNamespace = "metadata:"
)

// handlePersonaCreate processes a raw persona submission, stores the derived
// profile on the gateway, and records the hash→fid reference.
func (s *Server) handlePersonaCreate(w http.ResponseWriter, r *http.Request) {
	var req models.PersonaRequest
	if err := decodeJSON(r, &req); err != nil {
		errorResponse(w, http.StatusBadRequest, models.CodeValidation, "malformed request body", err)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondError(w, http.StatusBadRequest, verr.ToAPIError(), verr)
		return
	}

	if !s.limiter.Allow(req.UserAddress) {
		errorResponse(w, http.StatusTooManyRequests, models.CodeRateLimited,
			"persona update limit reached, try again later", nil)
		return
	}

	processed, err := s.processor.Process(req.PersonaData)
	if err != nil {
		errorResponse(w, http.StatusInternalServerError, models.CodeInternal,
			"failed to process persona", err)
		return
	}

	contentHash, canonical, err := storage.ContentHash(processed)
	if err != nil {
		errorResponse(w, http.StatusInternalServerError, models.CodeInternal,
			"failed to canonicalize persona", err)
		return
	}

	filename := fmt.Sprintf("persona_%s.json", contentHash[2:])
	fid, err := s.store.Upload(r.Context(), canonical, filename, "application/json")
	if err != nil {
		s.storageError(w, err)
		return
	}

	ref := reference.Reference{
		ContentHash: contentHash,
		FID:         fid,
		Owner:       req.UserAddress,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.refs.Save(ref); err != nil {
		errorResponse(w, http.StatusInternalServerError, models.CodeInternal,
			"failed to record persona reference", err)
		return
	}

	s.cache.Set(personaNamespace+fid, processed)

	logging.Info().
		Str("content_hash", contentHash).
		Str("fid", fid).
		Str("primary_segment", processed.AudienceSegments.PrimarySegment).
		Msg("Persona created")

	respondSuccess(w, http.StatusOK, models.PersonaCreateResponse{
		Hash: contentHash,
		FID:  fid,
	}, false)
}

// handlePersonaGet resolves a content hash to its fid and returns the stored
// profile, serving from cache when possible.
func (s *Server) handlePersonaGet(w http.ResponseWriter, r *http.Request) {
	hash := chi.URLParam(r, "hash")

	ref, err := s.refs.GetByHash(hash)
	if errors.Is(err, reference.ErrNotFound) {
		errorResponse(w, http.StatusNotFound, models.CodeNotFound, "persona not found", nil)
		return
	}
	if err != nil {
		errorResponse(w, http.StatusInternalServerError, models.CodeInternal,
			"failed to resolve persona reference", err)
		return
	}

	processed, cached, err := s.fetchPersona(r, ref.FID)
	if err != nil {
		s.storageError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, processed, cached)
}

// fetchPersona returns the processed persona stored under fid, from cache or
// the gateway.
func (s *Server) fetchPersona(r *http.Request, fid string) (*persona.ProcessedPersona, bool, error) {
	if value, ok := s.cache.Get(personaNamespace + fid); ok {
		if processed, ok := value.(*persona.ProcessedPersona); ok {
			return processed, true, nil
		}
	}

	data, err := s.store.Download(r.Context(), fid)
	if err != nil {
		return nil, false, err
	}

	var processed persona.ProcessedPersona
	if err := json.Unmarshal(data, &processed); err != nil {
		return nil, false, fmt.Errorf("%w: stored persona is not valid JSON: %v", storage.ErrProtocol, err)
	}

	s.cache.Set(personaNamespace+fid, &processed)
	return &processed, false, nil
}

// handleMetadataGet returns arbitrary stored JSON by fid, cache first.
func (s *Server) handleMetadataGet(w http.ResponseWriter, r *http.Request) {
	fid := chi.URLParam(r, "fid")

	if value, ok := s.cache.Get(metadataNamespace + fid); ok {
		respondSuccess(w, http.StatusOK, value, true)
		return
	}

	data, err := s.store.Download(r.Context(), fid)
	if err != nil {
		s.storageError(w, err)
		return
	}

	var payload interface{}
	if err := json.Unmarshal(data, &payload); err != nil {
		errorResponse(w, http.StatusBadGateway, models.CodeStorageProtocol,
			"stored object is not valid JSON", err)
		return
	}

	s.cache.Set(metadataNamespace+fid, payload)
	respondSuccess(w, http.StatusOK, payload, false)
}

// handleUpload stores an arbitrary file on the gateway. Uploads are rate
// limited per client IP and bounded in size; empty files are rejected.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if !s.limiter.Allow(clientIP(r)) {
		errorResponse(w, http.StatusTooManyRequests, models.CodeRateLimited,
			"upload limit reached, try again later", nil)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Gateway.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.Gateway.MaxUploadBytes); err != nil {
		errorResponse(w, http.StatusBadRequest, models.CodeValidation,
			"upload too large or malformed", err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		errorResponse(w, http.StatusBadRequest, models.CodeValidation,
			"missing file field", err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		errorResponse(w, http.StatusBadRequest, models.CodeValidation,
			"failed to read upload", err)
		return
	}
	if len(data) == 0 {
		errorResponse(w, http.StatusBadRequest, models.CodeValidation,
			"empty file rejected", nil)
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	filename := header.Filename
	if filename == "" {
		filename = "upload_" + uuid.NewString()
	}

	fid, err := s.store.Upload(r.Context(), data, filename, contentType)
	if err != nil {
		s.storageError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"fid":      fid,
		"filename": filename,
		"size":     len(data),
	}, false)
}

// storageError maps storage sentinels onto the API error taxonomy.
func (s *Server) storageError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		errorResponse(w, http.StatusNotFound, models.CodeNotFound, "object not found", err)
	case errors.Is(err, storage.ErrProtocol):
		errorResponse(w, http.StatusBadGateway, models.CodeStorageProtocol,
			"storage gateway returned an unusable response", err)
	case errors.Is(err, storage.ErrUnavailable):
		errorResponse(w, http.StatusServiceUnavailable, models.CodeStorageUnavailable,
			"storage gateway unavailable", err)
	default:
		errorResponse(w, http.StatusInternalServerError, models.CodeInternal,
			"unexpected storage failure", err)
	}
}

// clientIP extracts the caller address without the port. RealIP middleware
// has already resolved proxy headers.
func clientIP(r *http.Request) string {
	host := r.RemoteAddr
	for i := len(host) - 1; i >= 0; i-- {
		if host[i] == ':' {
			return host[:i]
		}
	}
	return host
}
