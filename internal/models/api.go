// Persona Engine - Privacy-Preserving Persona Intelligence & Targeting
// Copyright 2026 Vitrine Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vitrine-labs/persona-engine

// Package models defines the shared API envelope and request/response types
// used by the HTTP handlers.
package models

import "time"

// APIResponse is the standardized response wrapper used by all endpoints.
//
// Status is "success" or "error". Data carries the payload on success;
// Error is populated only on failure.
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {"code": "NOT_FOUND", "message": "persona not found"},
//	  "metadata": {"timestamp": "2026-08-29T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability.
// Cached reports whether the payload was served from the metadata cache
// rather than fetched from the object gateway.
type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
	Cached    bool      `json:"cached,omitempty"`
}

// APIError carries a stable machine-readable code plus a human-readable
// message. Internal stack detail never crosses this boundary.
//
// Codes used by the engine:
//   - VALIDATION_ERROR: malformed input, rejected before processing
//   - STORAGE_UNAVAILABLE: object gateway unreachable or 5xx (retryable)
//   - STORAGE_PROTOCOL_ERROR: malformed gateway success response
//   - NOT_FOUND: object or reference does not exist
//   - RATE_LIMITED: per-identity admission window exhausted
//   - INTERNAL_ERROR: unexpected failure
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Stable error codes for APIError.Code.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeStorageUnavailable = "STORAGE_UNAVAILABLE"
	CodeStorageProtocol    = "STORAGE_PROTOCOL_ERROR"
	CodeNotFound           = "NOT_FOUND"
	CodeRateLimited        = "RATE_LIMITED"
	CodeInternal           = "INTERNAL_ERROR"
)
