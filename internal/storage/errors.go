// Persona Engine - Privacy-Preserving Persona Intelligence & Targeting
// Copyright 2026 Vitrine Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vitrine-labs/persona-engine

package storage

import "errors"

var (
	// ErrUnavailable means the object gateway could not be reached or
	// answered with a server error. Retryable.
	ErrUnavailable = errors.New("storage gateway unavailable")

	// ErrNotFound means the gateway does not hold the requested object.
	ErrNotFound = errors.New("object not found")

	// ErrProtocol means the gateway answered success but the response body
	// did not carry a usable file identifier or payload.
	ErrProtocol = errors.New("storage protocol error")
)
