// Persona Engine - Privacy-Preserving Persona Intelligence & Targeting
// Copyright 2026 Vitrine Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vitrine-labs/persona-engine

// Package storage handles object persistence: deterministic canonicalization
// of payloads, content hashing, and the HTTP client for the decentralized
// object gateway.
package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/goccy/go-json"
)

// Canonicalize encodes a value as canonical JSON: object keys sorted
// lexicographically at every nesting level, no insignificant whitespace.
// Two logically equal values always produce identical bytes, independent of
// struct field order or map insertion order.
func Canonicalize(v interface{}) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("canonicalize: marshal: %w", err)
	}

	// Re-marshaling through a generic value routes every object through a
	// map, which encodes with sorted keys.
	var generic interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("canonicalize: normalize: %w", err)
	}

	canonical, err := json.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("canonicalize: remarshal: %w", err)
	}
	return canonical, nil
}

// ContentHash canonicalizes a value and returns its 0x-prefixed SHA-256 hex
// digest along with the canonical bytes that were hashed.
func ContentHash(v interface{}) (string, []byte, error) {
	canonical, err := Canonicalize(v)
	if err != nil {
		return "", nil, err
	}
	digest := sha256.Sum256(canonical)
	return "0x" + hex.EncodeToString(digest[:]), canonical, nil
}
