// Persona Engine - Privacy-Preserving Persona Intelligence & Targeting
// Copyright 2026 Vitrine Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vitrine-labs/persona-engine

package persona

import (
	"time"

	"github.com/google/uuid"

	"github.com/vitrine-labs/persona-engine/internal/logging"
	"github.com/vitrine-labs/persona-engine/internal/metrics"
	"github.com/vitrine-labs/persona-engine/internal/models"
)

// profileVersion tags processed personas with the profile schema version.
const profileVersion = "1.0"

// Strategy derives a ProcessedPersona from a raw submission. Implementations
// must be safe for concurrent use; the processor is shared across requests.
type Strategy interface {
	// Name identifies the strategy in logs and the processing_method field.
	Name() string
	// Process derives the anonymized profile. The input is never mutated.
	Process(data models.PersonaData) (*ProcessedPersona, error)
}

// RuleBased is the deterministic, dependency-free processing strategy. It is
// the authoritative strategy; alternative strategies (e.g. model-backed
// classification) plug in behind the same interface.
type RuleBased struct {
	now   func() time.Time
	newID func() string
}

// NewRuleBased creates the rule-based processing strategy.
func NewRuleBased() *RuleBased {
	return &RuleBased{
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Name implements Strategy.
func (p *RuleBased) Name() string { return "rule_based" }

// Process runs the six derivation stages and assembles the profile.
// It never fails for well-formed input; the error return exists for
// strategies that do remote work.
func (p *RuleBased) Process(data models.PersonaData) (*ProcessedPersona, error) {
	demographics := AnonymizeDemographics(data.Demographics)
	interests := CategorizeInterests(data.Interests)
	browse := AnalyzeBrowsing(data.Browse)
	prefs := VectorizePreferences(data.Preferences)
	segments := BuildSegments(interests, browse, prefs)
	targeting := CalculateTargetingScores(interests, browse, prefs)

	processed := &ProcessedPersona{
		ID:                     p.newID(),
		AnonymizedDemographics: demographics,
		InterestProfile:        interests,
		BrowseProfile:          browse,
		PreferenceProfile:      prefs,
		AudienceSegments:       segments,
		TargetingScores:        targeting,
		PrivacyLevel:           "high",
		ProcessingMethod:       p.Name(),
		CreatedAt:              p.now().UTC(),
		Version:                profileVersion,
	}

	logging.Debug().
		Str("persona_id", processed.ID).
		Str("primary_segment", segments.PrimarySegment).
		Str("primary_category", interests.PrimaryCategory).
		Int("segment_count", segments.SegmentCount).
		Msg("Persona processed")
	metrics.PersonasProcessed.WithLabelValues("success").Inc()

	return processed, nil
}
