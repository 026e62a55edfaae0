// Persona Engine - Privacy-Preserving Persona Intelligence & Targeting
// Copyright 2026 Vitrine Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vitrine-labs/persona-engine

package persona

import (
	"strings"

	"github.com/vitrine-labs/persona-engine/internal/models"
)

// ageSegments maps submitted age brackets to generation labels.
var ageSegments = map[string]string{
	"18-24": "gen_z",
	"25-34": "millennial_young",
	"35-44": "millennial_old",
	"45-54": "gen_x",
	"55-64": "boomer_young",
	"65+":   "boomer_old",
}

// cityTier binds a known city to its market tier. The list is scanned in
// order; the first substring match wins.
type cityTier struct {
	city string
	tier string
}

var knownCities = []cityTier{
	{"são paulo", "tier_1_metro"},
	{"rio de janeiro", "tier_1_metro"},
	{"brasília", "tier_1_capital"},
	{"salvador", "tier_1_capital"},
	{"fortaleza", "tier_1_capital"},
	{"belo horizonte", "tier_1_capital"},
	{"curitiba", "tier_1_capital"},
	{"recife", "tier_1_capital"},
	{"porto alegre", "tier_1_capital"},
}

// languageGroups maps submitted languages to coarse language groups.
var languageGroups = map[string]string{
	"português": "portuguese_br",
	"english":   "english",
	"español":   "spanish",
	"français":  "french",
}

// AnonymizeDemographics replaces raw demographics with coarse labels.
// Unrecognized values fall to defaults ("unknown", "tier_3_other", "other")
// rather than passing through.
func AnonymizeDemographics(d models.Demographics) AnonymizedDemographics {
	ageSegment, ok := ageSegments[d.AgeRange]
	if !ok {
		ageSegment = "unknown"
	}

	location := strings.ToLower(d.Location)
	marketTier := "tier_3_other"
	region := "other"
	matched := false

	for _, ct := range knownCities {
		if strings.Contains(location, ct.city) {
			marketTier = ct.tier
			region = regionFor(location)
			matched = true
			break
		}
	}

	urbanRural := "suburban"
	if matched {
		urbanRural = "urban"
	}

	languageGroup, ok := languageGroups[strings.ToLower(d.Language)]
	if !ok {
		languageGroup = "other"
	}

	return AnonymizedDemographics{
		AgeSegment:    ageSegment,
		MarketTier:    marketTier,
		Region:        region,
		LanguageGroup: languageGroup,
		UrbanRural:    urbanRural,
	}
}

// regionFor classifies a matched location into a Brazilian macro-region.
func regionFor(location string) string {
	switch {
	case strings.Contains(location, "são paulo"), strings.Contains(location, "rio"):
		return "southeast"
	case strings.Contains(location, "brasília"):
		return "center_west"
	case strings.Contains(location, "salvador"), strings.Contains(location, "recife"):
		return "northeast"
	default:
		return "other"
	}
}
