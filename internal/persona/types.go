// Persona Engine - Privacy-Preserving Persona Intelligence & Targeting
// Copyright 2026 Vitrine Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vitrine-labs/persona-engine

// Package persona derives anonymized targeting profiles from raw user
// submissions.
//
// The pipeline runs six pure stages over a submission: demographic
// anonymization, interest classification, browsing analysis, preference
// vectorization, segment assignment, and vertical targeting scores. Every
// stage is deterministic; equal inputs always produce equal profiles (apart
// from the generated persona ID and timestamp).
package persona

import "time"

// InterestProfile is the output of interest classification.
type InterestProfile struct {
	// Categories holds up to five category names ordered by descending score.
	Categories []string `json:"categories"`
	// Scores maps every category with a positive score to its normalized value.
	Scores map[string]float64 `json:"scores"`
	// PrimaryCategory is the top-scoring category, or "general" when no
	// keyword matched.
	PrimaryCategory string  `json:"primary_category"`
	DiversityScore  float64 `json:"diversity_score"`
	TotalInterests  int     `json:"total_interests"`
}

// AnonymizedDemographics replaces raw demographic fields with coarse
// segment labels. No raw age, city, or language value survives.
type AnonymizedDemographics struct {
	AgeSegment    string `json:"age_segment"`
	MarketTier    string `json:"market_tier"`
	Region        string `json:"region"`
	LanguageGroup string `json:"language_group"`
	UrbanRural    string `json:"urban_rural"`
}

// DeviceProfile summarizes device usage.
type DeviceProfile struct {
	PrimaryDevice string  `json:"primary_device"`
	IsMultiDevice bool    `json:"is_multi_device"`
	DeviceCount   int     `json:"device_count"`
	MobileUsage   float64 `json:"mobile_usage"`
}

// BrowseProfile is the output of browsing-behavior analysis.
type BrowseProfile struct {
	// CategoryPreferences maps each browsing category to its share of total
	// recorded time.
	CategoryPreferences map[string]float64 `json:"category_preferences"`
	DeviceProfile       DeviceProfile      `json:"device_profile"`
	EngagementLevel     string             `json:"engagement_level"`
	HoursPerDay         float64            `json:"hours_per_day"`
	CategoryDiversity   int                `json:"category_diversity"`
	// TopCategory is the category with the largest time share, empty when no
	// time data was recorded.
	TopCategory string `json:"top_category,omitempty"`
}

// PreferenceProfile is the output of preference vectorization. The three
// maps carry a fixed key set with 1.0/0.0 membership values.
type PreferenceProfile struct {
	AdPreferences        map[string]float64 `json:"ad_preferences"`
	ContentPreferences   map[string]float64 `json:"content_preferences"`
	ShoppingBehavior     map[string]float64 `json:"shopping_behavior"`
	PreferenceStrength   float64            `json:"preference_strength"`
	HasStrongPreferences bool               `json:"has_strong_preferences"`
}

// AudienceSegments is the output of segment assignment.
type AudienceSegments struct {
	// Segments lists matched segment names in rule order.
	Segments []string `json:"segments"`
	// PrimarySegment is the first matched segment, or "general_audience".
	PrimarySegment   string             `json:"primary_segment"`
	ConfidenceScores map[string]float64 `json:"confidence_scores"`
	SegmentCount     int                `json:"segment_count"`
}

// ProcessedPersona is the fully derived, anonymized targeting profile that
// gets canonicalized and stored.
type ProcessedPersona struct {
	ID                     string                 `json:"id"`
	AnonymizedDemographics AnonymizedDemographics `json:"anonymized_demographics"`
	InterestProfile        InterestProfile        `json:"interest_profile"`
	BrowseProfile          BrowseProfile          `json:"browse_profile"`
	PreferenceProfile      PreferenceProfile      `json:"preference_profile"`
	AudienceSegments       AudienceSegments       `json:"audience_segments"`
	// TargetingScores maps each of the six fixed verticals to a score in
	// [0,1]. Every vertical is always present.
	TargetingScores  map[string]float64 `json:"targeting_scores"`
	PrivacyLevel     string             `json:"privacy_level"`
	ProcessingMethod string             `json:"processing_method"`
	CreatedAt        time.Time          `json:"created_at"`
	Version          string             `json:"version"`
}
