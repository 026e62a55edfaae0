// Persona Engine - Privacy-Preserving Persona Intelligence & Targeting
// Copyright 2026 Vitrine Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vitrine-labs/persona-engine

package persona

import "strings"

// TargetingVerticals is the fixed set of ad verticals scored for every
// persona, in canonical order.
var TargetingVerticals = []string{
	"technology", "ecommerce", "entertainment", "fashion", "health", "finance",
}

// minTargetingScore is the floor applied to verticals with no signal, so
// every persona retains a minimal targeting possibility in every vertical.
const minTargetingScore = 0.1

// BuildSegments assigns rule-based audience segments. Each rule is evaluated
// independently; segments appear in fixed rule order, and the first one is
// the primary segment.
func BuildSegments(interests InterestProfile, browse BrowseProfile, prefs PreferenceProfile) AudienceSegments {
	var segments []string
	confidence := make(map[string]float64)

	techScore := interests.Scores["technology"]
	if techScore > 0.3 || browse.DeviceProfile.IsMultiDevice {
		segments = append(segments, "tech_enthusiast")
		confidence["tech_enthusiast"] = clamp01(techScore + 0.3)
	}

	shoppingScore := prefs.ShoppingBehavior["impulse_buyer"] + prefs.ShoppingBehavior["price_conscious"]
	if shoppingScore > 0.5 {
		segments = append(segments, "active_shopper")
		confidence["active_shopper"] = shoppingScore
	}

	contentScore := sumValues(prefs.ContentPreferences)
	if contentScore > 1.5 {
		segments = append(segments, "content_consumer")
		confidence["content_consumer"] = clamp01(contentScore / 4)
	}

	if browse.DeviceProfile.MobileUsage > 0 {
		segments = append(segments, "mobile_user")
		confidence["mobile_user"] = browse.DeviceProfile.MobileUsage
	}

	switch browse.EngagementLevel {
	case "heavy":
		segments = append(segments, "engaged_user")
		confidence["engaged_user"] = 0.8
	case "medium":
		segments = append(segments, "engaged_user")
		confidence["engaged_user"] = 0.6
	}

	if prefs.ShoppingBehavior["quality_focused"] > 0 {
		segments = append(segments, "premium_consumer")
		confidence["premium_consumer"] = prefs.ShoppingBehavior["quality_focused"]
	}

	if len(segments) == 0 {
		segments = []string{"general_audience"}
		confidence["general_audience"] = 0.5
	}

	return AudienceSegments{
		Segments:         segments,
		PrimarySegment:   segments[0],
		ConfidenceScores: confidence,
		SegmentCount:     len(segments),
	}
}

// CalculateTargetingScores scores the persona against the six fixed ad
// verticals. Every vertical is present in the result; scores are clamped to
// [0,1] and verticals with no signal get the minimum floor.
func CalculateTargetingScores(interests InterestProfile, browse BrowseProfile, prefs PreferenceProfile) map[string]float64 {
	scores := make(map[string]float64, len(TargetingVerticals))

	techScore := interests.Scores["technology"] * 0.7
	if browse.DeviceProfile.IsMultiDevice {
		techScore += 0.3
	}
	scores["technology"] = clamp01(techScore)

	scores["ecommerce"] = clamp01(
		prefs.ShoppingBehavior["impulse_buyer"]*0.4 +
			prefs.ShoppingBehavior["price_conscious"]*0.6)

	scores["entertainment"] = clamp01(
		interests.Scores["entertainment"]*0.6 +
			prefs.ContentPreferences["video_content"]*0.4)

	fashionScore := interests.Scores["fashion"] * 0.8
	if prefs.ShoppingBehavior["brand_loyal"] > 0 {
		fashionScore += 0.2
	}
	scores["fashion"] = clamp01(fashionScore)

	healthScore := interests.Scores["health"] * 0.7
	if categoriesMention(interests.Categories, "fitness") {
		healthScore += 0.3
	}
	scores["health"] = clamp01(healthScore)

	scores["finance"] = clamp01(interests.Scores["finance"] * 0.9)

	for _, vertical := range TargetingVerticals {
		if scores[vertical] == 0 {
			scores[vertical] = minTargetingScore
		}
	}

	return scores
}

// categoriesMention reports whether any category name contains the given
// lowercase term.
func categoriesMention(categories []string, term string) bool {
	for _, category := range categories {
		if strings.Contains(strings.ToLower(category), term) {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
