// Persona Engine - Privacy-Preserving Persona Intelligence & Targeting
// Copyright 2026 Vitrine Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vitrine-labs/persona-engine

package persona

import (
	"math"
	"testing"
)

func emptyPrefs() PreferenceProfile {
	return PreferenceProfile{
		AdPreferences:      map[string]float64{},
		ContentPreferences: map[string]float64{},
		ShoppingBehavior:   map[string]float64{},
	}
}

func TestBuildSegmentsTechEnthusiast(t *testing.T) {
	interests := InterestProfile{Scores: map[string]float64{"technology": 0.5}}
	segments := BuildSegments(interests, BrowseProfile{}, emptyPrefs())

	if segments.PrimarySegment != "tech_enthusiast" {
		t.Errorf("expected tech_enthusiast primary, got %q", segments.PrimarySegment)
	}
	if got := segments.ConfidenceScores["tech_enthusiast"]; math.Abs(got-0.8) > 1e-9 {
		t.Errorf("expected confidence 0.8, got %f", got)
	}
}

func TestBuildSegmentsMultiDeviceAloneTriggersTech(t *testing.T) {
	browse := BrowseProfile{DeviceProfile: DeviceProfile{IsMultiDevice: true}}
	segments := BuildSegments(InterestProfile{Scores: map[string]float64{}}, browse, emptyPrefs())

	found := false
	for _, s := range segments.Segments {
		if s == "tech_enthusiast" {
			found = true
		}
	}
	if !found {
		t.Error("multi-device usage alone should trigger tech_enthusiast")
	}
	if got := segments.ConfidenceScores["tech_enthusiast"]; math.Abs(got-0.3) > 1e-9 {
		t.Errorf("expected confidence 0.3 with zero tech score, got %f", got)
	}
}

func TestBuildSegmentsShopperAndPremium(t *testing.T) {
	prefs := emptyPrefs()
	prefs.ShoppingBehavior["impulse_buyer"] = 1.0
	prefs.ShoppingBehavior["price_conscious"] = 1.0
	prefs.ShoppingBehavior["quality_focused"] = 1.0

	segments := BuildSegments(InterestProfile{Scores: map[string]float64{}}, BrowseProfile{}, prefs)

	if segments.ConfidenceScores["active_shopper"] != 2.0 {
		t.Errorf("active_shopper confidence should be the raw sum, got %f",
			segments.ConfidenceScores["active_shopper"])
	}
	if segments.ConfidenceScores["premium_consumer"] != 1.0 {
		t.Errorf("expected premium_consumer confidence 1.0, got %f",
			segments.ConfidenceScores["premium_consumer"])
	}
}

func TestBuildSegmentsContentConsumer(t *testing.T) {
	prefs := emptyPrefs()
	prefs.ContentPreferences["text_content"] = 1.0
	prefs.ContentPreferences["video_content"] = 1.0

	segments := BuildSegments(InterestProfile{Scores: map[string]float64{}}, BrowseProfile{}, prefs)

	if got := segments.ConfidenceScores["content_consumer"]; got != 0.5 {
		t.Errorf("expected content_consumer confidence 0.5, got %f", got)
	}
}

func TestBuildSegmentsEngagement(t *testing.T) {
	heavy := BuildSegments(InterestProfile{Scores: map[string]float64{}},
		BrowseProfile{EngagementLevel: "heavy"}, emptyPrefs())
	if heavy.ConfidenceScores["engaged_user"] != 0.8 {
		t.Errorf("heavy engagement should score 0.8, got %f", heavy.ConfidenceScores["engaged_user"])
	}

	medium := BuildSegments(InterestProfile{Scores: map[string]float64{}},
		BrowseProfile{EngagementLevel: "medium"}, emptyPrefs())
	if medium.ConfidenceScores["engaged_user"] != 0.6 {
		t.Errorf("medium engagement should score 0.6, got %f", medium.ConfidenceScores["engaged_user"])
	}

	light := BuildSegments(InterestProfile{Scores: map[string]float64{}},
		BrowseProfile{EngagementLevel: "light"}, emptyPrefs())
	for _, s := range light.Segments {
		if s == "engaged_user" {
			t.Error("light engagement must not produce engaged_user")
		}
	}
}

func TestBuildSegmentsDefault(t *testing.T) {
	segments := BuildSegments(InterestProfile{Scores: map[string]float64{}}, BrowseProfile{}, emptyPrefs())

	if len(segments.Segments) != 1 || segments.Segments[0] != "general_audience" {
		t.Errorf("expected general_audience fallback, got %v", segments.Segments)
	}
	if segments.ConfidenceScores["general_audience"] != 0.5 {
		t.Errorf("expected fallback confidence 0.5, got %f", segments.ConfidenceScores["general_audience"])
	}
	if segments.PrimarySegment != "general_audience" {
		t.Errorf("expected general_audience primary, got %q", segments.PrimarySegment)
	}
}

func TestTargetingScoresCoverAllVerticals(t *testing.T) {
	scores := CalculateTargetingScores(InterestProfile{Scores: map[string]float64{}}, BrowseProfile{}, emptyPrefs())

	for _, vertical := range TargetingVerticals {
		got, ok := scores[vertical]
		if !ok {
			t.Errorf("vertical %s missing from scores", vertical)
			continue
		}
		if got < 0 || got > 1 {
			t.Errorf("score for %s out of [0,1]: %f", vertical, got)
		}
		// With no signal, every vertical sits on the floor.
		if got != 0.1 {
			t.Errorf("expected floor 0.1 for %s, got %f", vertical, got)
		}
	}
}

func TestTargetingScoresTechnology(t *testing.T) {
	interests := InterestProfile{Scores: map[string]float64{"technology": 0.9}}
	browse := BrowseProfile{DeviceProfile: DeviceProfile{IsMultiDevice: true}}

	scores := CalculateTargetingScores(interests, browse, emptyPrefs())
	if got := scores["technology"]; math.Abs(got-0.93) > 1e-9 {
		t.Errorf("expected 0.9*0.7+0.3 = 0.93, got %f", got)
	}
}

func TestTargetingScoresClampToOne(t *testing.T) {
	interests := InterestProfile{Scores: map[string]float64{"technology": 2.0}}
	browse := BrowseProfile{DeviceProfile: DeviceProfile{IsMultiDevice: true}}

	scores := CalculateTargetingScores(interests, browse, emptyPrefs())
	if scores["technology"] != 1.0 {
		t.Errorf("expected clamp to 1.0, got %f", scores["technology"])
	}
}

func TestTargetingScoresEcommerce(t *testing.T) {
	prefs := emptyPrefs()
	prefs.ShoppingBehavior["impulse_buyer"] = 1.0
	prefs.ShoppingBehavior["price_conscious"] = 1.0

	scores := CalculateTargetingScores(InterestProfile{Scores: map[string]float64{}}, BrowseProfile{}, prefs)
	if got := scores["ecommerce"]; got != 1.0 {
		t.Errorf("expected 0.4+0.6 = 1.0, got %f", got)
	}
}

func TestTargetingScoresHealthFitnessBoost(t *testing.T) {
	interests := InterestProfile{
		Categories: []string{"sports"},
		Scores:     map[string]float64{"health": 0.5},
	}
	scores := CalculateTargetingScores(interests, BrowseProfile{}, emptyPrefs())
	if got := scores["health"]; math.Abs(got-0.35) > 1e-9 {
		t.Errorf("expected 0.5*0.7 without fitness boost, got %f", got)
	}

	interests.Categories = []string{"Fitness & Wellness"}
	scores = CalculateTargetingScores(interests, BrowseProfile{}, emptyPrefs())
	if got := scores["health"]; math.Abs(got-0.65) > 1e-9 {
		t.Errorf("expected 0.35+0.3 with fitness boost, got %f", got)
	}
}

func TestTargetingScoresFashionBrandBoost(t *testing.T) {
	interests := InterestProfile{Scores: map[string]float64{"fashion": 0.5}}
	prefs := emptyPrefs()
	prefs.ShoppingBehavior["brand_loyal"] = 1.0

	scores := CalculateTargetingScores(interests, BrowseProfile{}, prefs)
	if got := scores["fashion"]; math.Abs(got-0.6) > 1e-9 {
		t.Errorf("expected 0.5*0.8+0.2 = 0.6, got %f", got)
	}
}
