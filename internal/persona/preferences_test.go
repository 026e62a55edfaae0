// Persona Engine - Privacy-Preserving Persona Intelligence & Targeting
// Copyright 2026 Vitrine Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vitrine-labs/persona-engine

package persona

import (
	"testing"

	"github.com/vitrine-labs/persona-engine/internal/models"
)

func TestVectorizePreferences(t *testing.T) {
	profile := VectorizePreferences(models.Preferences{
		AdTypes:        []string{"Vídeos", "Social Media"},
		ContentFormats: []string{"Artigos", "Lives"},
		ShoppingHabits: []string{"Pesquisa preços", "Qualidade premium"},
	})

	wantAds := map[string]float64{
		"visual_ads": 1.0, "social_ads": 1.0, "native_ads": 0.0, "video_ads": 1.0,
	}
	for key, want := range wantAds {
		if got := profile.AdPreferences[key]; got != want {
			t.Errorf("ad_preferences[%s] = %f, want %f", key, got, want)
		}
	}

	wantContent := map[string]float64{
		"text_content": 1.0, "video_content": 0.0, "audio_content": 0.0, "interactive_content": 1.0,
	}
	for key, want := range wantContent {
		if got := profile.ContentPreferences[key]; got != want {
			t.Errorf("content_preferences[%s] = %f, want %f", key, got, want)
		}
	}

	wantShopping := map[string]float64{
		"impulse_buyer": 0.0, "price_conscious": 1.0, "brand_loyal": 0.0,
		"quality_focused": 1.0, "eco_conscious": 0.0,
	}
	for key, want := range wantShopping {
		if got := profile.ShoppingBehavior[key]; got != want {
			t.Errorf("shopping_behavior[%s] = %f, want %f", key, got, want)
		}
	}

	if profile.PreferenceStrength != 7.0 {
		t.Errorf("expected strength 7.0, got %f", profile.PreferenceStrength)
	}
	if !profile.HasStrongPreferences {
		t.Error("strength above 5 should mark strong preferences")
	}
}

func TestVectorizePreferencesEmpty(t *testing.T) {
	profile := VectorizePreferences(models.Preferences{})

	if profile.PreferenceStrength != 0 {
		t.Errorf("expected zero strength, got %f", profile.PreferenceStrength)
	}
	if profile.HasStrongPreferences {
		t.Error("empty preferences must not be strong")
	}
	// Fixed key sets are always present.
	if len(profile.AdPreferences) != 4 || len(profile.ContentPreferences) != 4 || len(profile.ShoppingBehavior) != 5 {
		t.Errorf("fixed key sets missing: ads=%d content=%d shopping=%d",
			len(profile.AdPreferences), len(profile.ContentPreferences), len(profile.ShoppingBehavior))
	}
}

func TestStrengthThresholdIsExclusive(t *testing.T) {
	// Exactly 5.0 must not count as strong.
	profile := VectorizePreferences(models.Preferences{
		AdTypes:        []string{"Vídeos", "Social Media", "Native Ads"}, // visual+social+native+video = 4
		ShoppingHabits: []string{"Compra por impulso"},                   // impulse = 1
	})

	if profile.PreferenceStrength != 5.0 {
		t.Fatalf("expected strength 5.0, got %f", profile.PreferenceStrength)
	}
	if profile.HasStrongPreferences {
		t.Error("strength of exactly 5 should not be strong")
	}
}
