// Persona Engine - Privacy-Preserving Persona Intelligence & Targeting
// Copyright 2026 Vitrine Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vitrine-labs/persona-engine

package persona

import "github.com/vitrine-labs/persona-engine/internal/models"

// Tag groups for preference vectorization. Tags are the literal values the
// extension UI offers, so matching is exact.
var (
	visualAdTags      = []string{"Display Banners", "Vídeos", "Infográficos"}
	socialAdTags      = []string{"Social Media", "Influencer Marketing"}
	interactiveTags   = []string{"Lives", "Stories"}
	priceConsciousTag = []string{"Pesquisa preços", "Promoções"}
)

// strongPreferenceThreshold marks a profile as strongly opinionated when the
// summed membership values exceed it.
const strongPreferenceThreshold = 5.0

// VectorizePreferences maps declared preference tags onto fixed-key vectors
// with 1.0/0.0 membership values.
func VectorizePreferences(p models.Preferences) PreferenceProfile {
	adPreferences := map[string]float64{
		"visual_ads": anyOf(p.AdTypes, visualAdTags),
		"social_ads": anyOf(p.AdTypes, socialAdTags),
		"native_ads": oneOf(p.AdTypes, "Native Ads"),
		"video_ads":  oneOf(p.AdTypes, "Vídeos"),
	}

	contentPreferences := map[string]float64{
		"text_content":        oneOf(p.ContentFormats, "Artigos"),
		"video_content":       oneOf(p.ContentFormats, "Vídeos"),
		"audio_content":       oneOf(p.ContentFormats, "Podcasts"),
		"interactive_content": anyOf(p.ContentFormats, interactiveTags),
	}

	shoppingBehavior := map[string]float64{
		"impulse_buyer":   oneOf(p.ShoppingHabits, "Compra por impulso"),
		"price_conscious": anyOf(p.ShoppingHabits, priceConsciousTag),
		"brand_loyal":     oneOf(p.ShoppingHabits, "Fidelidade a marcas"),
		"quality_focused": oneOf(p.ShoppingHabits, "Qualidade premium"),
		"eco_conscious":   oneOf(p.ShoppingHabits, "Sustentabilidade"),
	}

	strength := sumValues(adPreferences) + sumValues(contentPreferences) + sumValues(shoppingBehavior)

	return PreferenceProfile{
		AdPreferences:        adPreferences,
		ContentPreferences:   contentPreferences,
		ShoppingBehavior:     shoppingBehavior,
		PreferenceStrength:   strength,
		HasStrongPreferences: strength > strongPreferenceThreshold,
	}
}

// oneOf reports tag membership as 1.0/0.0.
func oneOf(tags []string, want string) float64 {
	for _, tag := range tags {
		if tag == want {
			return 1.0
		}
	}
	return 0.0
}

// anyOf reports whether any of wanted appears in tags, as 1.0/0.0.
func anyOf(tags []string, wanted []string) float64 {
	for _, want := range wanted {
		if oneOf(tags, want) == 1.0 {
			return 1.0
		}
	}
	return 0.0
}

func sumValues(m map[string]float64) float64 {
	total := 0.0
	for _, v := range m {
		total += v
	}
	return total
}
