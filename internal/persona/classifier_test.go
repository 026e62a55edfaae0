// Persona Engine - Privacy-Preserving Persona Intelligence & Targeting
// Copyright 2026 Vitrine Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vitrine-labs/persona-engine

package persona

import "testing"

func TestCategorizeInterestsNormalizedRanking(t *testing.T) {
	profile := CategorizeInterests([]string{"tecnologia", "cripto"})

	// Both interests score 3 raw, but normalization by keyword count makes
	// finance win: 3/5 = 0.6 over technology's 3/7.
	if profile.PrimaryCategory != "finance" {
		t.Errorf("expected primary finance, got %q", profile.PrimaryCategory)
	}
	if profile.Scores["technology"] <= 0 {
		t.Errorf("expected positive technology score, got %f", profile.Scores["technology"])
	}
	if profile.Scores["finance"] <= profile.Scores["technology"] {
		t.Errorf("expected finance %f to outrank technology %f",
			profile.Scores["finance"], profile.Scores["technology"])
	}
}

func TestCategorizeInterestsEmpty(t *testing.T) {
	profile := CategorizeInterests(nil)

	if profile.PrimaryCategory != "general" {
		t.Errorf("expected general fallback, got %q", profile.PrimaryCategory)
	}
	if len(profile.Categories) != 0 {
		t.Errorf("expected no categories, got %v", profile.Categories)
	}
	if profile.TotalInterests != 0 {
		t.Errorf("expected zero total interests, got %d", profile.TotalInterests)
	}
}

func TestCategorizeInterestsExactMatchBoost(t *testing.T) {
	// An exact interest match scores keyword hit (1) + exact bonus (2) = 3,
	// plus 1 because "ai" appears as a substring of "blockchain", all
	// normalized by the 7 technology keywords.
	profile := CategorizeInterests([]string{"blockchain"})

	want := 4.0 / 7.0
	if got := profile.Scores["technology"]; got != want {
		t.Errorf("expected technology score %f, got %f", want, got)
	}
}

func TestCategorizeInterestsTopFiveCap(t *testing.T) {
	profile := CategorizeInterests([]string{
		"tecnologia", "futebol", "cinema", "moda", "receitas", "viagem", "saúde",
	})

	if len(profile.Categories) != 5 {
		t.Errorf("expected top-5 cap, got %d categories", len(profile.Categories))
	}
	// All seven matched categories keep their scores even when ranked out.
	if len(profile.Scores) != 7 {
		t.Errorf("expected 7 scored categories, got %d", len(profile.Scores))
	}
}

func TestDiversityScore(t *testing.T) {
	tests := []struct {
		name      string
		interests []string
		want      float64
	}{
		{"all distinct", []string{"a", "b", "c"}, 1.0},
		{"one duplicate", []string{"a", "a", "b", "c"}, 0.75},
		{"all same", []string{"a", "a"}, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := CategorizeInterests(tt.interests)
			if profile.DiversityScore != tt.want {
				t.Errorf("expected diversity %f, got %f", tt.want, profile.DiversityScore)
			}
			if profile.DiversityScore < 0 || profile.DiversityScore > 1 {
				t.Errorf("diversity out of [0,1]: %f", profile.DiversityScore)
			}
		})
	}
}

func TestRankingIsDeterministicOnTies(t *testing.T) {
	// "fitness" hits sports and health keywords with equal normalized impact
	// only when scores tie; taxonomy order must break the tie the same way
	// on every run.
	first := CategorizeInterests([]string{"fitness", "exercícios"})
	for i := 0; i < 20; i++ {
		again := CategorizeInterests([]string{"fitness", "exercícios"})
		if again.PrimaryCategory != first.PrimaryCategory {
			t.Fatalf("primary category unstable: %q vs %q", first.PrimaryCategory, again.PrimaryCategory)
		}
		for j, cat := range again.Categories {
			if first.Categories[j] != cat {
				t.Fatalf("ranking unstable at %d: %v vs %v", j, first.Categories, again.Categories)
			}
		}
	}
}
