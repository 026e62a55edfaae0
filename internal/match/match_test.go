// Persona Engine - Privacy-Preserving Persona Intelligence & Targeting
// Copyright 2026 Vitrine Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vitrine-labs/persona-engine

package match

import (
	"math"
	"testing"

	"github.com/vitrine-labs/persona-engine/internal/catalog"
	"github.com/vitrine-labs/persona-engine/internal/persona"
)

func techPersona() *persona.ProcessedPersona {
	return &persona.ProcessedPersona{
		InterestProfile: persona.InterestProfile{
			Categories: []string{"technology", "finance"},
		},
		AudienceSegments: persona.AudienceSegments{
			Segments: []string{"tech_enthusiast", "mobile_user"},
		},
		TargetingScores: map[string]float64{
			"technology": 0.9, "ecommerce": 0.4, "entertainment": 0.1,
			"fashion": 0.1, "health": 0.1, "finance": 0.5,
		},
	}
}

func TestScoreProductCategoryBase(t *testing.T) {
	pp := techPersona()

	tests := []struct {
		name     string
		category string
		want     float64
	}{
		{"tecnologia uses technology vertical", "Tecnologia", 0.9},
		{"fashion vertical", "Fashion", 0.1},
		{"home maps to health", "Casa e Jardim", 0.1},
		{"eletronicos map to technology", "Eletronicos", 0.9},
		{"unknown falls to ecommerce", "Livros", 0.4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreProduct(catalog.Product{Category: tt.category}, pp)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ScoreProduct(%s) = %f, want %f", tt.category, got, tt.want)
			}
		})
	}
}

func TestScoreProductSegmentBoost(t *testing.T) {
	pp := techPersona()
	p := catalog.Product{
		Category:       "Livros",
		TargetSegments: []string{"tech_enthusiast", "premium_consumer"},
	}

	// ecommerce base 0.4 + one matched segment 0.2.
	got := ScoreProduct(p, pp)
	if math.Abs(got-0.6) > 1e-9 {
		t.Errorf("expected 0.6, got %f", got)
	}
}

func TestScoreProductBounds(t *testing.T) {
	pp := techPersona()

	// Stack every boost: must clamp at 1.0.
	p := catalog.Product{
		Category:       "Tecnologia",
		TargetSegments: []string{"tech_enthusiast", "mobile_user"},
	}
	if got := ScoreProduct(p, pp); got != 1.0 {
		t.Errorf("expected clamp to 1.0, got %f", got)
	}

	// No signal at all: floored at 0.1.
	empty := &persona.ProcessedPersona{
		TargetingScores: map[string]float64{"fashion": 0.0},
	}
	if got := ScoreProduct(catalog.Product{Category: "Moda"}, empty); got != 0.1 {
		t.Errorf("expected floor 0.1, got %f", got)
	}
}

func TestRecommendProductsOrderAndLimit(t *testing.T) {
	pp := techPersona()
	products := []catalog.Product{
		{ID: "low", Category: "Moda"},
		{ID: "high", Category: "Tecnologia", TargetSegments: []string{"tech_enthusiast"}},
		{ID: "mid", Category: "Livros"},
	}

	recs := RecommendProducts(products, pp, 2)
	if len(recs) != 2 {
		t.Fatalf("expected limit of 2, got %d", len(recs))
	}
	if recs[0].ID != "high" {
		t.Errorf("expected best match first, got %s", recs[0].ID)
	}
	if !recs[0].Sponsored {
		t.Error("match above 0.7 should be sponsored")
	}
	if recs[1].Sponsored {
		t.Error("low matches must not be sponsored")
	}
	if recs[0].PersonalityMatch != 100 {
		t.Errorf("expected percentage score 100, got %d", recs[0].PersonalityMatch)
	}
}

func TestDefaultRecommendations(t *testing.T) {
	products := make([]catalog.Product, 8)
	for i := range products {
		products[i].ID = "p"
	}

	recs := DefaultRecommendations(products, 6)
	if len(recs) != 6 {
		t.Fatalf("expected 6 defaults, got %d", len(recs))
	}
	for _, r := range recs {
		if r.PersonalityMatch != 50 || r.Sponsored {
			t.Errorf("defaults should be 50%% unsponsored, got %+v", r)
		}
	}
}

func TestScoreCampaignSegmentHitOnly(t *testing.T) {
	pp := techPersona()
	c := catalog.Campaign{TargetSegments: []string{"mobile_user"}}

	// Segment hit 0.4; neither "mobile" nor "user" overlaps a vertical name.
	got := ScoreCampaign(c, pp)
	if math.Abs(got-0.4) > 1e-9 {
		t.Errorf("expected 0.4, got %f", got)
	}
}

func TestScoreCampaignTechEnthusiastExample(t *testing.T) {
	// A persona carrying tech_enthusiast with technology=0.9 scores the
	// segment hit (0.4) plus the tech/technology name overlap (0.9*0.6),
	// at least 0.94, well past the 0.2 eligibility threshold.
	pp := techPersona()
	c := catalog.Campaign{TargetSegments: []string{"tech_enthusiast"}}

	got := ScoreCampaign(c, pp)
	if got < 0.94 {
		t.Errorf("expected score >= 0.94, got %f", got)
	}

	offers := MatchCampaigns([]catalog.Campaign{c}, pp, 5)
	if len(offers) != 1 {
		t.Fatal("campaign should clear the eligibility threshold")
	}
	// 0.94 * 5000 reach, allowing for float truncation.
	if offers[0].EstimatedReach < 4699 || offers[0].EstimatedReach > 4700 {
		t.Errorf("expected reach near 4700, got %d", offers[0].EstimatedReach)
	}
}

func TestMatchCampaignsThresholdAndOrdering(t *testing.T) {
	pp := techPersona()
	campaigns := []catalog.Campaign{
		{ID: "ineligible", TargetSegments: []string{"premium_consumer"}},
		{ID: "weak", TargetSegments: []string{"mobile_user"}, Status: "active"},
		{ID: "strong", TargetSegments: []string{"tech_enthusiast"}, Status: "active"},
	}

	offers := MatchCampaigns(campaigns, pp, 5)
	if len(offers) != 2 {
		t.Fatalf("expected 2 eligible campaigns, got %+v", offers)
	}
	if offers[0].ID != "strong" || offers[1].ID != "weak" {
		t.Errorf("expected descending match order, got %s then %s", offers[0].ID, offers[1].ID)
	}
	if offers[1].EstimatedReach != 2000 {
		t.Errorf("0.4 score should reach 2000, got %d", offers[1].EstimatedReach)
	}
	if offers[0].TargetAudience != "tech_enthusiast" {
		t.Errorf("expected joined target audience, got %q", offers[0].TargetAudience)
	}
}

func TestMatchCampaignsReachFloor(t *testing.T) {
	// Vertical overlap only: 0.5*0.6 = 0.3 clears the threshold and the
	// reach floor of 1000 applies after truncation.
	ppWeak := &persona.ProcessedPersona{
		AudienceSegments: persona.AudienceSegments{Segments: []string{}},
		TargetingScores:  map[string]float64{"finance": 0.5},
	}
	c := catalog.Campaign{TargetSegments: []string{"finance"}}

	offers := MatchCampaigns([]catalog.Campaign{c}, ppWeak, 5)
	if len(offers) != 1 {
		t.Fatalf("0.3 should clear the 0.2 threshold, got %d offers", len(offers))
	}
	if offers[0].EstimatedReach < 1499 || offers[0].EstimatedReach > 1500 {
		t.Errorf("expected reach near 1500, got %d", offers[0].EstimatedReach)
	}
}

func TestDefaultCampaignOffersLimitedToTwo(t *testing.T) {
	campaigns := []catalog.Campaign{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	offers := DefaultCampaignOffers(campaigns, 5)
	if len(offers) != 2 {
		t.Fatalf("expected 2 default offers, got %d", len(offers))
	}
	for _, o := range offers {
		if o.TargetAudience != "General" || o.EstimatedReach != 1000 {
			t.Errorf("unexpected default offer: %+v", o)
		}
	}
}
