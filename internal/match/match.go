// Persona Engine - Privacy-Preserving Persona Intelligence & Targeting
// Copyright 2026 Vitrine Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vitrine-labs/persona-engine

// Package match scores catalog entries against processed personas for the
// marketplace recommendation and campaign-offer endpoints.
package match

import (
	"sort"
	"strings"

	"github.com/vitrine-labs/persona-engine/internal/catalog"
	"github.com/vitrine-labs/persona-engine/internal/models"
	"github.com/vitrine-labs/persona-engine/internal/persona"
)

const (
	// sponsoredThreshold marks high-match products as sponsored placements.
	sponsoredThreshold = 0.7
	// campaignEligibility is the minimum campaign match score to offer.
	campaignEligibility = 0.2
	// minProductMatch floors every product score.
	minProductMatch = 0.1

	// DefaultRecommendationLimit caps recommendation lists.
	DefaultRecommendationLimit = 6
	// DefaultCampaignLimit caps campaign offer lists.
	DefaultCampaignLimit = 5
)

// ScoreProduct rates how well a product fits a persona, in [0.1, 1.0].
//
// The base score comes from the targeting vertical implied by the product
// category. Each product target segment the persona carries adds 0.2, and
// each persona interest category overlapping the product category adds 0.3.
func ScoreProduct(p catalog.Product, pp *persona.ProcessedPersona) float64 {
	category := strings.ToLower(p.Category)

	vertical := productVertical(category)
	fallback := 0.3
	if vertical == "ecommerce" {
		fallback = 0.4
	}

	score := verticalScore(pp.TargetingScores, vertical, fallback)
	for _, segment := range p.TargetSegments {
		if hasSegment(pp.AudienceSegments.Segments, segment) {
			score += 0.2
		}
	}

	for _, interest := range pp.InterestProfile.Categories {
		lower := strings.ToLower(interest)
		if strings.Contains(category, lower) || strings.Contains(lower, category) {
			score += 0.3
		}
	}

	if score > 1.0 {
		score = 1.0
	}
	if score < minProductMatch {
		score = minProductMatch
	}
	return score
}

// productVertical maps a lowercased product category to a targeting
// vertical. Unrecognized categories fall to the general ecommerce vertical.
func productVertical(category string) string {
	switch {
	case strings.Contains(category, "tech"), strings.Contains(category, "tecnologia"):
		return "technology"
	case strings.Contains(category, "moda"), strings.Contains(category, "fashion"):
		return "fashion"
	case strings.Contains(category, "casa"), strings.Contains(category, "home"):
		return "health"
	case strings.Contains(category, "eletronic"):
		return "technology"
	default:
		return "ecommerce"
	}
}

func verticalScore(scores map[string]float64, vertical string, fallback float64) float64 {
	if score, ok := scores[vertical]; ok {
		return score
	}
	return fallback
}

// RecommendProducts scores and ranks products for a persona, returning up
// to limit recommendations ordered by descending match.
func RecommendProducts(products []catalog.Product, pp *persona.ProcessedPersona, limit int) []models.Recommendation {
	if limit <= 0 {
		limit = DefaultRecommendationLimit
	}

	recommendations := make([]models.Recommendation, 0, len(products))
	for _, p := range products {
		score := ScoreProduct(p, pp)
		recommendations = append(recommendations, models.Recommendation{
			ID:               p.ID,
			Name:             p.Name,
			Description:      p.Description,
			Price:            p.Price,
			Seller:           p.SellerAddress,
			Category:         p.Category,
			ImageURL:         p.ImageURL,
			PersonalityMatch: int(score * 100),
			Sponsored:        score > sponsoredThreshold,
		})
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].PersonalityMatch > recommendations[j].PersonalityMatch
	})
	if len(recommendations) > limit {
		recommendations = recommendations[:limit]
	}
	return recommendations
}

// DefaultRecommendations renders products without persona-based scoring,
// used when the caller has no stored persona.
func DefaultRecommendations(products []catalog.Product, limit int) []models.Recommendation {
	if limit <= 0 {
		limit = DefaultRecommendationLimit
	}
	if len(products) > limit {
		products = products[:limit]
	}

	recommendations := make([]models.Recommendation, 0, len(products))
	for _, p := range products {
		recommendations = append(recommendations, models.Recommendation{
			ID:               p.ID,
			Name:             p.Name,
			Description:      p.Description,
			Price:            p.Price,
			Seller:           p.SellerAddress,
			Category:         p.Category,
			ImageURL:         p.ImageURL,
			PersonalityMatch: 50,
			Sponsored:        false,
		})
	}
	return recommendations
}

// ScoreCampaign rates a campaign against a persona. Unlike product scores
// the result is unbounded above: each target segment the persona carries
// adds 0.4, and every targeting vertical whose name overlaps a target
// segment adds that vertical's score weighted by 0.6.
func ScoreCampaign(c catalog.Campaign, pp *persona.ProcessedPersona) float64 {
	score := 0.0
	for _, segment := range c.TargetSegments {
		if hasSegment(pp.AudienceSegments.Segments, segment) {
			score += 0.4
		}
		segmentLower := strings.ToLower(segment)
		for vertical, value := range pp.TargetingScores {
			if segmentOverlapsVertical(segmentLower, vertical) {
				score += value * 0.6
			}
		}
	}
	return score
}

// MatchCampaigns returns campaign offers the persona is eligible for,
// ordered by descending match score, up to limit entries.
func MatchCampaigns(campaigns []catalog.Campaign, pp *persona.ProcessedPersona, limit int) []models.CampaignOffer {
	if limit <= 0 {
		limit = DefaultCampaignLimit
	}

	type scored struct {
		offer models.CampaignOffer
		score float64
	}

	var matched []scored
	for _, c := range campaigns {
		score := ScoreCampaign(c, pp)
		if score <= campaignEligibility {
			continue
		}
		matched = append(matched, scored{
			offer: models.CampaignOffer{
				ID:             c.ID,
				Title:          c.Title,
				Description:    c.Description,
				Budget:         c.Budget,
				CPC:            c.CPC,
				TargetAudience: strings.Join(c.TargetSegments, ", "),
				Status:         c.Status,
				EstimatedReach: estimatedReach(score),
			},
			score: score,
		})
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].score > matched[j].score
	})
	if len(matched) > limit {
		matched = matched[:limit]
	}

	offers := make([]models.CampaignOffer, len(matched))
	for i, m := range matched {
		offers[i] = m.offer
	}
	return offers
}

// DefaultCampaignOffers renders a limited campaign list for callers without
// a stored persona.
func DefaultCampaignOffers(campaigns []catalog.Campaign, limit int) []models.CampaignOffer {
	if limit <= 0 || limit > 2 {
		limit = 2
	}
	if len(campaigns) > limit {
		campaigns = campaigns[:limit]
	}

	offers := make([]models.CampaignOffer, 0, len(campaigns))
	for _, c := range campaigns {
		offers = append(offers, models.CampaignOffer{
			ID:             c.ID,
			Title:          c.Title,
			Description:    c.Description,
			Budget:         c.Budget,
			CPC:            c.CPC,
			TargetAudience: "General",
			Status:         c.Status,
			EstimatedReach: 1000,
		})
	}
	return offers
}

// segmentOverlapsVertical reports a name overlap between a lowercased
// segment and a targeting vertical. Segment names are compound
// ("tech_enthusiast"), so each underscore-separated token is checked as
// well: "tech" overlaps "technology".
func segmentOverlapsVertical(segment, vertical string) bool {
	if strings.Contains(vertical, segment) || strings.Contains(segment, vertical) {
		return true
	}
	for _, token := range strings.Split(segment, "_") {
		if token == "" {
			continue
		}
		if strings.Contains(vertical, token) || strings.Contains(token, vertical) {
			return true
		}
	}
	return false
}

func estimatedReach(score float64) int {
	reach := int(score * 5000)
	if reach < 1000 {
		return 1000
	}
	return reach
}

func hasSegment(segments []string, want string) bool {
	for _, s := range segments {
		if s == want {
			return true
		}
	}
	return false
}
