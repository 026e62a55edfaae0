// Persona Engine - Privacy-Preserving Persona Intelligence & Targeting
// Copyright 2026 Vitrine Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vitrine-labs/persona-engine

package persona

import (
	"sort"
	"strings"
)

// taxonomyEntry binds a category to its match keywords. Keywords mix
// Portuguese and English because the extension collects free-text interests
// from a Brazilian-first user base.
type taxonomyEntry struct {
	category string
	keywords []string
}

// interestTaxonomy is the fixed category taxonomy, in authoritative order.
// Order matters: it is the tie-break when two categories score equally.
var interestTaxonomy = []taxonomyEntry{
	{"technology", []string{"tecnologia", "tech", "programação", "software", "hardware", "ai", "blockchain"}},
	{"sports", []string{"esportes", "futebol", "basquete", "academia", "fitness", "corrida"}},
	{"entertainment", []string{"música", "cinema", "jogos", "netflix", "streaming", "arte"}},
	{"fashion", []string{"moda", "roupas", "beleza", "estilo", "tendências"}},
	{"food", []string{"gastronomia", "culinária", "receitas", "restaurantes", "comida"}},
	{"travel", []string{"viagem", "turismo", "destinos", "hotéis", "aventura"}},
	{"health", []string{"saúde", "medicina", "bem-estar", "exercícios", "nutrição"}},
	{"finance", []string{"finanças", "investimentos", "economia", "dinheiro", "cripto"}},
	{"education", []string{"educação", "cursos", "aprendizado", "estudo", "livros"}},
	{"lifestyle", []string{"lifestyle", "casa", "decoração", "família", "relacionamentos"}},
}

// maxTopCategories caps the categories slice in an InterestProfile.
const maxTopCategories = 5

// CategorizeInterests classifies free-text interests into the fixed
// taxonomy.
//
// Each category scores +1 per keyword appearing as a substring of the
// joined lowercased interest text, and +2 more per interest that equals the
// keyword exactly (case-insensitive, trimmed). Scores are normalized by the
// category's keyword count; only positive scores are kept.
func CategorizeInterests(interests []string) InterestProfile {
	if len(interests) == 0 {
		return InterestProfile{
			Categories:      []string{},
			Scores:          map[string]float64{},
			PrimaryCategory: "general",
		}
	}

	joined := strings.ToLower(strings.Join(interests, " "))

	scores := make(map[string]float64)
	for _, entry := range interestTaxonomy {
		score := 0
		for _, keyword := range entry.keywords {
			if strings.Contains(joined, keyword) {
				score++
			}
			for _, interest := range interests {
				if strings.EqualFold(keyword, strings.TrimSpace(interest)) {
					score += 2
				}
			}
		}
		if score > 0 {
			scores[entry.category] = float64(score) / float64(len(entry.keywords))
		}
	}

	ranked := rankCategories(scores)
	top := ranked
	if len(top) > maxTopCategories {
		top = top[:maxTopCategories]
	}
	topCopy := make([]string, len(top))
	copy(topCopy, top)

	primary := "general"
	if len(topCopy) > 0 {
		primary = topCopy[0]
	}

	distinct := make(map[string]struct{}, len(interests))
	for _, interest := range interests {
		distinct[interest] = struct{}{}
	}

	return InterestProfile{
		Categories:      topCopy,
		Scores:          scores,
		PrimaryCategory: primary,
		DiversityScore:  float64(len(distinct)) / float64(len(interests)),
		TotalInterests:  len(interests),
	}
}

// rankCategories orders scored categories by descending score, breaking
// ties by taxonomy order so the ranking is deterministic.
func rankCategories(scores map[string]float64) []string {
	ranked := make([]string, 0, len(scores))
	for _, entry := range interestTaxonomy {
		if _, ok := scores[entry.category]; ok {
			ranked = append(ranked, entry.category)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return scores[ranked[i]] > scores[ranked[j]]
	})
	return ranked
}
