// Persona Engine - Privacy-Preserving Persona Intelligence & Targeting
// Copyright 2026 Vitrine Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vitrine-labs/persona-engine

package persona

import (
	"math"
	"strings"

	"github.com/vitrine-labs/persona-engine/internal/models"
)

// AnalyzeBrowsing derives a BrowseProfile from raw browsing data.
//
// Category preferences are each category's share of total recorded hours.
// Engagement buckets the total recorded hours: >6 heavy, >3 medium,
// >1 light, else minimal.
func AnalyzeBrowsing(b models.BrowseData) BrowseProfile {
	totalTime := 0.0
	for _, hours := range b.TimeSpent {
		totalTime += hours
	}
	// Guard the share division when no time was recorded.
	shareBase := totalTime
	if len(b.TimeSpent) == 0 || shareBase == 0 {
		shareBase = 1
	}

	categoryPreferences := make(map[string]float64, len(b.TimeSpent))
	topCategory := ""
	topShare := -1.0
	for category, hours := range b.TimeSpent {
		share := hours / shareBase
		categoryPreferences[category] = share
		// Lexicographic tie-break keeps map iteration order out of the result.
		if share > topShare || (share == topShare && category < topCategory) {
			topCategory = category
			topShare = share
		}
	}

	hasMobile := false
	for _, device := range b.Devices {
		if strings.EqualFold(device, "mobile") {
			hasMobile = true
			break
		}
	}

	primaryDevice := "desktop"
	mobileUsage := 0.0
	if hasMobile {
		primaryDevice = "mobile"
		mobileUsage = 1.0
	}

	distinctCategories := make(map[string]struct{}, len(b.Categories))
	for _, category := range b.Categories {
		distinctCategories[category] = struct{}{}
	}

	hoursPerDay := 0.0
	if totalTime > 0 {
		hoursPerDay = math.Round(totalTime/24*100) / 100
	}

	return BrowseProfile{
		CategoryPreferences: categoryPreferences,
		DeviceProfile: DeviceProfile{
			PrimaryDevice: primaryDevice,
			IsMultiDevice: len(b.Devices) > 1,
			DeviceCount:   len(b.Devices),
			MobileUsage:   mobileUsage,
		},
		EngagementLevel:   engagementLevel(totalTime),
		HoursPerDay:       hoursPerDay,
		CategoryDiversity: len(distinctCategories),
		TopCategory:       topCategory,
	}
}

// engagementLevel buckets total recorded browsing hours.
func engagementLevel(totalHours float64) string {
	switch {
	case totalHours > 6:
		return "heavy"
	case totalHours > 3:
		return "medium"
	case totalHours > 1:
		return "light"
	default:
		return "minimal"
	}
}
