// Persona Engine - Privacy-Preserving Persona Intelligence & Targeting
// Copyright 2026 Vitrine Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vitrine-labs/persona-engine

package models

// Demographics carries the raw demographic fields submitted by a user.
// These never leave the engine unanonymized.
type Demographics struct {
	AgeRange string `json:"age_range" validate:"required"`
	Location string `json:"location" validate:"required"`
	Language string `json:"language" validate:"required"`
}

// BrowseData carries browsing behavior collected by the extension.
// TimeSpent values are hours per category over the reporting period.
type BrowseData struct {
	Categories []string           `json:"categories"`
	TimeSpent  map[string]float64 `json:"time_spent" validate:"dive,gte=0"`
	Devices    []string           `json:"devices"`
}

// Preferences carries declared ad, content and shopping preferences as
// free-text tags.
type Preferences struct {
	AdTypes        []string `json:"ad_types"`
	ContentFormats []string `json:"content_formats"`
	ShoppingHabits []string `json:"shopping_habits"`
}

// PersonaData is the full raw persona submission. Immutable once submitted;
// owned by the caller.
type PersonaData struct {
	Interests    []string     `json:"interests" validate:"required"`
	Demographics Demographics `json:"demographics" validate:"required"`
	Browse       BrowseData   `json:"browse"`
	Preferences  Preferences  `json:"preferences"`
}

// PersonaRequest is the create/update persona request body.
type PersonaRequest struct {
	UserAddress string      `json:"user_address" validate:"required,eth_addr"`
	PersonaData PersonaData `json:"persona_data" validate:"required"`
}

// PersonaCreateResponse is returned after a successful persona store.
type PersonaCreateResponse struct {
	Hash string `json:"hash"`
	FID  string `json:"fid"`
}

// ProductRequest creates a marketplace product.
type ProductRequest struct {
	Name           string   `json:"name" validate:"required,max=200"`
	Description    string   `json:"description" validate:"required,max=2000"`
	Price          string   `json:"price" validate:"required,numeric"`
	SellerAddress  string   `json:"seller_address" validate:"required,eth_addr"`
	Category       string   `json:"category" validate:"required,max=100"`
	ImageURL       string   `json:"image_url" validate:"omitempty,url"`
	TargetSegments []string `json:"target_segments"`
}

// CampaignRequest creates an advertising campaign.
// Budget and CPC arrive as decimal strings to avoid float drift on money.
type CampaignRequest struct {
	Title          string   `json:"title" validate:"required,max=200"`
	Description    string   `json:"description" validate:"required,max=2000"`
	Budget         string   `json:"budget" validate:"required,numeric"`
	CPC            string   `json:"cpc" validate:"required,numeric"`
	TargetSegments []string `json:"target_segments" validate:"required,min=1"`
}

// Recommendation is a scored product returned to the marketplace UI.
type Recommendation struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	Price            string `json:"price"`
	Seller           string `json:"seller"`
	Category         string `json:"category"`
	ImageURL         string `json:"imageUrl"`
	PersonalityMatch int    `json:"personalityMatch"`
	Sponsored        bool   `json:"sponsored"`
}

// CampaignOffer is a matched campaign returned to a user.
type CampaignOffer struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	Budget         string `json:"budget"`
	CPC            string `json:"cpc"`
	TargetAudience string `json:"targetAudience"`
	Status         string `json:"status"`
	EstimatedReach int    `json:"estimatedReach"`
}

// CacheStats reports metadata-cache introspection data.
type CacheStats struct {
	TotalEntries   int     `json:"total_cache_entries"`
	PersonaEntries int     `json:"persona_entries"`
	TTLHours       float64 `json:"cache_ttl_hours"`
	Gateway        string  `json:"gateway"`
	Territory      string  `json:"territory"`
}

// HealthStatus is the /health response body.
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services"`
	Cache     CacheHealth       `json:"cache_stats"`
}

// CacheHealth summarizes cache occupancy for health reporting.
type CacheHealth struct {
	Entries        int `json:"entries"`
	PersonaEntries int `json:"persona_entries"`
}
