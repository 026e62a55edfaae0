// Persona Engine - Privacy-Preserving Persona Intelligence & Targeting
// Copyright 2026 Vitrine Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vitrine-labs/persona-engine

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vitrine-labs/persona-engine/internal/catalog"
	"github.com/vitrine-labs/persona-engine/internal/match"
	"github.com/vitrine-labs/persona-engine/internal/models"
	"github.com/vitrine-labs/persona-engine/internal/persona"
	"github.com/vitrine-labs/persona-engine/internal/reference"
	"github.com/vitrine-labs/persona-engine/internal/validation"
)

// handleRecommendations returns persona-ranked product recommendations for
// an address. Callers without a stored persona get an unranked default list.
func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")

	products, err := s.catalog.ListProducts()
	if err != nil {
		errorResponse(w, http.StatusInternalServerError, models.CodeInternal,
			"failed to list products", err)
		return
	}

	pp, cached, found, err := s.personaForAddress(r, address)
	if err != nil {
		s.storageError(w, err)
		return
	}
	if !found {
		respondSuccess(w, http.StatusOK,
			match.DefaultRecommendations(products, match.DefaultRecommendationLimit), false)
		return
	}

	recommendations := match.RecommendProducts(products, pp, match.DefaultRecommendationLimit)
	respondSuccess(w, http.StatusOK, recommendations, cached)
}

// handleAvailableCampaigns returns campaigns the address's persona is
// eligible for. Callers without a persona get a short generic list.
func (s *Server) handleAvailableCampaigns(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")

	campaigns, err := s.catalog.ListActiveCampaigns()
	if err != nil {
		errorResponse(w, http.StatusInternalServerError, models.CodeInternal,
			"failed to list campaigns", err)
		return
	}

	pp, cached, found, err := s.personaForAddress(r, address)
	if err != nil {
		s.storageError(w, err)
		return
	}
	if !found {
		respondSuccess(w, http.StatusOK, match.DefaultCampaignOffers(campaigns, 2), false)
		return
	}

	offers := match.MatchCampaigns(campaigns, pp, match.DefaultCampaignLimit)
	respondSuccess(w, http.StatusOK, offers, cached)
}

// personaForAddress loads the newest stored persona for an owner address.
// found is false when the address has never stored a persona.
func (s *Server) personaForAddress(r *http.Request, address string) (pp *persona.ProcessedPersona, cached, found bool, err error) {
	ref, err := s.refs.LatestByOwner(address)
	if errors.Is(err, reference.ErrNotFound) {
		return nil, false, false, nil
	}
	if err != nil {
		return nil, false, false, err
	}

	pp, cached, err = s.fetchPersona(r, ref.FID)
	if err != nil {
		return nil, false, false, err
	}
	return pp, cached, true, nil
}

// handleCreateCampaign registers an advertising campaign.
func (s *Server) handleCreateCampaign(w http.ResponseWriter, r *http.Request) {
	var req models.CampaignRequest
	if err := decodeJSON(r, &req); err != nil {
		errorResponse(w, http.StatusBadRequest, models.CodeValidation, "malformed request body", err)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondError(w, http.StatusBadRequest, verr.ToAPIError(), verr)
		return
	}

	created, err := s.catalog.AddCampaign(catalog.Campaign{
		Title:          req.Title,
		Description:    req.Description,
		Budget:         req.Budget,
		CPC:            req.CPC,
		TargetSegments: req.TargetSegments,
	})
	if err != nil {
		errorResponse(w, http.StatusInternalServerError, models.CodeInternal,
			"failed to create campaign", err)
		return
	}

	respondSuccess(w, http.StatusCreated, map[string]interface{}{
		"campaign_id": created.ID,
		"status":      created.Status,
	}, false)
}

// handleCreateProduct registers a marketplace product.
func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req models.ProductRequest
	if err := decodeJSON(r, &req); err != nil {
		errorResponse(w, http.StatusBadRequest, models.CodeValidation, "malformed request body", err)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondError(w, http.StatusBadRequest, verr.ToAPIError(), verr)
		return
	}

	created, err := s.catalog.AddProduct(catalog.Product{
		Name:           req.Name,
		Description:    req.Description,
		Price:          req.Price,
		SellerAddress:  req.SellerAddress,
		Category:       req.Category,
		ImageURL:       req.ImageURL,
		TargetSegments: req.TargetSegments,
	})
	if err != nil {
		errorResponse(w, http.StatusInternalServerError, models.CodeInternal,
			"failed to create product", err)
		return
	}

	respondSuccess(w, http.StatusCreated, map[string]interface{}{
		"product_id": created.ID,
	}, false)
}
