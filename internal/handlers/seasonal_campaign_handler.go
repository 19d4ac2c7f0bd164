package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"boostapi/internal/interfaces"
	"boostapi/internal/models"
)

type SeasonalCampaignHandler struct {
	repo      interfaces.SeasonalCampaignRepository
	validator *validator.Validate
}

func NewSeasonalCampaignHandler(repo interfaces.SeasonalCampaignRepository) *SeasonalCampaignHandler {
	return &SeasonalCampaignHandler{
		repo:      repo,
		validator: validator.New(),
	}
}

// CreateCampaign handles POST /api/v1/admin/seasonal-campaigns
// @Tags Seasonal
// @Summary Create a seasonal multiplier campaign
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.CreateSeasonalCampaignRequest true "Campaign"
// @Success 201 {object} models.SeasonalCampaign
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/admin/seasonal-campaigns [post]
func (h *SeasonalCampaignHandler) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSeasonalCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	campaign := &models.SeasonalCampaign{
		Name:       req.Name,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Multiplier: req.Multiplier,
		AppliesTo:  req.AppliesTo,
		IsActive:   true,
	}

	if err := h.repo.Create(r.Context(), campaign); err != nil {
		writeJSONErrorResponse(w, http.StatusInternalServerError, "create_campaign_failed", "Failed to create seasonal campaign")
		return
	}

	writeJSON(w, http.StatusCreated, campaign)
}

// ListCampaigns handles GET /api/v1/admin/seasonal-campaigns
func (h *SeasonalCampaignHandler) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := h.repo.List(r.Context(), r.URL.Query().Get("include_inactive") == "true")
	if err != nil {
		writeJSONErrorResponse(w, http.StatusInternalServerError, "list_failed", "Failed to list seasonal campaigns")
		return
	}
	if campaigns == nil {
		campaigns = []*models.SeasonalCampaign{}
	}

	writeJSON(w, http.StatusOK, campaigns)
}

// GetCampaign handles GET /api/v1/admin/seasonal-campaigns/{id}
func (h *SeasonalCampaignHandler) GetCampaign(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", "id must be a valid UUID")
		return
	}

	campaign, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSONErrorResponse(w, http.StatusNotFound, "not_found", "seasonal campaign not found")
			return
		}
		writeJSONErrorResponse(w, http.StatusInternalServerError, "get_campaign_failed", "Failed to fetch seasonal campaign")
		return
	}

	writeJSON(w, http.StatusOK, campaign)
}

// UpdateCampaign handles PUT /api/v1/admin/seasonal-campaigns/{id}
func (h *SeasonalCampaignHandler) UpdateCampaign(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", "id must be a valid UUID")
		return
	}

	var req models.UpdateSeasonalCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	campaign, err := h.repo.Update(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSONErrorResponse(w, http.StatusNotFound, "not_found", "seasonal campaign not found")
			return
		}
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, campaign)
}
