package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"boostapi/internal/interfaces"
	"boostapi/internal/middleware"
	"boostapi/internal/models"
)

type PricingRuleHandler struct {
	repo      interfaces.PricingRuleRepository
	validator *validator.Validate
}

func NewPricingRuleHandler(repo interfaces.PricingRuleRepository) *PricingRuleHandler {
	return &PricingRuleHandler{
		repo:      repo,
		validator: validator.New(),
	}
}

// CreateRule handles POST /api/v1/admin/pricing-rules
// @Tags Pricing
// @Summary Create a pricing rule
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.CreatePricingRuleRequest true "Rule"
// @Success 201 {object} models.PricingRule
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/admin/pricing-rules [post]
func (h *PricingRuleHandler) CreateRule(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePricingRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	rule := &models.PricingRule{
		BoostType:  models.BoostType(req.BoostType),
		City:       req.City,
		BasePrice:  req.BasePrice,
		PriceType:  models.PriceType(req.PriceType),
		Multiplier: req.Multiplier,
		IsActive:   true,
	}

	if err := h.repo.Create(r.Context(), rule); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			writeJSONErrorResponse(w, http.StatusConflict, "duplicate_rule", "A rule for this boost type and city already exists")
			return
		}
		writeJSONErrorResponse(w, http.StatusInternalServerError, "create_rule_failed", "Failed to create pricing rule")
		return
	}

	writeJSON(w, http.StatusCreated, rule)
}

// ListRules handles GET /api/v1/admin/pricing-rules
// @Tags Pricing
// @Summary List pricing rules
// @Security BearerAuth
// @Produce json
// @Param boost_type query string false "Filter by boost type"
// @Param city query string false "Filter by city"
// @Param include_inactive query bool false "Include superseded/disabled rules"
// @Success 200 {array} models.PricingRule
// @Router /api/v1/admin/pricing-rules [get]
func (h *PricingRuleHandler) ListRules(w http.ResponseWriter, r *http.Request) {
	filter := interfaces.PricingRuleFilter{
		BoostType:       r.URL.Query().Get("boost_type"),
		City:            r.URL.Query().Get("city"),
		IncludeInactive: r.URL.Query().Get("include_inactive") == "true",
	}

	rules, err := h.repo.List(r.Context(), filter)
	if err != nil {
		writeJSONErrorResponse(w, http.StatusInternalServerError, "list_failed", "Failed to list pricing rules")
		return
	}
	if rules == nil {
		rules = []*models.PricingRule{}
	}

	writeJSON(w, http.StatusOK, rules)
}

// GetRule handles GET /api/v1/admin/pricing-rules/{id}
func (h *PricingRuleHandler) GetRule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", "id must be a valid UUID")
		return
	}

	rule, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSONErrorResponse(w, http.StatusNotFound, "not_found", "pricing rule not found")
			return
		}
		writeJSONErrorResponse(w, http.StatusInternalServerError, "get_rule_failed", "Failed to fetch pricing rule")
		return
	}

	writeJSON(w, http.StatusOK, rule)
}

// UpdateRule handles PUT /api/v1/admin/pricing-rules/{id}. Rules are never
// deleted: edits supersede, the old values land in the history log.
// @Tags Pricing
// @Summary Supersede a pricing rule's values
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Rule id"
// @Param request body models.UpdatePricingRuleRequest true "New values"
// @Success 200 {object} models.PricingRule
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/admin/pricing-rules/{id} [put]
func (h *PricingRuleHandler) UpdateRule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", "id must be a valid UUID")
		return
	}

	var req models.UpdatePricingRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	rule, err := h.repo.Update(r.Context(), id, &req, middleware.UserID(r))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSONErrorResponse(w, http.StatusNotFound, "not_found", "pricing rule not found")
			return
		}
		writeJSONErrorResponse(w, http.StatusInternalServerError, "update_rule_failed", "Failed to update pricing rule")
		return
	}

	writeJSON(w, http.StatusOK, rule)
}
