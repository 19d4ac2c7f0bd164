package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"boostapi/internal/interfaces"
	"boostapi/internal/middleware"
	"boostapi/internal/models"
	"boostapi/internal/services"
)

type AdminBoostHandler struct {
	svc        *services.BoostService
	repo       interfaces.BoostRequestRepository
	reconciler *services.Reconciler
	validator  *validator.Validate
}

func NewAdminBoostHandler(svc *services.BoostService, repo interfaces.BoostRequestRepository, reconciler *services.Reconciler) *AdminBoostHandler {
	return &AdminBoostHandler{
		svc:        svc,
		repo:       repo,
		reconciler: reconciler,
		validator:  validator.New(),
	}
}

// ListBoosts handles GET /api/v1/admin/boosts
// @Tags Admin
// @Summary List boost requests for moderation
// @Security BearerAuth
// @Produce json
// @Param status query string false "Filter by status"
// @Param seller_id query string false "Filter by seller"
// @Param page query int false "Page (1-based)"
// @Param limit query int false "Page size"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/admin/boosts [get]
func (h *AdminBoostHandler) ListBoosts(w http.ResponseWriter, r *http.Request) {
	if _, err := h.reconciler.Sweep(r.Context(), time.Now().UTC()); err != nil {
		log.Printf("opportunistic sweep failed: %v", err)
	}

	page, limit := parsePagination(r)
	filter := interfaces.BoostRequestFilter{
		SellerID: r.URL.Query().Get("seller_id"),
		Status:   r.URL.Query().Get("status"),
		Limit:    limit,
		Offset:   (page - 1) * limit,
	}

	requests, err := h.repo.List(r.Context(), filter)
	if err != nil {
		writeJSONErrorResponse(w, http.StatusInternalServerError, "list_failed", "Failed to list boost requests")
		return
	}
	if requests == nil {
		requests = []*models.BoostRequest{}
	}

	total, err := h.repo.Count(r.Context(), filter)
	if err != nil {
		writeJSONErrorResponse(w, http.StatusInternalServerError, "list_failed", "Failed to count boost requests")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"requests": requests,
		"page":     page,
		"limit":    limit,
		"total":    total,
	})
}

// Summary handles GET /api/v1/admin/boosts/summary
// @Tags Admin
// @Summary Dashboard counts and revenue
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.BoostSummary
// @Router /api/v1/admin/boosts/summary [get]
func (h *AdminBoostHandler) Summary(w http.ResponseWriter, r *http.Request) {
	if _, err := h.reconciler.Sweep(r.Context(), time.Now().UTC()); err != nil {
		log.Printf("opportunistic sweep failed: %v", err)
	}

	summary, err := h.repo.Summary(r.Context())
	if err != nil {
		writeJSONErrorResponse(w, http.StatusInternalServerError, "summary_failed", "Failed to compute summary")
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// TransitionBoost handles PATCH /api/v1/admin/boosts/{id}/status
// @Tags Admin
// @Summary Approve, reject, force-expire or re-activate a boost request
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Boost request id"
// @Param request body models.TransitionBoostRequest true "Target status and window"
// @Success 200 {object} models.BoostRequest
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{}
// @Router /api/v1/admin/boosts/{id}/status [patch]
func (h *AdminBoostHandler) TransitionBoost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", "id must be a valid UUID")
		return
	}

	var req models.TransitionBoostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	request, err := h.svc.Transition(r.Context(), id, middleware.UserID(r), &req, time.Now().UTC())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, request)
}

// TriggerSweep handles POST /api/v1/admin/boosts/sweep
// @Tags Admin
// @Summary Run the expiry reconciliation sweep now
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/admin/boosts/sweep [post]
func (h *AdminBoostHandler) TriggerSweep(w http.ResponseWriter, r *http.Request) {
	expired, err := h.reconciler.Sweep(r.Context(), time.Now().UTC())
	if err != nil {
		writeJSONErrorResponse(w, http.StatusInternalServerError, "sweep_failed", "Sweep failed: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"expired_count": expired})
}
