package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"boostapi/internal/interfaces"
	"boostapi/internal/middleware"
	"boostapi/internal/models"
	"boostapi/internal/services"
)

type BoostHandler struct {
	svc        *services.BoostService
	repo       interfaces.BoostRequestRepository
	reconciler *services.Reconciler
	validator  *validator.Validate
}

func NewBoostHandler(svc *services.BoostService, repo interfaces.BoostRequestRepository, reconciler *services.Reconciler) *BoostHandler {
	return &BoostHandler{
		svc:        svc,
		repo:       repo,
		reconciler: reconciler,
		validator:  validator.New(),
	}
}

// lazySweep runs the expiry reconciliation before a read so listings never
// show stale ACTIVE rows. A failed sweep degrades to stale data, never to
// an error on the read path.
func (h *BoostHandler) lazySweep(r *http.Request) {
	if _, err := h.reconciler.Sweep(r.Context(), time.Now().UTC()); err != nil {
		log.Printf("opportunistic sweep failed: %v", err)
	}
}

// SubmitBoost handles POST /api/v1/boosts
// @Tags Boosts
// @Summary Submit a boost request
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.SubmitBoostRequest true "Boost request"
// @Success 201 {object} models.BoostRequest
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/boosts [post]
func (h *BoostHandler) SubmitBoost(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitBoostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	request, err := h.svc.Submit(r.Context(), middleware.UserID(r), &req, time.Now().UTC())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, request)
}

// ListMyBoosts handles GET /api/v1/boosts/mine
// @Tags Boosts
// @Summary List the caller's boost requests
// @Security BearerAuth
// @Produce json
// @Param status query string false "Filter by status"
// @Param page query int false "Page (1-based)"
// @Param limit query int false "Page size"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/boosts/mine [get]
func (h *BoostHandler) ListMyBoosts(w http.ResponseWriter, r *http.Request) {
	h.lazySweep(r)

	page, limit := parsePagination(r)
	filter := interfaces.BoostRequestFilter{
		SellerID: middleware.UserID(r),
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

func parsePagination(r *http.Request) (page, limit int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
