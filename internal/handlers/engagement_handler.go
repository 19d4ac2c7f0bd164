package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"boostapi/internal/interfaces"
	"boostapi/internal/metrics"
	"boostapi/internal/services"
)

// maxImpressionBatch caps how many request ids one impression call may
// carry after deduplication.
const maxImpressionBatch = 100

type EngagementHandler struct {
	repo     interfaces.BoostRequestRepository
	resolver *services.PriorityResolver
}

func NewEngagementHandler(repo interfaces.BoostRequestRepository, resolver *services.PriorityResolver) *EngagementHandler {
	return &EngagementHandler{repo: repo, resolver: resolver}
}

type trackImpressionsRequest struct {
	RequestIDs []string `json:"request_ids"`
}

// TrackImpressions handles POST /api/v1/boosts/impressions
// @Tags Engagement
// @Summary Record one impression for each currently-active request id
// @Accept json
// @Produce json
// @Param request body trackImpressionsRequest true "Request ids"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/boosts/impressions [post]
func (h *EngagementHandler) TrackImpressions(w http.ResponseWriter, r *http.Request) {
	var req trackImpressionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	ids := uniqueValidUUIDs(req.RequestIDs)
	if len(ids) == 0 {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", "request_ids must contain at least one valid id")
		return
	}
	if len(ids) > maxImpressionBatch {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", "too many request ids in one batch")
		return
	}

	// Ids that don't resolve to an active, in-window request are silently
	// skipped; only the matched count comes back.
	tracked, err := h.repo.IncrementImpressions(r.Context(), ids, time.Now().UTC())
	if err != nil {
		writeJSONErrorResponse(w, http.StatusInternalServerError, "tracking_failed", "Failed to track impressions")
		return
	}

	metrics.ImpressionsTrackedTotal.Add(float64(tracked))
	writeJSON(w, http.StatusOK, map[string]any{"tracked_count": tracked})
}

// TrackClick handles POST /api/v1/boosts/{id}/click
// @Tags Engagement
// @Summary Record a click on an active boost
// @Produce json
// @Param id path string true "Boost request id"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/boosts/{id}/click [post]
func (h *EngagementHandler) TrackClick(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", "id must be a valid UUID")
		return
	}

	impressions, clicks, err := h.repo.IncrementClicks(r.Context(), id, time.Now().UTC())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSONErrorResponse(w, http.StatusNotFound, "not_found", "no active boost request with this id")
			return
		}
		writeJSONErrorResponse(w, http.StatusInternalServerError, "tracking_failed", "Failed to track click")
		return
	}

	metrics.ClicksTrackedTotal.Inc()
	writeJSON(w, http.StatusOK, map[string]any{
		"impressions": impressions,
		"clicks":      clicks,
	})
}

type resolvePrioritiesRequest struct {
	ProductIDs []string `json:"product_ids"`
	SellerIDs  []string `json:"seller_ids"`
	ViewerCity string   `json:"viewer_city,omitempty"`
}

// ResolvePriorities handles POST /api/v1/boosts/resolve
// @Tags Engagement
// @Summary Compute the winning boost per product and per shop slot
// @Accept json
// @Produce json
// @Param request body resolvePrioritiesRequest true "Candidates"
// @Success 200 {object} services.PriorityResolution
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/boosts/resolve [post]
func (h *EngagementHandler) ResolvePriorities(w http.ResponseWriter, r *http.Request) {
	var req resolvePrioritiesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	productIDs := uniqueValidUUIDs(req.ProductIDs)
	sellerIDs := uniqueValidUUIDs(req.SellerIDs)
	if len(productIDs) == 0 && len(sellerIDs) == 0 {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", "at least one product or seller id is required")
		return
	}

	resolution, err := h.resolver.Resolve(r.Context(), productIDs, sellerIDs, req.ViewerCity, time.Now().UTC())
	if err != nil {
		writeJSONErrorResponse(w, http.StatusInternalServerError, "resolution_failed", "Failed to resolve priorities")
		return
	}

	writeJSON(w, http.StatusOK, resolution)
}

func uniqueValidUUIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	var out []string
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
