package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"boostapi/internal/services"
)

type PricingHandler struct {
	svc        *services.BoostService
	reconciler *services.Reconciler
}

func NewPricingHandler(svc *services.BoostService, reconciler *services.Reconciler) *PricingHandler {
	return &PricingHandler{svc: svc, reconciler: reconciler}
}

// PreviewPrice handles GET /api/v1/boosts/pricing/preview
// @Tags Pricing
// @Summary Quote a boost without submitting it
// @Produce json
// @Param boost_type query string true "Boost type"
// @Param city query string false "City for local boosts or city-specific pricing"
// @Param duration query int true "Duration in days"
// @Param product_count query int false "Number of products"
// @Success 200 {object} models.PricePreview
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/boosts/pricing/preview [get]
func (h *PricingHandler) PreviewPrice(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	if _, err := h.reconciler.Sweep(r.Context(), now); err != nil {
		log.Printf("opportunistic sweep failed: %v", err)
	}

	q := r.URL.Query()
	duration, _ := strconv.Atoi(q.Get("duration"))
	productCount, _ := strconv.Atoi(q.Get("product_count"))
	if productCount < 1 {
		productCount = 1
	}

	preview, err := h.svc.PreviewPrice(r.Context(), q.Get("boost_type"), q.Get("city"), duration, productCount, now)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, preview)
}
