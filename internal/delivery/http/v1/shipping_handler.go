package v1

import (
	"net/http"
	"time"

	"bottega-backend/internal/domain"
	"bottega-backend/internal/pricing"
	"bottega-backend/internal/usecase"
	"bottega-backend/pkg/cache"
	"bottega-backend/pkg/utils"
)

type ShippingHandler struct {
	cache      cache.CacheService
	shippingUC *usecase.ShippingUsecase
}

func NewShippingHandler(cache cache.CacheService, shippingUC *usecase.ShippingUsecase) *ShippingHandler {
	return &ShippingHandler{cache: cache, shippingUC: shippingUC}
}

// GET /api/v1/shipping/zones
func (h *ShippingHandler) GetZones(w http.ResponseWriter, r *http.Request) {
	cacheKey := "system:shipping:zones"

	if val, found := h.cache.Get(cacheKey); found {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		utils.WriteJSON(w, http.StatusOK, val)
		return
	}

	response := map[string]interface{}{
		"zones":    h.shippingUC.Zones(),
		"cadences": domain.Cadences,
	}

	h.cache.Set(cacheKey, response, 1*time.Hour)

	w.Header().Set("Cache-Control", "public, max-age=3600")
	utils.WriteJSON(w, http.StatusOK, response)
}

// POST /api/v1/shipping/quote
// The quote endpoint is the storefront's pricing surface: every outcome is
// a 200 with a status field, because "not priceable yet" is a normal state
// the cart UI renders, not a transport failure.
func (h *ShippingHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var in pricing.QuoteInput
	if err := utils.DecodeJSON(r, &in); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if in.TotalWeightGrams < 0 || in.Subtotal < 0 {
		utils.WriteError(w, http.StatusBadRequest, "weight and subtotal must be non-negative")
		return
	}

	outcome := h.shippingUC.Quote(r.Context(), in)
	utils.WriteJSON(w, http.StatusOK, outcome)
}
