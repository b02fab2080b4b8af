package v1

import (
	"net/http"

	"bottega-backend/internal/domain"
	"bottega-backend/internal/usecase"
	"bottega-backend/pkg/utils"
)

type AdminConfigHandler struct {
	configUC       *usecase.ConfigAdminUsecase
	subscriptionUC *usecase.SubscriptionUsecase
}

func NewAdminConfigHandler(configUC *usecase.ConfigAdminUsecase, subscriptionUC *usecase.SubscriptionUsecase) *AdminConfigHandler {
	return &AdminConfigHandler{configUC: configUC, subscriptionUC: subscriptionUC}
}

// GET /api/v1/admin/config/shipping
func (h *AdminConfigHandler) GetShippingConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.configUC.ActiveConfiguration(r.Context())
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if cfg == nil {
		utils.WriteError(w, http.StatusNotFound, "no active shipping configuration")
		return
	}
	utils.WriteJSON(w, http.StatusOK, cfg)
}

// PUT /api/v1/admin/config/shipping
// The configuration is replaced wholesale; there is no field-level PATCH.
func (h *AdminConfigHandler) ReplaceShippingConfig(w http.ResponseWriter, r *http.Request) {
	var candidate domain.ShippingConfiguration
	if err := utils.DecodeJSON(r, &candidate); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	stored, violations, err := h.configUC.ReplaceConfiguration(r.Context(), &candidate)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if len(violations) > 0 {
		utils.WriteJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":      "configuration validation failed",
			"violations": violations,
		})
		return
	}

	utils.WriteJSON(w, http.StatusOK, stored)
}

// GET /api/v1/admin/config/shipping/history
func (h *AdminConfigHandler) GetShippingConfigHistory(w http.ResponseWriter, r *http.Request) {
	limit := utils.ParseInt(r.URL.Query().Get("limit"), 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}

	history, err := h.configUC.History(r.Context(), limit)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.WriteJSON(w, http.StatusOK, history)
}

// PUT /api/v1/admin/products/{id}/price-map
func (h *AdminConfigHandler) ReplacePriceMap(w http.ResponseWriter, r *http.Request) {
	productID := r.PathValue("id")
	if productID == "" {
		utils.WriteError(w, http.StatusBadRequest, "missing product id")
		return
	}

	var m domain.RecurringPriceMap
	if err := utils.DecodeJSON(r, &m); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	problems, err := h.subscriptionUC.ReplacePriceMap(r.Context(), productID, m)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if len(problems) > 0 {
		utils.WriteJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":    "price map validation failed",
			"problems": problems,
		})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
