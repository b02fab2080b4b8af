package v1

import (
	"errors"
	"net/http"

	"bottega-backend/internal/pricing"
	"bottega-backend/internal/usecase"
	"bottega-backend/pkg/utils"
)

type SubscriptionHandler struct {
	subscriptionUC *usecase.SubscriptionUsecase
}

func NewSubscriptionHandler(subscriptionUC *usecase.SubscriptionUsecase) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionUC: subscriptionUC}
}

type resolvePlanReq struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Zone      string `json:"zone"`
	Cadence   string `json:"cadence"`
}

// POST /api/v1/subscriptions/resolve-plan
func (h *SubscriptionHandler) ResolvePlan(w http.ResponseWriter, r *http.Request) {
	var req resolvePlanReq
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	planID, err := h.subscriptionUC.ResolvePlan(r.Context(), req.ProductID, req.Quantity, req.Zone, req.Cadence)
	if err != nil {
		switch {
		case errors.Is(err, pricing.ErrInvalidQuantity),
			errors.Is(err, pricing.ErrUnknownZone),
			errors.Is(err, pricing.ErrUnknownCadence):
			utils.WriteError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, pricing.ErrPlanNotFound):
			// The purchase path is blocked with a clear message; a
			// near-match plan is never substituted.
			utils.WriteError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			utils.WriteError(w, http.StatusNotFound, err.Error())
		}
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{"planId": planID})
}
