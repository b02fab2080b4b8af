package v1

import (
	"net/http"

	"bottega-backend/internal/domain"
	"bottega-backend/internal/usecase"
	"bottega-backend/pkg/utils"
)

type CheckoutHandler struct {
	checkoutUC *usecase.CheckoutUsecase
}

func NewCheckoutHandler(checkoutUC *usecase.CheckoutUsecase) *CheckoutHandler {
	return &CheckoutHandler{checkoutUC: checkoutUC}
}

// POST /api/v1/checkout
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(domain.UserContextKey).(*domain.User)
	if !ok || user == nil {
		utils.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req usecase.CheckoutReq
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// The header wins over the body so proxies that inject the key work.
	if key := r.Header.Get("Idempotency-Key"); key != "" {
		req.IdempotencyKey = key
	}

	order, err := h.checkoutUC.Checkout(r.Context(), user.ID, req)
	if err != nil {
		utils.WriteError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	utils.WriteJSON(w, http.StatusCreated, order)
}

// GET /api/v1/orders
func (h *CheckoutHandler) GetMyOrders(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(domain.UserContextKey).(*domain.User)
	if !ok || user == nil {
		utils.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	orders, err := h.checkoutUC.GetMyOrders(r.Context(), user.ID)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.WriteJSON(w, http.StatusOK, orders)
}
