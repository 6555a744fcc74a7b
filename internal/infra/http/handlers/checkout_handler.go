package handlers

import (
	"context"
	"net/http"

	"github.com/zhengrowth/growth-api/internal/infra/http/middleware"
	"github.com/zhengrowth/growth-api/internal/usecase"
)

type checkoutExecutor interface {
	Execute(ctx context.Context, input usecase.CheckoutInput) (*usecase.CheckoutOutput, error)
}

type CheckoutHandler struct {
	CheckoutUC checkoutExecutor
}

func NewCheckoutHandler(uc checkoutExecutor) *CheckoutHandler {
	return &CheckoutHandler{CheckoutUC: uc}
}

func (h *CheckoutHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var input usecase.CheckoutInput
	if !decodeJSON(w, r, &input) {
		return
	}

	output, err := h.CheckoutUC.Execute(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if output.CouponApplied {
		middleware.RecordCouponRedeemed()
	}
	writeJSON(w, http.StatusCreated, output)
}
