package handlers

import (
	"context"
	"net/http"

	"github.com/zhengrowth/growth-api/internal/entity"
	"github.com/zhengrowth/growth-api/internal/usecase"
)

type couponService interface {
	Validate(ctx context.Context, input usecase.ValidateCouponInput) (*usecase.ValidateCouponOutput, error)
	Create(ctx context.Context, input usecase.CreateCouponInput) (*entity.Coupon, error)
}

type CouponHandler struct {
	uc couponService
}

func NewCouponHandler(uc couponService) *CouponHandler {
	return &CouponHandler{uc: uc}
}

// Validate previews a coupon. An unusable coupon is a 200 with valid=false.
func (h *CouponHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var input usecase.ValidateCouponInput
	if !decodeJSON(w, r, &input) {
		return
	}
	out, err := h.uc.Validate(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *CouponHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateCouponInput
	if !decodeJSON(w, r, &input) {
		return
	}
	c, err := h.uc.Create(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}
