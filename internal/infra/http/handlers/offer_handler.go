package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhengrowth/growth-api/internal/entity"
	"github.com/zhengrowth/growth-api/internal/usecase"
)

type pricingAssigner interface {
	Execute(ctx context.Context, input usecase.AssignPricingInput) (*entity.PricingAssignment, error)
}

type OfferHandler struct {
	Offers  entity.OfferRepositoryInterface
	Pricing pricingAssigner
}

func NewOfferHandler(offers entity.OfferRepositoryInterface, pricing pricingAssigner) *OfferHandler {
	return &OfferHandler{Offers: offers, Pricing: pricing}
}

func (h *OfferHandler) List(w http.ResponseWriter, r *http.Request) {
	offers, err := h.Offers.ListActive(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if offers == nil {
		offers = []*entity.Offer{}
	}
	writeJSON(w, http.StatusOK, offers)
}

func (h *OfferHandler) Get(w http.ResponseWriter, r *http.Request) {
	offer, err := h.Offers.FindBySlug(r.Context(), chi.URLParam(r, "slug"))
	if errors.Is(err, entity.ErrNotFound) || (err == nil && !offer.Active) {
		writeErrorResponse(w, http.StatusNotFound, usecase.CodeNotFound, "offer not found")
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, offer)
}

// Assign handles POST /api/pricing/assign.
func (h *OfferHandler) Assign(w http.ResponseWriter, r *http.Request) {
	var input usecase.AssignPricingInput
	if !decodeJSON(w, r, &input) {
		return
	}
	a, err := h.Pricing.Execute(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}
