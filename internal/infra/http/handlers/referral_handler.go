package handlers

import (
	"context"
	"net/http"

	"github.com/zhengrowth/growth-api/internal/entity"
	"github.com/zhengrowth/growth-api/internal/usecase"
)

type referrals interface {
	GetOrCreateCode(ctx context.Context, caller usecase.Caller) (*entity.ReferralCode, error)
	Track(ctx context.Context, input usecase.TrackReferralInput) (*entity.Referral, error)
	Summary(ctx context.Context, userID string) (*usecase.ReferralSummary, error)
}

type ReferralHandler struct {
	uc referrals
}

func NewReferralHandler(uc referrals) *ReferralHandler {
	return &ReferralHandler{uc: uc}
}

func (h *ReferralHandler) Code(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	rc, err := h.uc.GetOrCreateCode(r.Context(), callerOf(u))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rc)
}

func (h *ReferralHandler) Track(w http.ResponseWriter, r *http.Request) {
	var input usecase.TrackReferralInput
	if !decodeJSON(w, r, &input) {
		return
	}
	ref, err := h.uc.Track(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, ref)
}

func (h *ReferralHandler) List(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	s, err := h.uc.Summary(r.Context(), u.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}
