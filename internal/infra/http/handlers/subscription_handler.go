package handlers

import (
	"errors"
	"net/http"

	"github.com/zhengrowth/growth-api/internal/entity"
	"github.com/zhengrowth/growth-api/internal/usecase"
)

type SubscriptionHandler struct {
	SubRepo entity.SubscriptionRepository
}

func NewSubscriptionHandler(repo entity.SubscriptionRepository) *SubscriptionHandler {
	return &SubscriptionHandler{SubRepo: repo}
}

// Me returns the caller's most recent subscription.
func (h *SubscriptionHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}

	sub, err := h.SubRepo.FindLastByUserID(r.Context(), u.ID)
	if errors.Is(err, entity.ErrNotFound) {
		writeErrorResponse(w, http.StatusNotFound, usecase.CodeNotFound, "no subscription")
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}
