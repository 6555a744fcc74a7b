package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhengrowth/growth-api/internal/entity"
)

type engagementScorer interface {
	Score(ctx context.Context, userID string) (*entity.EngagementScore, error)
}

type EngagementHandler struct {
	uc engagementScorer
}

func NewEngagementHandler(uc engagementScorer) *EngagementHandler {
	return &EngagementHandler{uc: uc}
}

func (h *EngagementHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	h.write(w, r, u.ID)
}

func (h *EngagementHandler) ForUser(w http.ResponseWriter, r *http.Request) {
	h.write(w, r, chi.URLParam(r, "user_id"))
}

func (h *EngagementHandler) write(w http.ResponseWriter, r *http.Request, userID string) {
	s, err := h.uc.Score(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}
