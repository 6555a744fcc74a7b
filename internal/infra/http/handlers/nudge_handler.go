package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhengrowth/growth-api/internal/entity"
	"github.com/zhengrowth/growth-api/internal/usecase"
)

type nudges interface {
	Evaluate(ctx context.Context, caller usecase.Caller, input usecase.EvaluateNudgeInput) (*usecase.EvaluateNudgeOutput, error)
	Pending(ctx context.Context, userID string) ([]*entity.Nudge, error)
	Dismiss(ctx context.Context, userID, id string) error
}

type NudgeHandler struct {
	uc nudges
}

func NewNudgeHandler(uc nudges) *NudgeHandler {
	return &NudgeHandler{uc: uc}
}

func (h *NudgeHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	var input usecase.EvaluateNudgeInput
	if !decodeJSON(w, r, &input) {
		return
	}
	out, err := h.uc.Evaluate(r.Context(), callerOf(u), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *NudgeHandler) List(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	list, err := h.uc.Pending(r.Context(), u.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if list == nil {
		list = []*entity.Nudge{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *NudgeHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := h.uc.Dismiss(r.Context(), u.ID, chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"dismissed": true})
}
