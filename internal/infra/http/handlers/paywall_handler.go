package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/zhengrowth/growth-api/internal/infra/http/middleware"
	"github.com/zhengrowth/growth-api/internal/usecase"
)

type paywall interface {
	CanWatch(ctx context.Context, userID, lessonID string) (*usecase.WatchDecision, error)
	MarkWatch(ctx context.Context, userID, lessonID string) (*usecase.MarkWatchOutput, error)
}

type PaywallHandler struct {
	uc paywall
}

func NewPaywallHandler(uc paywall) *PaywallHandler {
	return &PaywallHandler{uc: uc}
}

func (h *PaywallHandler) CanWatch(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	d, err := h.uc.CanWatch(r.Context(), u.ID, r.URL.Query().Get("lesson_id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !d.Allowed {
		middleware.RecordPaywallDenial()
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *PaywallHandler) MarkWatch(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	var input struct {
		LessonID string `json:"lesson_id"`
	}
	if !decodeJSON(w, r, &input) {
		return
	}
	out, err := h.uc.MarkWatch(r.Context(), u.ID, input.LessonID)
	if err != nil {
		var de *usecase.DomainError
		if errors.As(err, &de) && de.Code == usecase.CodePaywall {
			middleware.RecordPaywallDenial()
		}
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
