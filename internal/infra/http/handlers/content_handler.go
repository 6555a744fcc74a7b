package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/zhengrowth/growth-api/internal/entity"
	"github.com/zhengrowth/growth-api/internal/usecase"
)

type contentCalendar interface {
	Window(from, to *time.Time) (time.Time, time.Time, error)
	Calendar(ctx context.Context, from, to time.Time) ([]entity.CalendarItem, error)
	DispatchSocial(ctx context.Context) ([]string, error)
}

type ContentHandler struct {
	uc contentCalendar
}

func NewContentHandler(uc contentCalendar) *ContentHandler {
	return &ContentHandler{uc: uc}
}

func (h *ContentHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	from, to, errs := timeRange(r)
	if len(errs) > 0 {
		writeError(w, r, usecase.ValidationErrors(errs))
		return
	}
	start, end, err := h.uc.Window(from, to)
	if err != nil {
		writeError(w, r, err)
		return
	}
	items, err := h.uc.Calendar(r.Context(), start, end)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"from":  start,
		"to":    end,
		"items": items,
	})
}

func (h *ContentHandler) DispatchSocial(w http.ResponseWriter, r *http.Request) {
	ids, err := h.uc.DispatchSocial(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"dispatched": ids})
}
