package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zhengrowth/growth-api/internal/entity"
	"github.com/zhengrowth/growth-api/internal/infra/http/middleware"
	"github.com/zhengrowth/growth-api/internal/usecase"
)

type bookings interface {
	Create(ctx context.Context, input usecase.CreateBookingInput) (*entity.Booking, error)
	Cancel(ctx context.Context, id, email string) (*entity.Booking, error)
	Invite(ctx context.Context, id string) ([]byte, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]*entity.Booking, error)
}

type BookingHandler struct {
	uc  bookings
	now func() time.Time
}

func NewBookingHandler(uc bookings) *BookingHandler {
	return &BookingHandler{uc: uc, now: time.Now}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateBookingInput
	if !decodeJSON(w, r, &input) {
		return
	}
	b, err := h.uc.Create(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	middleware.RecordBookingCreated()
	writeJSON(w, http.StatusCreated, b)
}

// ICS serves the invite as a download.
func (h *BookingHandler) ICS(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	doc, err := h.uc.Invite(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="zhengrowth-`+id+`.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email string `json:"email"`
	}
	if !decodeJSON(w, r, &input) {
		return
	}
	if input.Email == "" {
		writeError(w, r, usecase.ValidationErrors{{Field: "email", Message: "is required"}})
		return
	}
	b, err := h.uc.Cancel(r.Context(), chi.URLParam(r, "id"), input.Email)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// List defaults to the next 30 days.
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	from, to, errs := timeRange(r)
	if len(errs) > 0 {
		writeError(w, r, usecase.ValidationErrors(errs))
		return
	}
	start := h.now().UTC()
	if from != nil {
		start = *from
	}
	end := start.AddDate(0, 0, 30)
	if to != nil {
		end = *to
	}
	list, err := h.uc.ListBetween(r.Context(), start, end)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if list == nil {
		list = []*entity.Booking{}
	}
	writeJSON(w, http.StatusOK, list)
}
