package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/zhengrowth/growth-api/internal/entity"
	"github.com/zhengrowth/growth-api/internal/infra/http/middleware"
	"github.com/zhengrowth/growth-api/internal/usecase"
)

type leadCapturer interface {
	Execute(ctx context.Context, input usecase.CaptureLeadInput) (*usecase.CaptureLeadOutput, error)
	List(ctx context.Context, status string, limit int) ([]*entity.Lead, error)
}

type LeadHandler struct {
	uc          leadCapturer
	rateLimiter *RateLimiter

	// TrustedProxies is the number of reverse proxies in front of the API.
	TrustedProxies int
}

func NewLeadHandler(uc leadCapturer) *LeadHandler {
	return &LeadHandler{
		uc:          uc,
		rateLimiter: NewRateLimiter(10, time.Minute),
	}
}

// Close stops the rate limiter janitor.
func (h *LeadHandler) Close() {
	h.rateLimiter.Stop()
}

// Capture handles POST /api/leads.
func (h *LeadHandler) Capture(w http.ResponseWriter, r *http.Request) {
	if !h.rateLimiter.Allow(getClientIP(r, h.TrustedProxies)) {
		writeErrorResponse(w, http.StatusTooManyRequests, codeRateLimited, "too many requests, try again later")
		return
	}

	var input usecase.CaptureLeadInput
	if !decodeJSON(w, r, &input) {
		return
	}

	out, err := h.uc.Execute(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	middleware.RecordLeadCaptured()
	writeJSON(w, http.StatusOK, out)
}

// List handles GET /api/admin/leads.
func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(r, "limit")
	if !ok {
		writeError(w, r, usecase.ValidationErrors{{Field: "limit", Message: "must be a number"}})
		return
	}
	leads, err := h.uc.List(r.Context(), r.URL.Query().Get("status"), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, leads)
}
