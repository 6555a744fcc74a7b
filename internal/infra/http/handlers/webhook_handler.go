package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/zhengrowth/growth-api/internal/infra/http/middleware"
	"github.com/zhengrowth/growth-api/internal/usecase"
)

const SignatureHeader = "X-Signature"

type WebhookHandler struct {
	Secret    []byte
	Activator usecase.SubscriptionActivator
	Logger    *zap.Logger
}

func NewWebhookHandler(secret string, activator usecase.SubscriptionActivator, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{Secret: []byte(secret), Activator: activator, Logger: logger}
}

// Sign returns the hex HMAC-SHA256 the provider puts in X-Signature.
func Sign(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func (h *WebhookHandler) verify(body []byte, signature string) bool {
	if len(h.Secret) == 0 || signature == "" {
		return false
	}
	got, err := hex.DecodeString(strings.TrimSpace(signature))
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, h.Secret)
	mac.Write(body)
	return hmac.Equal(got, mac.Sum(nil))
}

func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, codeInvalidJSON, "unreadable body")
		return
	}

	if !h.verify(body, r.Header.Get(SignatureHeader)) {
		h.Logger.Warn("webhook signature rejected", zap.String("remote", getClientIP(r, 0)))
		writeErrorResponse(w, http.StatusUnauthorized, codeUnauthorized, "invalid signature")
		return
	}

	var event usecase.PaymentEventInput
	if err := json.Unmarshal(body, &event); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, codeInvalidJSON, "invalid JSON body")
		return
	}

	if !usecase.IsKnownPaymentEvent(event.Type) {
		h.Logger.Info("webhook event ignored", zap.String("event", event.Type))
		writeJSON(w, http.StatusOK, map[string]bool{"ignored": true})
		return
	}

	if err := h.Activator.Execute(r.Context(), event); err != nil {
		if errors.Is(err, usecase.ErrEventSkipped) {
			writeJSON(w, http.StatusOK, map[string]bool{"ignored": true})
			return
		}
		writeError(w, r, err)
		return
	}
	if event.Type == usecase.PaymentSucceeded {
		middleware.RecordSubscriptionActivated()
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ignored": false})
}
