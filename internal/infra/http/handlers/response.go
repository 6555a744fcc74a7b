package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/zhengrowth/growth-api/internal/infra/http/middleware"
	"github.com/zhengrowth/growth-api/internal/usecase"
)

const maxBodyBytes = 1 << 20

const (
	codeInvalidJSON  = "INVALID_JSON"
	codeRateLimited  = "RATE_LIMITED"
	codeUnauthorized = "UNAUTHORIZED"
	codeInternal     = "INTERNAL_ERROR"
)

type envelope struct {
	OK     bool                      `json:"ok"`
	Data   any                       `json:"data,omitempty"`
	Error  string                    `json:"error,omitempty"`
	Code   string                    `json:"code,omitempty"`
	Fields []usecase.ValidationError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{OK: true, Data: data}); err != nil {
		zap.L().Warn("encode response", zap.Error(err))
	}
}

func writeErrorResponse(w http.ResponseWriter, status int, code, msg string) {
	writeEnvelope(w, status, envelope{Error: msg, Code: code})
}

func writeEnvelope(w http.ResponseWriter, status int, env envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

// writeError maps use case errors to statuses. Anything unrecognised is a 500
// whose details stay in the log.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verrs usecase.ValidationErrors
	var de *usecase.DomainError
	switch {
	case errors.As(err, &verrs):
		writeEnvelope(w, http.StatusBadRequest, envelope{
			Error:  "validation failed",
			Code:   usecase.CodeValidation,
			Fields: verrs,
		})
	case errors.As(err, &de):
		writeErrorResponse(w, domainStatus(de.Code), de.Code, de.Message)
	default:
		zap.L().Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		writeErrorResponse(w, http.StatusInternalServerError, codeInternal, "internal error")
	}
}

func domainStatus(code string) int {
	switch code {
	case usecase.CodeNotFound, usecase.CodeNoVariants:
		return http.StatusNotFound
	case usecase.CodeConflict, usecase.CodeSlotTaken:
		return http.StatusConflict
	case usecase.CodeForbidden, usecase.CodePaywall:
		return http.StatusForbidden
	default:
		return http.StatusBadRequest
	}
}

// decodeJSON reads a bounded body. An empty body decodes to the zero value.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		writeErrorResponse(w, http.StatusBadRequest, codeInvalidJSON, "invalid JSON body")
		return false
	}
	return true
}

// currentUser is only empty when a route was mounted outside the auth group.
func currentUser(w http.ResponseWriter, r *http.Request) (middleware.User, bool) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeErrorResponse(w, http.StatusUnauthorized, codeUnauthorized, "authentication required")
	}
	return u, ok
}

func callerOf(u middleware.User) usecase.Caller {
	return usecase.Caller{UserID: u.ID, Email: u.Email, Name: u.Name}
}

// timeRange parses optional RFC3339 from/to query params.
func timeRange(r *http.Request) (from, to *time.Time, errs []usecase.ValidationError) {
	q := r.URL.Query()
	for _, p := range []struct {
		name string
		dst  **time.Time
	}{{"from", &from}, {"to", &to}} {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			errs = append(errs, usecase.ValidationError{Field: p.name, Message: "must be an RFC3339 timestamp"})
			continue
		}
		*p.dst = &t
	}
	return from, to, errs
}

func queryInt(r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	return n, err == nil
}
