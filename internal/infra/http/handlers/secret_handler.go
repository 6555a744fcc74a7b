package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhengrowth/growth-api/internal/entity"
)

type secretStore interface {
	Put(ctx context.Context, name, value, actor string) (*entity.SecretView, error)
	List(ctx context.Context) ([]*entity.SecretView, error)
	Delete(ctx context.Context, name string) error
}

type SecretHandler struct {
	uc secretStore
}

func NewSecretHandler(uc secretStore) *SecretHandler {
	return &SecretHandler{uc: uc}
}

func (h *SecretHandler) Put(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	var input struct {
		Value string `json:"value"`
	}
	if !decodeJSON(w, r, &input) {
		return
	}
	view, err := h.uc.Put(r.Context(), chi.URLParam(r, "name"), input.Value, u.Email)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *SecretHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.uc.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if list == nil {
		list = []*entity.SecretView{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *SecretHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.uc.Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
