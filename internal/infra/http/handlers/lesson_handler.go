package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/zhengrowth/growth-api/internal/entity"
	"github.com/zhengrowth/growth-api/internal/usecase"
)

type lessonVersions interface {
	Publish(ctx context.Context, lessonID string, input usecase.PublishVersionInput) (*entity.LessonVersion, error)
	Restore(ctx context.Context, lessonID string, version int, author string) (*entity.LessonVersion, error)
	History(ctx context.Context, lessonID string) ([]*entity.LessonVersion, error)
}

type LessonHandler struct {
	Lessons  entity.LessonRepositoryInterface
	Versions lessonVersions
}

func NewLessonHandler(lessons entity.LessonRepositoryInterface, versions lessonVersions) *LessonHandler {
	return &LessonHandler{Lessons: lessons, Versions: versions}
}

func (h *LessonHandler) List(w http.ResponseWriter, r *http.Request) {
	lessons, err := h.Lessons.ListPublished(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if lessons == nil {
		lessons = []*entity.Lesson{}
	}
	writeJSON(w, http.StatusOK, lessons)
}

func (h *LessonHandler) Get(w http.ResponseWriter, r *http.Request) {
	lesson, err := h.Lessons.FindBySlug(r.Context(), chi.URLParam(r, "slug"))
	if errors.Is(err, entity.ErrNotFound) {
		writeErrorResponse(w, http.StatusNotFound, usecase.CodeNotFound, "lesson not found")
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lesson)
}

func (h *LessonHandler) PublishVersion(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	var input usecase.PublishVersionInput
	if !decodeJSON(w, r, &input) {
		return
	}
	if input.Author == "" {
		input.Author = u.Email
	}
	v, err := h.Versions.Publish(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (h *LessonHandler) History(w http.ResponseWriter, r *http.Request) {
	versions, err := h.Versions.History(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, versions)
}

func (h *LessonHandler) Restore(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	version, err := strconv.Atoi(chi.URLParam(r, "version"))
	if err != nil || version < 1 {
		writeError(w, r, usecase.ValidationErrors{{Field: "version", Message: "must be a positive number"}})
		return
	}
	v, err := h.Versions.Restore(r.Context(), chi.URLParam(r, "id"), version, u.Email)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}
