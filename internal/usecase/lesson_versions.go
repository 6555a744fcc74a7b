package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/zhengrowth/growth-api/internal/entity"
)

type PublishVersionInput struct {
	Title  string `json:"title"`
	Body   string `json:"body"`
	Author string `json:"author"`
}

type LessonVersionUseCase struct {
	Repo  entity.LessonRepositoryInterface
	Clock Clock
}

func NewLessonVersionUseCase(repo entity.LessonRepositoryInterface) *LessonVersionUseCase {
	return &LessonVersionUseCase{Repo: repo}
}

func (uc *LessonVersionUseCase) Publish(ctx context.Context, lessonID string, input PublishVersionInput) (*entity.LessonVersion, error) {
	var errs []ValidationError
	errs = requireField(errs, "title", input.Title)
	errs = maxLen(errs, "title", input.Title, 200)
	errs = requireField(errs, "body", input.Body)
	if err := validationResult(errs); err != nil {
		return nil, err
	}
	if err := uc.ensureLesson(ctx, lessonID); err != nil {
		return nil, err
	}

	v := &entity.LessonVersion{
		LessonID:  lessonID,
		Title:     strings.TrimSpace(input.Title),
		Body:      input.Body,
		Author:    strings.TrimSpace(input.Author),
		CreatedAt: uc.Clock.now(),
	}
	if err := uc.Repo.AddVersion(ctx, v); err != nil {
		return nil, dbError("failed to publish version", err)
	}
	return v, nil
}

// Restore republishes an old version as the newest one; history is never rewritten.
func (uc *LessonVersionUseCase) Restore(ctx context.Context, lessonID string, version int, author string) (*entity.LessonVersion, error) {
	old, err := uc.Repo.FindVersion(ctx, lessonID, version)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, notFound(fmt.Sprintf("version %d not found", version))
		}
		return nil, dbError("failed to load version", err)
	}

	v := &entity.LessonVersion{
		LessonID:  lessonID,
		Title:     old.Title,
		Body:      old.Body,
		Author:    author,
		CreatedAt: uc.Clock.now(),
	}
	if err := uc.Repo.AddVersion(ctx, v); err != nil {
		return nil, dbError("failed to restore version", err)
	}
	return v, nil
}

func (uc *LessonVersionUseCase) History(ctx context.Context, lessonID string) ([]*entity.LessonVersion, error) {
	if err := uc.ensureLesson(ctx, lessonID); err != nil {
		return nil, err
	}
	versions, err := uc.Repo.Versions(ctx, lessonID)
	if err != nil {
		return nil, dbError("failed to list versions", err)
	}
	return versions, nil
}

func (uc *LessonVersionUseCase) ensureLesson(ctx context.Context, lessonID string) error {
	if _, err := uc.Repo.FindByID(ctx, lessonID); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return notFound("lesson not found")
		}
		return dbError("failed to load lesson", err)
	}
	return nil
}
