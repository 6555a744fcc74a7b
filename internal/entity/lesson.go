package entity

import (
	"context"
	"time"
)

type Lesson struct {
	ID             string `json:"id"`
	Slug           string `json:"slug"`
	Title          string `json:"title"`
	VideoURL       string `json:"video_url,omitempty"`
	FreePreview    bool   `json:"free_preview"`
	Position       int    `json:"position"`
	CurrentVersion int    `json:"current_version"`
	Published      bool   `json:"published"`
}

type LessonVersion struct {
	LessonID  string    `json:"lesson_id"`
	Version   int       `json:"version"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Author    string    `json:"author,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type LessonDetail struct {
	Lesson
	Body string `json:"body"`
}

type LessonRepositoryInterface interface {
	ListPublished(ctx context.Context) ([]*Lesson, error)
	FindBySlug(ctx context.Context, slug string) (*LessonDetail, error)
	FindByID(ctx context.Context, id string) (*Lesson, error)
	// AddVersion stores the next version number and makes it current.
	AddVersion(ctx context.Context, v *LessonVersion) error
	Versions(ctx context.Context, lessonID string) ([]*LessonVersion, error)
	FindVersion(ctx context.Context, lessonID string, version int) (*LessonVersion, error)
}

// ViewPeriod is the monthly bucket a lesson view counts against.
func ViewPeriod(t time.Time) string {
	return t.UTC().Format("2006-01")
}

type LessonViewRepositoryInterface interface {
	HasViewed(ctx context.Context, userID, lessonID, period string) (bool, error)
	CountViews(ctx context.Context, userID, period string) (int, error)
	// RecordView returns false when the view was already recorded for the period.
	RecordView(ctx context.Context, userID, lessonID, period string) (bool, error)
}
