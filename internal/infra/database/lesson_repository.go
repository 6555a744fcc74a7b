package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/zhengrowth/growth-api/internal/entity"
)

type LessonRepository struct {
	DB *sql.DB
}

func NewLessonRepository(db *sql.DB) *LessonRepository {
	return &LessonRepository{DB: db}
}

const lessonColumns = `l.id, l.slug, l.title, l.video_url, l.free_preview, l.position, l.current_version, l.published`

func scanLesson(row scanner, l *entity.Lesson, extra ...any) error {
	dest := []any{&l.ID, &l.Slug, &l.Title, &l.VideoURL, &l.FreePreview, &l.Position, &l.CurrentVersion, &l.Published}
	return row.Scan(append(dest, extra...)...)
}

func (r *LessonRepository) ListPublished(ctx context.Context) ([]*entity.Lesson, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+lessonColumns+` FROM lessons l WHERE l.published ORDER BY l.position, l.slug`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.Lesson
	for rows.Next() {
		var l entity.Lesson
		if err := scanLesson(rows, &l); err != nil {
			return nil, err
		}
		out = append(out, &l)
	}
	return out, rows.Err()
}

// FindBySlug returns a published lesson with the body of its current version.
func (r *LessonRepository) FindBySlug(ctx context.Context, slug string) (*entity.LessonDetail, error) {
	query := `
		SELECT ` + lessonColumns + `, COALESCE(v.body, '')
		FROM lessons l
		LEFT JOIN lesson_versions v ON v.lesson_id = l.id AND v.version = l.current_version
		WHERE l.slug = $1 AND l.published
	`
	var d entity.LessonDetail
	if err := scanLesson(r.DB.QueryRowContext(ctx, query, slug), &d.Lesson, &d.Body); err != nil {
		return nil, notFoundOr(err)
	}
	return &d, nil
}

func (r *LessonRepository) FindByID(ctx context.Context, id string) (*entity.Lesson, error) {
	var l entity.Lesson
	row := r.DB.QueryRowContext(ctx, `SELECT `+lessonColumns+` FROM lessons l WHERE l.id = $1`, id)
	if err := scanLesson(row, &l); err != nil {
		return nil, notFoundOr(err)
	}
	return &l, nil
}

// AddVersion locks the lesson so concurrent publishes get consecutive numbers.
func (r *LessonRepository) AddVersion(ctx context.Context, v *entity.LessonVersion) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var current int
	err = tx.QueryRowContext(ctx,
		`SELECT current_version FROM lessons WHERE id = $1 FOR UPDATE`, v.LessonID).Scan(&current)
	if err != nil {
		return notFoundOr(err)
	}

	var latest int
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version), 0) FROM lesson_versions WHERE lesson_id = $1`, v.LessonID).Scan(&latest); err != nil {
		return err
	}
	v.Version = latest + 1

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO lesson_versions (lesson_id, version, title, body, author, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, v.LessonID, v.Version, v.Title, v.Body, v.Author, v.CreatedAt); err != nil {
		return fmt.Errorf("insert lesson version: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE lessons SET current_version = $2, title = $3 WHERE id = $1`,
		v.LessonID, v.Version, v.Title); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *LessonRepository) Versions(ctx context.Context, lessonID string) ([]*entity.LessonVersion, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT lesson_id, version, title, body, author, created_at
		FROM lesson_versions
		WHERE lesson_id = $1
		ORDER BY version DESC
	`, lessonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.LessonVersion
	for rows.Next() {
		var v entity.LessonVersion
		if err := rows.Scan(&v.LessonID, &v.Version, &v.Title, &v.Body, &v.Author, &v.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &v)
	}
	return out, rows.Err()
}

func (r *LessonRepository) FindVersion(ctx context.Context, lessonID string, version int) (*entity.LessonVersion, error) {
	var v entity.LessonVersion
	err := r.DB.QueryRowContext(ctx, `
		SELECT lesson_id, version, title, body, author, created_at
		FROM lesson_versions
		WHERE lesson_id = $1 AND version = $2
	`, lessonID, version).Scan(&v.LessonID, &v.Version, &v.Title, &v.Body, &v.Author, &v.CreatedAt)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return &v, nil
}

type LessonViewRepository struct {
	DB *sql.DB
}

func NewLessonViewRepository(db *sql.DB) *LessonViewRepository {
	return &LessonViewRepository{DB: db}
}

func (r *LessonViewRepository) HasViewed(ctx context.Context, userID, lessonID, period string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM lesson_views WHERE user_id = $1 AND lesson_id = $2 AND period = $3
		)
	`, userID, lessonID, period).Scan(&exists)
	return exists, err
}

func (r *LessonViewRepository) CountViews(ctx context.Context, userID, period string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM lesson_views WHERE user_id = $1 AND period = $2`,
		userID, period).Scan(&n)
	return n, err
}

func (r *LessonViewRepository) RecordView(ctx context.Context, userID, lessonID, period string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO lesson_views (user_id, lesson_id, period)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, lesson_id, period) DO NOTHING
	`, userID, lessonID, period)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
