package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/zhengrowth/growth-api/internal/entity"
)

type ContentRepository struct {
	DB *sql.DB
}

func NewContentRepository(db *sql.DB) *ContentRepository {
	return &ContentRepository{DB: db}
}

func (r *ContentRepository) items(ctx context.Context, kind, query string, from, to time.Time) ([]entity.CalendarItem, error) {
	rows, err := r.DB.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.CalendarItem
	for rows.Next() {
		it := entity.CalendarItem{Kind: kind}
		if err := rows.Scan(&it.ID, &it.Title, &it.Channel, &it.Status, &it.ScheduledAt); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *ContentRepository) BlogPosts(ctx context.Context, from, to time.Time) ([]entity.CalendarItem, error) {
	return r.items(ctx, entity.ContentBlog, `
		SELECT id, title, '', status, publish_at
		FROM blog_posts WHERE publish_at >= $1 AND publish_at < $2
	`, from, to)
}

func (r *ContentRepository) SocialPosts(ctx context.Context, from, to time.Time) ([]entity.CalendarItem, error) {
	return r.items(ctx, entity.ContentSocial, `
		SELECT id, LEFT(body, 80), channel, status, scheduled_at
		FROM social_posts WHERE scheduled_at >= $1 AND scheduled_at < $2
	`, from, to)
}

func (r *ContentRepository) Newsletters(ctx context.Context, from, to time.Time) ([]entity.CalendarItem, error) {
	return r.items(ctx, entity.ContentNewsletter, `
		SELECT id, subject, 'email', status, send_at
		FROM newsletters WHERE send_at >= $1 AND send_at < $2
	`, from, to)
}

// ClaimDueSocialPosts flips due posts in a single statement so concurrent
// dispatchers never claim the same post twice.
func (r *ContentRepository) ClaimDueSocialPosts(ctx context.Context, now time.Time) ([]*entity.SocialPost, error) {
	rows, err := r.DB.QueryContext(ctx, `
		UPDATE social_posts SET status = $1, dispatched_at = $2
		WHERE id IN (
			SELECT id FROM social_posts
			WHERE status = $3 AND scheduled_at <= $2
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, channel, body, scheduled_at
	`, entity.SocialDispatched, now, entity.SocialScheduled)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.SocialPost
	for rows.Next() {
		var p entity.SocialPost
		if err := rows.Scan(&p.ID, &p.Channel, &p.Body, &p.ScheduledAt); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

func (r *ContentRepository) RequeueSocialPost(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `
		UPDATE social_posts SET status = $1, dispatched_at = NULL
		WHERE id = $2 AND status = $3
	`, entity.SocialScheduled, id, entity.SocialDispatched)
	return err
}
