package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/zhengrowth/growth-api/internal/entity"
)

type NudgeRepository struct {
	DB *sql.DB
}

func NewNudgeRepository(db *sql.DB) *NudgeRepository {
	return &NudgeRepository{DB: db}
}

const nudgeColumns = `id, user_id, trigger, kind, channel, title, body, created_at, dismissed_at`

func scanNudge(row scanner) (*entity.Nudge, error) {
	var n entity.Nudge
	var dismissed sql.NullTime
	if err := row.Scan(&n.ID, &n.UserID, &n.Trigger, &n.Kind, &n.Channel, &n.Title, &n.Body,
		&n.CreatedAt, &dismissed); err != nil {
		return nil, err
	}
	if dismissed.Valid {
		t := dismissed.Time
		n.DismissedAt = &t
	}
	return &n, nil
}

func (r *NudgeRepository) LastForTrigger(ctx context.Context, userID, trigger string) (*entity.Nudge, error) {
	n, err := scanNudge(r.DB.QueryRowContext(ctx, `
		SELECT `+nudgeColumns+`
		FROM nudges
		WHERE user_id = $1 AND trigger = $2
		ORDER BY created_at DESC
		LIMIT 1
	`, userID, trigger))
	if err != nil {
		return nil, notFoundOr(err)
	}
	return n, nil
}

func (r *NudgeRepository) Create(ctx context.Context, n *entity.Nudge) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO nudges (id, user_id, trigger, kind, channel, title, body, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, n.ID, n.UserID, n.Trigger, n.Kind, n.Channel, n.Title, n.Body, n.CreatedAt)
	return err
}

func (r *NudgeRepository) ListPending(ctx context.Context, userID string) ([]*entity.Nudge, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+nudgeColumns+`
		FROM nudges
		WHERE user_id = $1 AND dismissed_at IS NULL AND channel = $2
		ORDER BY created_at DESC
	`, userID, entity.ChannelInApp)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.Nudge
	for rows.Next() {
		n, err := scanNudge(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// Dismiss is idempotent for an already dismissed nudge.
func (r *NudgeRepository) Dismiss(ctx context.Context, userID, id string, at time.Time) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE nudges SET dismissed_at = COALESCE(dismissed_at, $3)
		WHERE id = $1 AND user_id = $2
	`, id, userID, at)
	if err != nil {
		return notFoundOr(err)
	}
	return affectedOrNotFound(res, nil)
}
