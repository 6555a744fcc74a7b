package database

import (
	"context"
	"database/sql"

	"github.com/zhengrowth/growth-api/internal/entity"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

// Upsert keeps existing name, phone and source when the new capture leaves them blank.
func (r *LeadRepository) Upsert(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (email, name, phone, source, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (email)
		DO UPDATE SET
			name = COALESCE(EXCLUDED.name, leads.name),
			phone = COALESCE(EXCLUDED.phone, leads.phone),
			source = COALESCE(leads.source, EXCLUDED.source),
			updated_at = NOW()
		RETURNING id, status, email_stage, created_at, updated_at
	`

	return r.DB.QueryRowContext(
		ctx,
		query,
		lead.Email,
		nullString(lead.Name),
		nullString(lead.Phone),
		nullString(lead.Source),
	).Scan(
		&lead.ID,
		&lead.Status,
		&lead.EmailStage,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
}

// List returns the newest leads first. An empty status lists every lead.
func (r *LeadRepository) List(ctx context.Context, status string, limit int) ([]*entity.Lead, error) {
	query := `
		SELECT id, email, COALESCE(name, ''), COALESCE(phone, ''), COALESCE(source, ''),
			status, email_stage, created_at, updated_at
		FROM leads
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.DB.QueryContext(ctx, query, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.Lead
	for rows.Next() {
		var l entity.Lead
		if err := rows.Scan(&l.ID, &l.Email, &l.Name, &l.Phone, &l.Source,
			&l.Status, &l.EmailStage, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &l)
	}
	return out, rows.Err()
}
