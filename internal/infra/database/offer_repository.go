package database

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"github.com/zhengrowth/growth-api/internal/entity"
)

type OfferRepository struct {
	DB *sql.DB
}

func NewOfferRepository(db *sql.DB) *OfferRepository {
	return &OfferRepository{DB: db}
}

const offerColumns = `id, slug, title, description, price_cents, currency, interval,
	lesson_limit, features, active, sort_order`

func scanOffer(row scanner) (*entity.Offer, error) {
	var o entity.Offer
	var features pq.StringArray
	err := row.Scan(&o.ID, &o.Slug, &o.Title, &o.Description, &o.PriceCents, &o.Currency,
		&o.Interval, &o.LessonLimit, &features, &o.Active, &o.SortOrder)
	if err != nil {
		return nil, err
	}
	o.Features = []string(features)
	if o.Features == nil {
		o.Features = []string{}
	}
	return &o, nil
}

func (r *OfferRepository) ListActive(ctx context.Context) ([]*entity.Offer, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+offerColumns+` FROM offers WHERE active ORDER BY sort_order, price_cents`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.Offer
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *OfferRepository) FindBySlug(ctx context.Context, slug string) (*entity.Offer, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+offerColumns+` FROM offers WHERE slug = $1`, slug)
	o, err := scanOffer(row)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return o, nil
}

func (r *OfferRepository) FindByID(ctx context.Context, id string) (*entity.Offer, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+offerColumns+` FROM offers WHERE id = $1`, id)
	o, err := scanOffer(row)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return o, nil
}
