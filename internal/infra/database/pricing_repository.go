package database

import (
	"context"
	"database/sql"

	"github.com/zhengrowth/growth-api/internal/entity"
)

type PricingRepository struct {
	DB *sql.DB
}

func NewPricingRepository(db *sql.DB) *PricingRepository {
	return &PricingRepository{DB: db}
}

const variantColumns = `id, experiment, offer_id, label, price_cents, weight, active`

func scanVariant(row scanner, v *entity.PricingVariant) error {
	return row.Scan(&v.ID, &v.Experiment, &v.OfferID, &v.Label, &v.PriceCents, &v.Weight, &v.Active)
}

func (r *PricingRepository) ActiveVariants(ctx context.Context, experiment string) ([]*entity.PricingVariant, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+variantColumns+` FROM pricing_variants WHERE experiment = $1 AND active ORDER BY id`,
		experiment)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.PricingVariant
	for rows.Next() {
		var v entity.PricingVariant
		if err := scanVariant(rows, &v); err != nil {
			return nil, err
		}
		out = append(out, &v)
	}
	return out, rows.Err()
}

func (r *PricingRepository) FindVariant(ctx context.Context, id string) (*entity.PricingVariant, error) {
	var v entity.PricingVariant
	row := r.DB.QueryRowContext(ctx, `SELECT `+variantColumns+` FROM pricing_variants WHERE id = $1`, id)
	if err := scanVariant(row, &v); err != nil {
		return nil, notFoundOr(err)
	}
	return &v, nil
}

func (r *PricingRepository) FindAssignment(ctx context.Context, experiment, visitorID string) (*entity.PricingAssignment, error) {
	query := `
		SELECT a.assigned_at,
			v.id, v.experiment, v.offer_id, v.label, v.price_cents, v.weight, v.active
		FROM pricing_assignments a
		JOIN pricing_variants v ON v.id = a.variant_id
		WHERE a.experiment = $1 AND a.visitor_id = $2
	`
	a := entity.PricingAssignment{Experiment: experiment, VisitorID: visitorID, Variant: &entity.PricingVariant{}}
	v := a.Variant
	err := r.DB.QueryRowContext(ctx, query, experiment, visitorID).Scan(
		&a.AssignedAt,
		&v.ID, &v.Experiment, &v.OfferID, &v.Label, &v.PriceCents, &v.Weight, &v.Active,
	)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return &a, nil
}

func (r *PricingRepository) InsertAssignment(ctx context.Context, experiment, visitorID, variantID string) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO pricing_assignments (experiment, visitor_id, variant_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (experiment, visitor_id) DO NOTHING
	`, experiment, visitorID, variantID)
	return err
}
