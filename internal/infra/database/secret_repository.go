package database

import (
	"context"
	"database/sql"

	"github.com/zhengrowth/growth-api/internal/entity"
)

type SecretRepository struct {
	DB *sql.DB
}

func NewSecretRepository(db *sql.DB) *SecretRepository {
	return &SecretRepository{DB: db}
}

func (r *SecretRepository) Put(ctx context.Context, s *entity.SealedSecret) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO admin_secrets (name, sealed, updated_by, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name)
		DO UPDATE SET sealed = EXCLUDED.sealed, updated_by = EXCLUDED.updated_by, updated_at = EXCLUDED.updated_at
	`, s.Name, s.Sealed, s.UpdatedBy, s.UpdatedAt)
	return err
}

func (r *SecretRepository) List(ctx context.Context) ([]*entity.SealedSecret, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT name, sealed, updated_by, updated_at FROM admin_secrets ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.SealedSecret
	for rows.Next() {
		var s entity.SealedSecret
		if err := rows.Scan(&s.Name, &s.Sealed, &s.UpdatedBy, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

func (r *SecretRepository) Delete(ctx context.Context, name string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM admin_secrets WHERE name = $1`, name)
	return affectedOrNotFound(res, err)
}
