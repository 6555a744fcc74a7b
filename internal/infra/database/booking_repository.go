package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/zhengrowth/growth-api/internal/entity"
)

type BookingRepository struct {
	DB *sql.DB
}

func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{DB: db}
}

const bookingColumns = `id, name, email, phone, topic, starts_at, ends_at, timezone, status, notes,
	created_at, updated_at`

func scanBooking(row scanner) (*entity.Booking, error) {
	var b entity.Booking
	err := row.Scan(&b.ID, &b.Name, &b.Email, &b.Phone, &b.Topic, &b.StartsAt, &b.EndsAt,
		&b.Timezone, &b.Status, &b.Notes, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// CreateIfFree locks every active booking overlapping the slot before inserting.
// Two inserts racing into an empty slot are caught by serializable isolation.
func (r *BookingRepository) CreateIfFree(ctx context.Context, b *entity.Booking) error {
	err := r.createIfFree(ctx, b)
	if isSerializationFailure(err) {
		return entity.ErrSlotTaken
	}
	return err
}

func (r *BookingRepository) createIfFree(ctx context.Context, b *entity.Booking) error {
	tx, err := r.DB.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx, `
		SELECT id FROM bookings
		WHERE status <> $1 AND starts_at < $3 AND ends_at > $2
		FOR UPDATE
	`, entity.BookingCanceled, b.StartsAt, b.EndsAt)
	if err != nil {
		return err
	}
	taken := rows.Next()
	if err := rows.Close(); err != nil {
		return err
	}
	if taken {
		return entity.ErrSlotTaken
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO bookings (id, name, email, phone, topic, starts_at, ends_at, timezone, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, b.ID, b.Name, b.Email, b.Phone, b.Topic, b.StartsAt, b.EndsAt, b.Timezone, b.Status, b.Notes,
		b.CreatedAt, b.UpdatedAt); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *BookingRepository) FindByID(ctx context.Context, id string) (*entity.Booking, error) {
	b, err := scanBooking(r.DB.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id))
	if err != nil {
		return nil, notFoundOr(err)
	}
	return b, nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id, status string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE bookings SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	return affectedOrNotFound(res, err)
}

func (r *BookingRepository) ListBetween(ctx context.Context, from, to time.Time) ([]*entity.Booking, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE starts_at >= $1 AND starts_at < $2
		ORDER BY starts_at
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *BookingRepository) CountByEmail(ctx context.Context, email string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE email = $1 AND status <> $2`,
		email, entity.BookingCanceled).Scan(&n)
	return n, err
}
