package room

import (
	"context"
	"errors"

	"staybook/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const roomColumns = `id::text, hotel_id::text, COALESCE(room_number, ''), room_type, price_per_night_cents, max_adults, max_children, quantity, COALESCE(image_url, ''), created_at`

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Room, error) {
	if !domain.ValidID(id) {
		return nil, domain.ErrNotFound
	}
	const q = `
SELECT ` + roomColumns + `
FROM rooms
WHERE id = $1
`
	var rm domain.Room
	if err := r.pool.QueryRow(ctx, q, id).Scan(
		&rm.ID,
		&rm.HotelID,
		&rm.RoomNumber,
		&rm.Type,
		&rm.PricePerNightCents,
		&rm.MaxAdults,
		&rm.MaxChildren,
		&rm.Quantity,
		&rm.ImageURL,
		&rm.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("room repo: get by id", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return &rm, nil
}

func (r *postgresRepo) ListByHotel(ctx context.Context, hotelID string) ([]domain.Room, error) {
	if !domain.ValidID(hotelID) {
		return nil, nil
	}
	const q = `
SELECT ` + roomColumns + `
FROM rooms
WHERE hotel_id = $1
ORDER BY created_at ASC
`
	rows, err := r.pool.Query(ctx, q, hotelID)
	if err != nil {
		r.logger.Error("room repo: list by hotel", zap.String("hotel_id", hotelID), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var result []domain.Room
	for rows.Next() {
		var rm domain.Room
		if err := rows.Scan(
			&rm.ID,
			&rm.HotelID,
			&rm.RoomNumber,
			&rm.Type,
			&rm.PricePerNightCents,
			&rm.MaxAdults,
			&rm.MaxChildren,
			&rm.Quantity,
			&rm.ImageURL,
			&rm.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, rm)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, room domain.Room) (*domain.Room, error) {
	const q = `
INSERT INTO rooms (hotel_id, room_number, room_type, price_per_night_cents, max_adults, max_children, quantity, image_url)
VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, NULLIF($8, ''))
ON CONFLICT (hotel_id, room_type, room_number) DO UPDATE SET
    price_per_night_cents = EXCLUDED.price_per_night_cents,
    max_adults = EXCLUDED.max_adults,
    max_children = EXCLUDED.max_children,
    quantity = EXCLUDED.quantity,
    image_url = EXCLUDED.image_url
RETURNING id::text, created_at
`
	res := room
	if err := r.pool.QueryRow(ctx, q,
		room.HotelID,
		room.RoomNumber,
		room.Type,
		room.PricePerNightCents,
		room.MaxAdults,
		room.MaxChildren,
		room.Quantity,
		room.ImageURL,
	).Scan(&res.ID, &res.CreatedAt); err != nil {
		r.logger.Error("room repo: upsert", zap.String("hotel_id", room.HotelID), zap.Error(err))
		return nil, err
	}
	return &res, nil
}
