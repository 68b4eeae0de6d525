package hotel

import (
	"context"
	"errors"
	"strings"

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

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Hotel, error) {
	if !domain.ValidID(id) {
		return nil, domain.ErrNotFound
	}
	const q = `
SELECT h.id::text, h.name, COALESCE(h.description, ''), h.star_rating, h.city_id::text, c.name,
       h.amenities, COALESCE(h.image_url, ''), h.is_active, h.created_at
FROM hotels h
JOIN cities c ON c.id = h.city_id
WHERE h.id = $1 AND h.is_active
`
	var h domain.Hotel
	var amenities []string
	if err := r.pool.QueryRow(ctx, q, id).Scan(
		&h.ID,
		&h.Name,
		&h.Description,
		&h.StarRating,
		&h.CityID,
		&h.CityName,
		&amenities,
		&h.ImageURL,
		&h.IsActive,
		&h.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("hotel repo: get by id", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	h.Amenities = toAmenities(amenities)

	rooms, err := r.roomsForHotels(ctx, []string{h.ID})
	if err != nil {
		return nil, err
	}
	h.Rooms = rooms[h.ID]
	return &h, nil
}

func (r *postgresRepo) ListByCity(ctx context.Context, location string) ([]domain.Hotel, error) {
	const q = `
SELECT h.id::text, h.name, COALESCE(h.description, ''), h.star_rating, h.city_id::text, c.name,
       h.amenities, COALESCE(h.image_url, ''), h.is_active, h.created_at
FROM hotels h
JOIN cities c ON c.id = h.city_id
WHERE h.is_active AND c.name ILIKE '%' || $1 || '%'
ORDER BY h.name ASC
`
	rows, err := r.pool.Query(ctx, q, escapeLike(location))
	if err != nil {
		r.logger.Error("hotel repo: list by city", zap.String("location", location), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var hotels []domain.Hotel
	var ids []string
	for rows.Next() {
		var h domain.Hotel
		var amenities []string
		if err := rows.Scan(
			&h.ID,
			&h.Name,
			&h.Description,
			&h.StarRating,
			&h.CityID,
			&h.CityName,
			&amenities,
			&h.ImageURL,
			&h.IsActive,
			&h.CreatedAt,
		); err != nil {
			return nil, err
		}
		h.Amenities = toAmenities(amenities)
		hotels = append(hotels, h)
		ids = append(ids, h.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(hotels) == 0 {
		return nil, nil
	}

	roomsByHotel, err := r.roomsForHotels(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range hotels {
		hotels[i].Rooms = roomsByHotel[hotels[i].ID]
	}
	return hotels, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, hotel domain.Hotel) (*domain.Hotel, error) {
	const q = `
INSERT INTO hotels (city_id, name, description, star_rating, amenities, image_url, is_active)
VALUES ($1, $2, NULLIF($3, ''), $4, $5, NULLIF($6, ''), $7)
ON CONFLICT (city_id, name) DO UPDATE SET
    description = EXCLUDED.description,
    star_rating = EXCLUDED.star_rating,
    amenities = EXCLUDED.amenities,
    image_url = EXCLUDED.image_url,
    is_active = EXCLUDED.is_active
RETURNING id::text, created_at
`
	res := hotel
	amenities := make([]string, 0, len(hotel.Amenities))
	for _, a := range hotel.Amenities {
		amenities = append(amenities, string(a))
	}
	if err := r.pool.QueryRow(ctx, q,
		hotel.CityID,
		hotel.Name,
		hotel.Description,
		hotel.StarRating,
		amenities,
		hotel.ImageURL,
		hotel.IsActive,
	).Scan(&res.ID, &res.CreatedAt); err != nil {
		r.logger.Error("hotel repo: upsert", zap.String("name", hotel.Name), zap.Error(err))
		return nil, err
	}
	return &res, nil
}

func (r *postgresRepo) roomsForHotels(ctx context.Context, hotelIDs []string) (map[string][]domain.Room, error) {
	const q = `
SELECT id::text, hotel_id::text, COALESCE(room_number, ''), room_type, price_per_night_cents,
       max_adults, max_children, quantity, COALESCE(image_url, ''), created_at
FROM rooms
WHERE hotel_id = ANY($1)
ORDER BY created_at ASC
`
	rows, err := r.pool.Query(ctx, q, hotelIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string][]domain.Room)
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
		result[rm.HotelID] = append(result[rm.HotelID], rm)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// escapeLike neutralizes LIKE metacharacters in user input so a location of
// "%" matches nothing instead of every city.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func toAmenities(values []string) []domain.Amenity {
	if len(values) == 0 {
		return nil
	}
	result := make([]domain.Amenity, 0, len(values))
	for _, v := range values {
		result = append(result, domain.Amenity(v))
	}
	return result
}
