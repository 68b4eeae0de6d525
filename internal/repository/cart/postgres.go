package cart

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

func (r *postgresRepo) GetOrCreate(ctx context.Context, userID string) (*domain.Cart, error) {
	// Find-or-insert, not find-then-insert: the insert is a no-op when a
	// concurrent request won the race, and the follow-up select sees the
	// winner's row.
	const insertQ = `
INSERT INTO carts (user_id)
VALUES ($1)
ON CONFLICT (user_id) DO NOTHING
`
	if _, err := r.pool.Exec(ctx, insertQ, userID); err != nil {
		r.logger.Error("cart repo: get or create", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	cart, err := r.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return cart, nil
}

func (r *postgresRepo) GetByUser(ctx context.Context, userID string) (*domain.Cart, error) {
	const cartQ = `
SELECT id::text, user_id, created_at
FROM carts
WHERE user_id = $1
`
	var cart domain.Cart
	if err := r.pool.QueryRow(ctx, cartQ, userID).Scan(&cart.ID, &cart.UserID, &cart.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("cart repo: get by user", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	const itemsQ = `
SELECT ci.id::text, ci.cart_id::text, ci.room_id::text, ci.check_in, ci.check_out, ci.price_cents, ci.created_at,
       r.room_type, COALESCE(r.image_url, ''), h.name, c.name
FROM cart_items ci
JOIN rooms r ON r.id = ci.room_id
JOIN hotels h ON h.id = r.hotel_id
JOIN cities c ON c.id = h.city_id
WHERE ci.cart_id = $1
ORDER BY ci.created_at ASC
`
	rows, err := r.pool.Query(ctx, itemsQ, cart.ID)
	if err != nil {
		r.logger.Error("cart repo: load items", zap.String("cart_id", cart.ID), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	cart.Items = []domain.CartItem{}
	for rows.Next() {
		var item domain.CartItem
		if err := rows.Scan(
			&item.ID,
			&item.CartID,
			&item.RoomID,
			&item.CheckIn,
			&item.CheckOut,
			&item.PriceCents,
			&item.CreatedAt,
			&item.RoomType,
			&item.ImageURL,
			&item.HotelName,
			&item.HotelCity,
		); err != nil {
			return nil, err
		}
		cart.Items = append(cart.Items, item)
		cart.TotalCents += item.PriceCents
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *postgresRepo) AddItem(ctx context.Context, cartID string, in AddItemInput) error {
	const q = `
INSERT INTO cart_items (cart_id, room_id, check_in, check_out, price_cents)
VALUES ($1, $2, $3, $4, $5)
`
	if _, err := r.pool.Exec(ctx, q, cartID, in.RoomID, in.CheckIn, in.CheckOut, in.PriceCents); err != nil {
		r.logger.Error("cart repo: add item", zap.String("cart_id", cartID), zap.String("room_id", in.RoomID), zap.Error(err))
		return err
	}
	return nil
}

func (r *postgresRepo) RemoveItem(ctx context.Context, cartID, itemID string) error {
	// A malformed item id cannot name a row, so it falls under the same
	// no-op contract as an absent one.
	if !domain.ValidID(itemID) {
		return nil
	}
	const q = `
DELETE FROM cart_items
WHERE id = $1 AND cart_id = $2
`
	if _, err := r.pool.Exec(ctx, q, itemID, cartID); err != nil {
		r.logger.Error("cart repo: remove item", zap.String("cart_id", cartID), zap.String("item_id", itemID), zap.Error(err))
		return err
	}
	return nil
}
