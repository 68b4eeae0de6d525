package cart

import (
	"context"
	"time"

	"staybook/internal/domain"
)

type AddItemInput struct {
	RoomID     string
	CheckIn    time.Time
	CheckOut   time.Time
	PriceCents int64
}

type Repository interface {
	// GetOrCreate returns the user's cart, inserting one if absent. Safe
	// under concurrent first access via the user_id uniqueness constraint.
	GetOrCreate(ctx context.Context, userID string) (*domain.Cart, error)
	// GetByUser returns the cart with items enriched with room and hotel
	// display data, or domain.ErrNotFound when the user has no cart.
	GetByUser(ctx context.Context, userID string) (*domain.Cart, error)
	AddItem(ctx context.Context, cartID string, in AddItemInput) error
	// RemoveItem deletes the item if present. Removing an absent item is a no-op.
	RemoveItem(ctx context.Context, cartID, itemID string) error
}
