package booking

import (
	"context"
	"time"

	"staybook/internal/domain"
)

type CheckoutInput struct {
	UserID          string
	Reference       string
	ContactName     string
	ContactPhone    string
	ContactEmail    string
	PaymentMethod   string
	SpecialRequests string
}

type Repository interface {
	// CreateFromCart converts the user's cart into a booking in one
	// transaction: capacity is re-validated per line item with the cart's
	// room rows locked, the booking and its items are inserted, and the
	// cart is deleted. Either all of it commits or none of it is observable.
	//
	// Returns domain.ErrEmptyCart when the cart is absent or empty,
	// domain.ErrNoCapacity when a line item no longer fits, and
	// domain.ErrDuplicateReference on a booking reference collision.
	CreateFromCart(ctx context.Context, in CheckoutInput) (*domain.Booking, error)

	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	GetByReference(ctx context.Context, reference string) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Booking, error)

	// CountOverlapping returns the number of non-cancelled booking line
	// items for the room that overlap the half-open window [checkIn, checkOut).
	CountOverlapping(ctx context.Context, roomID string, checkIn, checkOut time.Time) (int, error)
	// CountOverlappingByRooms is the batched form, keyed by room id. Rooms
	// with no overlapping items are absent from the result.
	CountOverlappingByRooms(ctx context.Context, roomIDs []string, checkIn, checkOut time.Time) (map[string]int, error)
}
